package i18n

// Dictionaries for the back-office UI. Keys are dot-scoped by page; values for
// ku are Sorani Kurdish in Arabic script.
var dictionaries = map[string]map[string]string{
	LocaleEN: {
		"app.title":            "Zagros ERP",
		"nav.dashboard":        "Dashboard",
		"nav.products":         "Products",
		"nav.categories":       "Categories",
		"nav.sales":            "Sales",
		"nav.customers":        "Customers",
		"nav.suppliers":        "Suppliers",
		"nav.users":            "Users",
		"nav.settings":         "Settings",
		"nav.reports":          "Reports",
		"nav.activity":         "Activity Log",
		"auth.login":           "Login",
		"auth.logout":          "Logout",
		"auth.username":        "Username or Email",
		"auth.password":        "Password",
		"auth.remember":        "Remember me",
		"auth.invalid":         "Invalid username or password",
		"auth.locked":          "Too many failed attempts, try again later",
		"auth.session_expired": "Your session has expired, please log in again",
		"auth.forbidden":       "You do not have permission to perform this action",
		"dashboard.products":   "Products",
		"dashboard.low_stock":  "Low Stock",
		"dashboard.customers":  "Customers",
		"dashboard.today":      "Today's Sales",
		"dashboard.pending":    "Pending Orders",
		"products.sku":         "SKU",
		"products.name":        "Name",
		"products.category":    "Category",
		"products.price":       "Price",
		"products.quantity":    "Quantity",
		"products.in_use":      "Product is referenced by sales and cannot be deleted",
		"orders.order_no":      "Order No",
		"orders.date":          "Date",
		"orders.total":         "Total",
		"orders.status":        "Status",
		"orders.out_of_stock":  "Insufficient stock for product",
		"common.actions":       "Actions",
		"common.save":          "Save",
		"common.cancel":        "Cancel",
		"common.delete":        "Delete",
		"common.active":        "Active",
		"common.inactive":      "Inactive",
		"common.search":        "Search",
	},
	LocaleKU: {
		"app.title":            "زاگرۆس ERP",
		"nav.dashboard":        "داشبۆرد",
		"nav.products":         "بەرهەمەکان",
		"nav.categories":       "پۆلەکان",
		"nav.sales":            "فرۆشتنەکان",
		"nav.customers":        "کڕیارەکان",
		"nav.suppliers":        "دابینکەرەکان",
		"nav.users":            "بەکارهێنەرەکان",
		"nav.settings":         "ڕێکخستنەکان",
		"nav.reports":          "ڕاپۆرتەکان",
		"nav.activity":         "تۆماری چالاکی",
		"auth.login":           "چوونەژوورەوە",
		"auth.logout":          "چوونەدەرەوە",
		"auth.username":        "ناوی بەکارهێنەر یان ئیمەیڵ",
		"auth.password":        "وشەی نهێنی",
		"auth.remember":        "لەبیرم بهێڵەوە",
		"auth.invalid":         "ناوی بەکارهێنەر یان وشەی نهێنی هەڵەیە",
		"auth.locked":          "هەوڵی زۆر سەرنەکەوتوو، دواتر هەوڵ بدەوە",
		"auth.session_expired": "کاتی دانیشتنەکەت تەواو بووە، دووبارە بچۆرەوە ژوورەوە",
		"auth.forbidden":       "ڕێگەپێدراو نیت بۆ ئەم کردارە",
		"dashboard.products":   "بەرهەمەکان",
		"dashboard.low_stock":  "کۆگای کەم",
		"dashboard.customers":  "کڕیارەکان",
		"dashboard.today":      "فرۆشتنی ئەمڕۆ",
		"dashboard.pending":    "داواکاری چاوەڕوان",
		"products.sku":         "SKU",
		"products.name":        "ناو",
		"products.category":    "پۆل",
		"products.price":       "نرخ",
		"products.quantity":    "بڕ",
		"products.in_use":      "بەرهەمەکە لە فرۆشتنەکاندا بەکارهاتووە و ناسڕدرێتەوە",
		"orders.order_no":      "ژمارەی داواکاری",
		"orders.date":          "بەروار",
		"orders.total":         "کۆی گشتی",
		"orders.status":        "دۆخ",
		"orders.out_of_stock":  "کۆگا بەش ناکات بۆ بەرهەمەکە",
		"common.actions":       "کردارەکان",
		"common.save":          "پاشەکەوتکردن",
		"common.cancel":        "هەڵوەشاندنەوە",
		"common.delete":        "سڕینەوە",
		"common.active":        "چالاک",
		"common.inactive":      "ناچالاک",
		"common.search":        "گەڕان",
	},
	LocaleAR: {
		"app.title":            "زاغروس ERP",
		"nav.dashboard":        "لوحة التحكم",
		"nav.products":         "المنتجات",
		"nav.categories":       "الفئات",
		"nav.sales":            "المبيعات",
		"nav.customers":        "العملاء",
		"nav.suppliers":        "الموردون",
		"nav.users":            "المستخدمون",
		"nav.settings":         "الإعدادات",
		"nav.reports":          "التقارير",
		"nav.activity":         "سجل النشاط",
		"auth.login":           "تسجيل الدخول",
		"auth.logout":          "تسجيل الخروج",
		"auth.username":        "اسم المستخدم أو البريد الإلكتروني",
		"auth.password":        "كلمة المرور",
		"auth.remember":        "تذكرني",
		"auth.invalid":         "اسم المستخدم أو كلمة المرور غير صحيحة",
		"auth.locked":          "محاولات فاشلة كثيرة، حاول مرة أخرى لاحقاً",
		"auth.session_expired": "انتهت الجلسة، يرجى تسجيل الدخول مرة أخرى",
		"auth.forbidden":       "ليس لديك صلاحية لهذا الإجراء",
		"dashboard.products":   "المنتجات",
		"dashboard.low_stock":  "مخزون منخفض",
		"dashboard.customers":  "العملاء",
		"dashboard.today":      "مبيعات اليوم",
		"dashboard.pending":    "طلبات معلقة",
		"products.sku":         "SKU",
		"products.name":        "الاسم",
		"products.category":    "الفئة",
		"products.price":       "السعر",
		"products.quantity":    "الكمية",
		"products.in_use":      "المنتج مستخدم في مبيعات ولا يمكن حذفه",
		"orders.order_no":      "رقم الطلب",
		"orders.date":          "التاريخ",
		"orders.total":         "المجموع",
		"orders.status":        "الحالة",
		"orders.out_of_stock":  "المخزون غير كافٍ للمنتج",
		"common.actions":       "إجراءات",
		"common.save":          "حفظ",
		"common.cancel":        "إلغاء",
		"common.delete":        "حذف",
		"common.active":        "فعال",
		"common.inactive":      "غير فعال",
		"common.search":        "بحث",
	},
}
