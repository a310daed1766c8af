package models

// Permission strings are checked by exact match; there is no wildcard or
// hierarchy. Admin bypasses the table entirely.
const (
	PermDashboardView = "dashboard.view"

	PermProductsView   = "products.view"
	PermProductsCreate = "products.create"
	PermProductsUpdate = "products.update"
	PermProductsDelete = "products.delete"

	PermSalesView   = "sales.view"
	PermSalesCreate = "sales.create"
	PermSalesUpdate = "sales.update"
	PermSalesDelete = "sales.delete"

	PermCustomersView   = "customers.view"
	PermCustomersManage = "customers.manage"

	PermSuppliersView   = "suppliers.view"
	PermSuppliersManage = "suppliers.manage"

	PermUsersView   = "users.view"
	PermUsersManage = "users.manage"
	PermUsersDelete = "users.delete"

	PermSettingsManage = "settings.manage"
	PermReportsRun     = "reports.run"
	PermActivityView   = "activity.view"
)

// rolePermissions is the static role -> permission-set table. Admin is not
// listed because HasPermission short-circuits it to true.
var rolePermissions = map[UserRole]map[string]struct{}{
	RoleManager: permissionSet(
		PermDashboardView,
		PermProductsView, PermProductsCreate, PermProductsUpdate, PermProductsDelete,
		PermSalesView, PermSalesCreate, PermSalesUpdate, PermSalesDelete,
		PermCustomersView, PermCustomersManage,
		PermSuppliersView, PermSuppliersManage,
		PermUsersView,
		PermReportsRun,
		PermActivityView,
	),
	RoleEmployee: permissionSet(
		PermDashboardView,
		PermProductsView,
		PermSalesView, PermSalesCreate,
		PermCustomersView,
	),
}

// RoleHasPermission returns set membership for the given role. Admin always
// satisfies every permission.
func RoleHasPermission(role UserRole, permission string) bool {
	if role == RoleAdmin {
		return true
	}
	grants, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = grants[permission]
	return ok
}

// PermissionsForRole lists the grants for a role, used by the /auth/me payload
// so the frontend can hide menu entries.
func PermissionsForRole(role UserRole) []string {
	if role == RoleAdmin {
		return allPermissions()
	}
	grants, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	result := make([]string, 0, len(grants))
	for perm := range grants {
		result = append(result, perm)
	}
	return result
}

func permissionSet(perms ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func allPermissions() []string {
	return []string{
		PermDashboardView,
		PermProductsView, PermProductsCreate, PermProductsUpdate, PermProductsDelete,
		PermSalesView, PermSalesCreate, PermSalesUpdate, PermSalesDelete,
		PermCustomersView, PermCustomersManage,
		PermSuppliersView, PermSuppliersManage,
		PermUsersView, PermUsersManage, PermUsersDelete,
		PermSettingsManage, PermReportsRun, PermActivityView,
	}
}
