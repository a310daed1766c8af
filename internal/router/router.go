package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/handler"
	"github.com/rawa-tech/zagros-erp/internal/middleware"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/service"
	"github.com/rawa-tech/zagros-erp/pkg/config"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
	"github.com/rawa-tech/zagros-erp/pkg/logger"
	corsmiddleware "github.com/rawa-tech/zagros-erp/pkg/middleware/cors"
	reqidmiddleware "github.com/rawa-tech/zagros-erp/pkg/middleware/requestid"
	"github.com/rawa-tech/zagros-erp/pkg/response"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Order     *handler.OrderHandler
	Customer  *handler.CustomerHandler
	Supplier  *handler.SupplierHandler
	Setting   *handler.SettingHandler
	Dashboard *handler.DashboardHandler
	Activity  *handler.ActivityHandler
	Report    *handler.ReportHandler
	I18n      *handler.I18nHandler
}

// requireAdmin gates scrape endpoints on an admin session.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.SessionFromContext(c)
		if !ok || session.Role != models.RoleAdmin {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// New assembles the gin engine: ambient middleware, public endpoints and the
// session-guarded API groups with per-route permission checks.
func New(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, cookies middleware.CookieConfig, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", middleware.Session(auth, cookies), requireAdmin(), gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// No session required: login, the reset flow, dictionaries and signed
	// report downloads (the token is the authorization).
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.POST("/auth/reset-password", h.Auth.ResetPassword)
	api.GET("/i18n", h.I18n.Locales)
	api.GET("/i18n/:locale", h.I18n.Dictionary)
	if cfg.Reports.Enabled {
		api.GET("/reports/download/:token", h.Report.Download)
	}

	authed := api.Group("")
	authed.Use(middleware.Session(auth, cookies))
	authed.Use(middleware.Locale(cfg.I18N.DefaultLocale))
	authed.Use(middleware.CSRF())

	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Me)
	authed.POST("/auth/change-password", h.Auth.ChangePassword)

	perm := func(permission string) gin.HandlerFunc {
		return middleware.RequirePermission(auth, permission)
	}

	authed.GET("/dashboard/summary", perm(models.PermDashboardView), h.Dashboard.Summary)

	products := authed.Group("/products")
	{
		products.GET("", perm(models.PermProductsView), h.Product.List)
		products.GET("/:id", perm(models.PermProductsView), h.Product.Get)
		products.POST("", perm(models.PermProductsCreate), h.Product.Create)
		products.PUT("/:id", perm(models.PermProductsUpdate), h.Product.Update)
		products.DELETE("/:id", perm(models.PermProductsDelete), h.Product.Delete)
		products.PATCH("/:id/status", perm(models.PermProductsUpdate), h.Product.ToggleStatus)
		products.POST("/:id/image", perm(models.PermProductsUpdate), h.Product.UploadImage)
	}

	categories := authed.Group("/categories")
	{
		categories.GET("", perm(models.PermProductsView), h.Category.List)
		categories.POST("", perm(models.PermProductsCreate), h.Category.Create)
		categories.PUT("/:id", perm(models.PermProductsUpdate), h.Category.Update)
		categories.DELETE("/:id", perm(models.PermProductsDelete), h.Category.Delete)
	}

	orders := authed.Group("/orders")
	{
		orders.GET("", perm(models.PermSalesView), h.Order.List)
		orders.GET("/:id", perm(models.PermSalesView), h.Order.Get)
		orders.POST("", perm(models.PermSalesCreate), h.Order.Create)
		orders.PATCH("/:id/status", perm(models.PermSalesUpdate), h.Order.UpdateStatus)
	}

	customers := authed.Group("/customers")
	{
		customers.GET("", perm(models.PermCustomersView), h.Customer.List)
		customers.GET("/:id", perm(models.PermCustomersView), h.Customer.Get)
		customers.POST("", perm(models.PermCustomersManage), h.Customer.Create)
		customers.PUT("/:id", perm(models.PermCustomersManage), h.Customer.Update)
		customers.DELETE("/:id", perm(models.PermCustomersManage), h.Customer.Delete)
	}

	suppliers := authed.Group("/suppliers")
	{
		suppliers.GET("", perm(models.PermSuppliersView), h.Supplier.List)
		suppliers.GET("/:id", perm(models.PermSuppliersView), h.Supplier.Get)
		suppliers.POST("", perm(models.PermSuppliersManage), h.Supplier.Create)
		suppliers.PUT("/:id", perm(models.PermSuppliersManage), h.Supplier.Update)
		suppliers.DELETE("/:id", perm(models.PermSuppliersManage), h.Supplier.Delete)
	}

	users := authed.Group("/users")
	{
		users.GET("", perm(models.PermUsersView), h.User.List)
		users.GET("/:id", perm(models.PermUsersView), h.User.Get)
		users.POST("", perm(models.PermUsersManage), h.User.Create)
		users.PUT("/:id", perm(models.PermUsersManage), h.User.Update)
		users.PATCH("/:id/status", perm(models.PermUsersManage), h.User.ToggleStatus)
	}

	settings := authed.Group("/settings", perm(models.PermSettingsManage))
	{
		settings.GET("", h.Setting.List)
		settings.PUT("", h.Setting.BulkUpdate)
		settings.PUT("/:key", h.Setting.Update)
	}

	if cfg.Reports.Enabled {
		reports := authed.Group("/reports", perm(models.PermReportsRun))
		{
			reports.POST("", h.Report.Create)
			reports.GET("", h.Report.ListMine)
			reports.GET("/:id", h.Report.Status)
		}
	}

	authed.GET("/activity", perm(models.PermActivityView), h.Activity.List)

	return r
}
