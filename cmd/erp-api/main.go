package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/rawa-tech/zagros-erp/api/swagger"
	"github.com/rawa-tech/zagros-erp/internal/handler"
	"github.com/rawa-tech/zagros-erp/internal/i18n"
	"github.com/rawa-tech/zagros-erp/internal/middleware"
	"github.com/rawa-tech/zagros-erp/internal/repository"
	"github.com/rawa-tech/zagros-erp/internal/router"
	"github.com/rawa-tech/zagros-erp/internal/service"
	"github.com/rawa-tech/zagros-erp/pkg/cache"
	"github.com/rawa-tech/zagros-erp/pkg/config"
	"github.com/rawa-tech/zagros-erp/pkg/database"
	"github.com/rawa-tech/zagros-erp/pkg/jobs"
	"github.com/rawa-tech/zagros-erp/pkg/logger"
	"github.com/rawa-tech/zagros-erp/pkg/storage"
)

// @title Zagros ERP API
// @version 1.0.0
// @description Inventory, sales and back-office API for small retail businesses
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Auth.SessionTimeout)
	lockoutRepo := repository.NewLockoutRepository(redisClient, cfg.Auth.LockoutWindow)

	validate := validator.New()
	metrics := service.NewMetricsService()
	translator := i18n.New(cfg.I18N.DefaultLocale)

	authService := service.NewAuthService(userRepo, sessionRepo, lockoutRepo, activityRepo, metrics, validate, logr, service.AuthConfig{
		MaxAttempts:           cfg.Auth.MaxAttempts,
		LockoutWindow:         cfg.Auth.LockoutWindow,
		RememberTokenTTL:      cfg.Auth.RememberTokenTTL,
		RememberBypassLockout: cfg.Auth.RememberBypassLockout,
		LogUnknownLogins:      cfg.Auth.LogUnknownLogins,
		ResetTokenSecret:      cfg.Auth.ResetTokenSecret,
		ResetTokenTTL:         cfg.Auth.ResetTokenTTL,
	})

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	userService := service.NewUserService(userRepo, activityRepo, validate, logr)
	productService := service.NewProductService(productRepo, uploadStore, activityRepo, validate, logr, service.ProductServiceConfig{
		MaxImageBytes: cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:  cfg.Uploads.AllowedMIMEs,
	})
	categoryService := service.NewCategoryService(categoryRepo, activityRepo, validate, logr)
	orderService := service.NewOrderService(orderRepo, productRepo, activityRepo, validate, logr)
	customerService := service.NewCustomerService(customerRepo, activityRepo, validate, logr)
	supplierService := service.NewSupplierService(supplierRepo, activityRepo, validate, logr)
	settingService := service.NewSettingService(settingRepo, cacheRepo, activityRepo, validate, logr, 5*time.Minute)
	dashboardService := service.NewDashboardService(productRepo, customerRepo, orderRepo, cacheRepo, metrics, logr, cfg.Dashboard.CacheTTL)
	activityService := service.NewActivityService(activityRepo, logr)

	var (
		reportService *service.ReportService
		reportQueue   *jobs.Queue
	)
	if cfg.Reports.Enabled {
		reportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exporter := service.NewExportService(productRepo, orderRepo, translator, reportStore, signer, logr, cfg.APIPrefix+"/reports/download")
		worker := service.NewReportWorker(reportRepo, exporter, metrics, logr, cfg.Reports.WorkerRetries)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportService = service.NewReportService(reportRepo, reportQueue, exporter, activityRepo, validate, logr, cfg.Reports.SignedURLTTL)

		reportQueue.Start(ctx)
		if err := reportService.RecoverPendingJobs(ctx, 50); err != nil {
			logr.Sugar().Warnw("report job recovery failed", "error", err)
		}
		reportService.StartCleanup(ctx, cfg.Reports.CleanupInterval)
	}

	cookies := middleware.CookieConfig{
		Secure:      cfg.Auth.SecureCookies,
		RememberTTL: int(cfg.Auth.RememberTokenTTL.Seconds()),
	}

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, metrics, cookies),
		User:      handler.NewUserHandler(userService),
		Product:   handler.NewProductHandler(productService, dashboardService),
		Category:  handler.NewCategoryHandler(categoryService),
		Order:     handler.NewOrderHandler(orderService, dashboardService),
		Customer:  handler.NewCustomerHandler(customerService),
		Supplier:  handler.NewSupplierHandler(supplierService),
		Setting:   handler.NewSettingHandler(settingService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Activity:  handler.NewActivityHandler(activityService),
		I18n:      handler.NewI18nHandler(translator),
	}
	if reportService != nil {
		handlers.Report = handler.NewReportHandler(reportService)
	}

	engine := router.New(cfg, logr, authService, metrics, cookies, handlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	if reportQueue != nil {
		reportQueue.Stop()
	}
	logr.Sugar().Infow("server stopped")
}
