package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type dashboardProductReader interface {
	CountByStatus(ctx context.Context, status models.Status) (int, error)
	CountLowStock(ctx context.Context) (int, error)
}

type dashboardCustomerReader interface {
	CountByStatus(ctx context.Context, status models.Status) (int, error)
}

type dashboardOrderReader interface {
	CountByStatus(ctx context.Context, status models.OrderStatus) (int, error)
	TodayTotals(ctx context.Context) (int, float64, error)
	MonthlySales(ctx context.Context, months int) ([]models.MonthlySales, error)
}

type dashboardMetrics interface {
	RecordCacheLookup(hit bool)
}

const dashboardCacheKey = "dashboard:summary"

// DashboardService aggregates the landing page counters and chart. The
// payload is cached briefly since every user hits it right after login.
type DashboardService struct {
	products  dashboardProductReader
	customers dashboardCustomerReader
	orders    dashboardOrderReader
	cache     settingCache
	metrics   dashboardMetrics
	logger    *zap.Logger
	cacheTTL  time.Duration
	months    int
}

// NewDashboardService constructs the service.
func NewDashboardService(products dashboardProductReader, customers dashboardCustomerReader, orders dashboardOrderReader, cache settingCache, metrics dashboardMetrics, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		products:  products,
		customers: customers,
		orders:    orders,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cacheTTL:  cacheTTL,
		months:    12,
	}
}

// Summary composes the dashboard payload, serving from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.cache != nil {
		var cached dto.DashboardResponse
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			s.observeCache(true)
			return &cached, nil
		}
		s.observeCache(false)
	}

	productCount, err := s.products.CountByStatus(ctx, models.StatusActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count products")
	}
	lowStock, err := s.products.CountLowStock(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count low stock")
	}
	customerCount, err := s.customers.CountByStatus(ctx, models.StatusActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count customers")
	}
	pendingOrders, err := s.orders.CountByStatus(ctx, models.OrderPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending orders")
	}
	todayOrders, todaySales, err := s.orders.TodayTotals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today totals")
	}
	chart, err := s.orders.MonthlySales(ctx, s.months)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load monthly sales")
	}

	response := &dto.DashboardResponse{
		Cards: dto.DashboardCards{
			ProductCount:  productCount,
			LowStockCount: lowStock,
			CustomerCount: customerCount,
			PendingOrders: pendingOrders,
			TodaySales:    todaySales,
			TodayOrders:   todayOrders,
		},
		Chart: chart,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, response, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}
	return response, nil
}

// Invalidate drops the cached summary; called after stock-moving writes.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (s *DashboardService) observeCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}
