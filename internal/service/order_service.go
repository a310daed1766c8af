package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/repository"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, order *models.Order, next models.OrderStatus) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	NextOrderNo(ctx context.Context) (string, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
}

type orderProductLookup interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

// OrderService records sales and drives the order lifecycle. Prices are read
// from the product at order time so later price changes never rewrite totals.
type OrderService struct {
	orders    orderRepository
	products  orderProductLookup
	audit     *auditTrail
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOrderService constructs the service.
func NewOrderService(orders orderRepository, products orderProductLookup, activity activityRecorder, validate *validator.Validate, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		audit:     newAuditTrail(activity, logger),
		validator: validate,
		logger:    logger,
	}
}

// Create prices the requested lines and persists the order. A completed order
// decrements stock atomically; insufficient stock fails the whole order.
func (s *OrderService) Create(ctx context.Context, req dto.CreateOrderRequest, meta RequestMeta) (*models.Order, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid order payload")
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := 0.0
	for _, line := range req.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown product in order")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
		}
		if product.Status != models.StatusActive {
			return nil, appErrors.Clone(appErrors.ErrValidation, "product is not active")
		}
		lineTotal := product.SellPrice * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.SellPrice,
			LineTotal: lineTotal,
		})
		subtotal += lineTotal
	}

	if req.Discount > subtotal {
		return nil, appErrors.Clone(appErrors.ErrValidation, "discount exceeds subtotal")
	}

	orderNo, err := s.orders.NextOrderNo(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate order number")
	}

	status := models.OrderPending
	if req.Complete {
		status = models.OrderCompleted
	}
	order := &models.Order{
		OrderNo:    orderNo,
		CustomerID: req.CustomerID,
		UserID:     meta.UserID,
		Status:     status,
		Subtotal:   subtotal,
		Discount:   req.Discount,
		Total:      subtotal - req.Discount,
		Items:      items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "insufficient stock for order")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create order")
	}

	s.audit.record(ctx, meta, models.ActivityCreate, "orders", order.ID)
	return order, nil
}

// Get returns an order with its lines.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	return order, nil
}

// List returns orders matching the filter.
func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, *models.Pagination, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list orders")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return orders, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// allowedTransitions guards the order lifecycle: pending moves forward or
// cancels, completed can only cancel, cancelled is final.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:   {models.OrderCompleted, models.OrderCancelled},
	models.OrderCompleted: {models.OrderCancelled},
}

// UpdateStatus transitions the order, moving stock where the transition
// requires it.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req dto.UpdateOrderStatusRequest, meta RequestMeta) (*models.Order, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.OrderStatus(req.Status)
	if next == order.Status {
		return order, nil
	}
	if !transitionAllowed(order.Status, next) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "order status transition not allowed")
	}

	if err := s.orders.UpdateStatus(ctx, order, next); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "insufficient stock to complete order")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update order status")
	}
	order.Status = next

	s.audit.record(ctx, meta, models.ActivityUpdate, "orders", order.ID)
	return order, nil
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
