package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/repository"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type mockOrderStore struct {
	orders    map[string]*models.Order
	createErr error
	seq       int
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: make(map[string]*models.Order)}
}

func (m *mockOrderStore) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = "order-1"
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderStore) UpdateStatus(_ context.Context, order *models.Order, next models.OrderStatus) error {
	stored, ok := m.orders[order.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Status = next
	return nil
}

func (m *mockOrderStore) FindByID(_ context.Context, id string) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderStore) NextOrderNo(_ context.Context) (string, error) {
	m.seq++
	return "SO-000001", nil
}

func (m *mockOrderStore) List(_ context.Context, _ models.OrderFilter) ([]models.Order, int, error) {
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

type mockProductLookup struct {
	products map[string]*models.Product
}

func (m *mockProductLookup) FindByID(_ context.Context, id string) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *product
	return &copied, nil
}

func orderFixture() (*OrderService, *mockOrderStore, *mockProductLookup) {
	orders := newMockOrderStore()
	products := &mockProductLookup{products: map[string]*models.Product{
		"prod-1": {ID: "prod-1", SKU: "TEA-01", NameEN: "Black Tea", SellPrice: 2500, Quantity: 40, Status: models.StatusActive},
		"prod-2": {ID: "prod-2", SKU: "RICE-5", NameEN: "Rice 5kg", SellPrice: 9000, Quantity: 12, Status: models.StatusActive},
		"prod-3": {ID: "prod-3", SKU: "OIL-1", NameEN: "Oil", SellPrice: 4000, Quantity: 3, Status: models.StatusInactive},
	}}
	svc := NewOrderService(orders, products, &mockActivityStore{}, nil, nil)
	return svc, orders, products
}

func TestOrderCreatePricesFromProduct(t *testing.T) {
	svc, _, _ := orderFixture()

	order, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		Discount: 500,
		Items: []dto.OrderItemRequest{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 1},
		},
	}, RequestMeta{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, "SO-000001", order.OrderNo)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.InDelta(t, 14000, order.Subtotal, 0.001)
	assert.InDelta(t, 13500, order.Total, 0.001)
	require.Len(t, order.Items, 2)
	assert.InDelta(t, 2500, order.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 5000, order.Items[0].LineTotal, 0.001)
}

func TestOrderCreateCompleteSetsStatus(t *testing.T) {
	svc, _, _ := orderFixture()

	order, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		Complete: true,
		Items:    []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	}, RequestMeta{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, order.Status)
}

func TestOrderCreateRejectsUnknownProduct(t *testing.T) {
	svc, _, _ := orderFixture()

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "missing", Quantity: 1}},
	}, RequestMeta{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOrderCreateRejectsInactiveProduct(t *testing.T) {
	svc, _, _ := orderFixture()

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "prod-3", Quantity: 1}},
	}, RequestMeta{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOrderCreateRejectsOversizedDiscount(t *testing.T) {
	svc, _, _ := orderFixture()

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		Discount: 99999,
		Items:    []dto.OrderItemRequest{{ProductID: "prod-1", Quantity: 1}},
	}, RequestMeta{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOrderCreateMapsInsufficientStock(t *testing.T) {
	svc, orders, _ := orderFixture()
	orders.createErr = repository.ErrInsufficientStock

	_, err := svc.Create(context.Background(), dto.CreateOrderRequest{
		Complete: true,
		Items:    []dto.OrderItemRequest{{ProductID: "prod-2", Quantity: 50}},
	}, RequestMeta{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestOrderStatusTransitions(t *testing.T) {
	svc, orders, _ := orderFixture()
	orders.orders["order-1"] = &models.Order{ID: "order-1", Status: models.OrderPending}

	order, err := svc.UpdateStatus(context.Background(), "order-1", dto.UpdateOrderStatusRequest{Status: "completed"}, RequestMeta{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, order.Status)

	order, err = svc.UpdateStatus(context.Background(), "order-1", dto.UpdateOrderStatusRequest{Status: "cancelled"}, RequestMeta{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)
}

func TestOrderStatusRejectsBackwardTransition(t *testing.T) {
	svc, orders, _ := orderFixture()
	orders.orders["order-1"] = &models.Order{ID: "order-1", Status: models.OrderCancelled}

	_, err := svc.UpdateStatus(context.Background(), "order-1", dto.UpdateOrderStatusRequest{Status: "pending"}, RequestMeta{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	orders.orders["order-1"].Status = models.OrderCompleted
	_, err = svc.UpdateStatus(context.Background(), "order-1", dto.UpdateOrderStatusRequest{Status: "pending"}, RequestMeta{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestOrderStatusSameStatusIsNoop(t *testing.T) {
	svc, orders, _ := orderFixture()
	orders.orders["order-1"] = &models.Order{ID: "order-1", Status: models.OrderPending}

	order, err := svc.UpdateStatus(context.Background(), "order-1", dto.UpdateOrderStatusRequest{Status: "pending"}, RequestMeta{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
}
