package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/service"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
	"github.com/rawa-tech/zagros-erp/pkg/response"
)

// OrderHandler exposes the sales order endpoints.
type OrderHandler struct {
	service   *service.OrderService
	dashboard *service.DashboardService
}

// NewOrderHandler creates a new handler.
func NewOrderHandler(svc *service.OrderService, dashboard *service.DashboardService) *OrderHandler {
	return &OrderHandler{service: svc, dashboard: dashboard}
}

// List godoc
// @Summary List orders
// @Tags Orders
// @Produce json
// @Param customer_id query string false "Filter by customer"
// @Param status query string false "Filter by status"
// @Param from query string false "Created from (RFC3339)"
// @Param to query string false "Created until (RFC3339)"
// @Success 200 {object} response.Envelope
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	filter := models.OrderFilter{
		CustomerID: c.Query("customer_id"),
		UserID:     c.Query("user_id"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	filter.Page, filter.PageSize = pageParams(c)
	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		filter.Status = &s
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}

	orders, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, orders, pagination)
}

// Get godoc
// @Summary Get an order with its lines
// @Tags Orders
// @Produce json
// @Param id path string true "Order id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, order, nil)
}

// Create godoc
// @Summary Record a sale
// @Description Prices come from the product at order time; a completed order moves stock
// @Tags Orders
// @Accept json
// @Produce json
// @Param payload body dto.CreateOrderRequest true "Order payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid order payload"))
		return
	}

	order, err := h.service.Create(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.Invalidate(c.Request.Context())
	response.Created(c, order)
}

// UpdateStatus godoc
// @Summary Transition an order
// @Description pending may complete or cancel, completed may only cancel
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order id"
// @Param payload body dto.UpdateOrderStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dashboard.Invalidate(c.Request.Context())
	response.JSON(c, http.StatusOK, order, nil)
}
