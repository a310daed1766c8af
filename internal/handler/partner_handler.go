package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/service"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
	"github.com/rawa-tech/zagros-erp/pkg/response"
)

func partnerFilter(c *gin.Context) models.PartnerFilter {
	filter := models.PartnerFilter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filter.Page, filter.PageSize = pageParams(c)
	if status := c.Query("status"); status != "" {
		s := models.Status(status)
		filter.Status = &s
	}
	return filter
}

// CustomerHandler exposes customer endpoints.
type CustomerHandler struct {
	service *service.CustomerService
}

// NewCustomerHandler creates a new handler.
func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: svc}
}

// List godoc
// @Summary List customers
// @Tags Customers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	customers, pagination, err := h.service.List(c.Request.Context(), partnerFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customers, pagination)
}

// Get godoc
// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customer, nil)
}

// Create godoc
// @Summary Create a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param payload body dto.PartnerRequest true "Customer payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid customer payload"))
		return
	}

	customer, err := h.service.Create(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, customer)
}

// Update godoc
// @Summary Update a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer id"
// @Param payload body dto.PartnerRequest true "Customer payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	var req dto.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid customer payload"))
		return
	}

	customer, err := h.service.Update(c.Request.Context(), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customer, nil)
}

// Delete godoc
// @Summary Delete a customer
// @Description Customers with recorded sales are deactivated instead of deleted
// @Tags Customers
// @Produce json
// @Param id path string true "Customer id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SupplierHandler exposes supplier endpoints.
type SupplierHandler struct {
	service *service.SupplierService
}

// NewSupplierHandler creates a new handler.
func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: svc}
}

// List godoc
// @Summary List suppliers
// @Tags Suppliers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, pagination, err := h.service.List(c.Request.Context(), partnerFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suppliers, pagination)
}

// Get godoc
// @Summary Get a supplier
// @Tags Suppliers
// @Produce json
// @Param id path string true "Supplier id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /suppliers/{id} [get]
func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, supplier, nil)
}

// Create godoc
// @Summary Create a supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param payload body dto.PartnerRequest true "Supplier payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid supplier payload"))
		return
	}

	supplier, err := h.service.Create(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, supplier)
}

// Update godoc
// @Summary Update a supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier id"
// @Param payload body dto.PartnerRequest true "Supplier payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	var req dto.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid supplier payload"))
		return
	}

	supplier, err := h.service.Update(c.Request.Context(), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, supplier, nil)
}

// Delete godoc
// @Summary Delete a supplier
// @Tags Suppliers
// @Produce json
// @Param id path string true "Supplier id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
