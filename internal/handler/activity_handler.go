package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/service"
	"github.com/rawa-tech/zagros-erp/pkg/response"
)

// ActivityHandler serves the audit trail browsing endpoint.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler creates a new handler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary Browse the audit trail
// @Tags Activity
// @Produce json
// @Param user_id query string false "Filter by actor"
// @Param action query string false "Filter by action"
// @Param table query string false "Filter by table"
// @Param from query string false "From (RFC3339)"
// @Param to query string false "To (RFC3339)"
// @Success 200 {object} response.Envelope
// @Router /activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	filter := models.ActivityFilter{
		UserID:    c.Query("user_id"),
		Action:    c.Query("action"),
		TableName: c.Query("table"),
	}
	filter.Page, filter.PageSize = pageParams(c)
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}

	entries, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}
