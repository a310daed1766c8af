package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/service"
	"github.com/rawa-tech/zagros-erp/pkg/response"
)

// DashboardHandler serves the landing page aggregates.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Card counters plus the monthly revenue chart, served from cache when fresh
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
