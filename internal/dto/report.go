package dto

import (
	"time"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

// ReportRequest captures the POST /reports payload.
type ReportRequest struct {
	Type   models.ReportType   `json:"type" validate:"required,oneof=inventory sales"`
	Format models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	Locale string              `json:"locale,omitempty"`
	From   *time.Time          `json:"from,omitempty"`
	To     *time.Time          `json:"to,omitempty"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
