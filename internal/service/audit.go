package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

// RequestMeta identifies the actor behind a mutating call for the audit trail.
type RequestMeta struct {
	UserID    string
	IP        string
	UserAgent string
}

// auditTrail is the shared best-effort audit writer used by the CRUD services.
// A write failure is logged and swallowed; it never fails the operation.
type auditTrail struct {
	activity activityRecorder
	logger   *zap.Logger
}

func newAuditTrail(activity activityRecorder, logger *zap.Logger) *auditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &auditTrail{activity: activity, logger: logger}
}

func (a *auditTrail) record(ctx context.Context, meta RequestMeta, action, table, recordID string) {
	if a == nil || a.activity == nil {
		return
	}
	entry := &models.ActivityLog{
		Action:    action,
		TableName: table,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	}
	if meta.UserID != "" {
		entry.UserID = &meta.UserID
	}
	if recordID != "" {
		entry.RecordID = &recordID
	}
	if err := a.activity.Create(ctx, entry); err != nil {
		a.logger.Warn("failed to record activity",
			zap.String("action", action),
			zap.String("table", table),
			zap.Error(err))
	}
}
