package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/models"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type activityReader interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, int, error)
}

// ActivityService serves the audit trail browsing UI.
type ActivityService struct {
	repo   activityReader
	logger *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(repo activityReader, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger}
}

// List returns audit records matching the filter, newest first.
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activity")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
