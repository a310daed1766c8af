package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/repository"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
	"github.com/rawa-tech/zagros-erp/pkg/jobs"
)

// JobTypeReport is the queue job type for report generation.
const JobTypeReport = "report.generate"

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type reportExporter interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
	ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
	Cleanup(ttl time.Duration) ([]string, error)
}

// ReportDownload is a resolved, authorized file handle for a finished report.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// ReportService owns the asynchronous report job lifecycle: enqueueing,
// status polling, signed download resolution and expired file cleanup.
type ReportService struct {
	repo      reportJobStore
	queue     jobDispatcher
	exporter  reportExporter
	audit     *auditTrail
	validator *validator.Validate
	logger    *zap.Logger
	resultTTL time.Duration
}

// NewReportService constructs the service. resultTTL bounds how long finished
// report files stay downloadable before cleanup removes them.
func NewReportService(repo reportJobStore, queue jobDispatcher, exporter reportExporter, activity activityRecorder, validate *validator.Validate, logger *zap.Logger, resultTTL time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if resultTTL <= 0 {
		resultTTL = 24 * time.Hour
	}
	return &ReportService{
		repo:      repo,
		queue:     queue,
		exporter:  exporter,
		audit:     newAuditTrail(activity, logger),
		validator: validate,
		logger:    logger,
		resultTTL: resultTTL,
	}
}

// CreateJob persists a queued job and hands it to the worker pool.
func (s *ReportService) CreateJob(ctx context.Context, req dto.ReportRequest, meta RequestMeta) (*dto.ReportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report range end precedes start")
	}

	job := &models.ReportJob{
		Type: req.Type,
		Params: models.ReportJobParams{
			Format: req.Format,
			Locale: req.Locale,
			From:   req.From,
			To:     req.To,
		},
		Status:    models.ReportStatusQueued,
		CreatedBy: meta.UserID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: JobTypeReport, Payload: job.ID}); err != nil {
		s.logger.Error("failed to enqueue report job", zap.String("job_id", job.ID), zap.Error(err))
		s.markFailed(ctx, job.ID, "could not enqueue job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}

	s.audit.record(ctx, meta, models.ActivityCreate, "report_jobs", job.ID)
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus returns job progress. Non-admin callers only see their own jobs.
func (s *ReportService) GetStatus(ctx context.Context, jobID, userID string, role models.UserRole) (*dto.ReportStatusResponse, error) {
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && job.CreatedBy != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	return &dto.ReportStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		ResultURL: job.ResultURL,
		Error:     job.ErrorMessage,
	}, nil
}

// ListMine returns the caller's recent jobs, newest first.
func (s *ReportService) ListMine(ctx context.Context, userID string, limit int) ([]dto.ReportStatusResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list report jobs")
	}
	out := make([]dto.ReportStatusResponse, 0, len(rows))
	for i := range rows {
		job := &rows[i]
		out = append(out, dto.ReportStatusResponse{
			ID:        job.ID,
			Status:    job.Status,
			Progress:  job.Progress,
			ResultURL: job.ResultURL,
			Error:     job.ErrorMessage,
		})
	}
	return out, nil
}

// ResolveDownload validates a signed token and opens the report file it
// points at. The token must match the URL stored on a finished job.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}

	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.ReportStatusFinished || job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not available")
	}

	file, err := s.exporter.Open(relPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report file expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open report file")
	}

	return &ReportDownload{
		File:      file,
		Filename:  fmt.Sprintf("%s-report%s", job.Type, path.Ext(relPath)),
		Format:    job.Params.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// RecoverPendingJobs re-enqueues jobs left in QUEUED after a restart.
func (s *ReportService) RecoverPendingJobs(ctx context.Context, limit int) error {
	pending, err := s.repo.ListQueued(ctx, limit)
	if err != nil {
		return fmt.Errorf("recover report jobs: %w", err)
	}
	for i := range pending {
		job := &pending[i]
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: JobTypeReport, Payload: job.ID}); err != nil {
			s.logger.Error("failed to re-enqueue report job", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}
		s.logger.Info("re-enqueued pending report job", zap.String("job_id", job.ID))
	}
	return nil
}

// StartCleanup runs the expired report sweep on a fixed interval until the
// context is cancelled.
func (s *ReportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ReportService) cleanupExpired(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.resultTTL)
	finished, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
	if err != nil {
		s.logger.Warn("report cleanup query failed", zap.Error(err))
		return
	}
	for i := range finished {
		job := &finished[i]
		if job.ResultURL != nil {
			token := (*job.ResultURL)[strings.LastIndex(*job.ResultURL, "/")+1:]
			if _, relPath, _, err := s.exporter.ParseToken(token, true); err == nil {
				if err := s.exporter.Delete(relPath); err != nil {
					s.logger.Warn("failed to delete report file", zap.String("job_id", job.ID), zap.Error(err))
				}
			}
		}
		s.markFailed(ctx, job.ID, "download link expired")
	}
	removed, err := s.exporter.Cleanup(s.resultTTL)
	if err != nil {
		s.logger.Warn("report file sweep failed", zap.Error(err))
		return
	}
	if len(finished) > 0 || len(removed) > 0 {
		s.logger.Info("report cleanup pass finished",
			zap.Int("expired_jobs", len(finished)),
			zap.Int("removed_files", len(removed)))
	}
}

func (s *ReportService) loadJob(ctx context.Context, jobID string) (*models.ReportJob, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	return job, nil
}

func (s *ReportService) markFailed(ctx context.Context, jobID, message string) {
	status := models.ReportStatusFailed
	progress := 100
	now := time.Now().UTC()
	params := repository.UpdateReportJobParams{
		Status:       &status,
		Progress:     &progress,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}
	if err := s.repo.Update(ctx, jobID, params); err != nil {
		s.logger.Error("failed to mark report job failed", zap.String("job_id", jobID), zap.Error(err))
	}
}

type reportWorkerMetrics interface {
	ObserveReportGeneration(reportType, format string, duration time.Duration)
}

// ReportWorker bridges the job queue to the export pipeline.
type ReportWorker struct {
	repo       reportJobStore
	exporter   reportExporter
	metrics    reportWorkerMetrics
	logger     *zap.Logger
	maxRetries int
}

// NewReportWorker constructs the worker. maxRetries must match the queue's
// MaxRetries so terminal failure is recorded on the last attempt.
func NewReportWorker(repo reportJobStore, exporter reportExporter, metrics reportWorkerMetrics, logger *zap.Logger, maxRetries int) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ReportWorker{repo: repo, exporter: exporter, metrics: metrics, logger: logger, maxRetries: maxRetries}
}

// Handle generates the report for a queued job and records the outcome.
func (w *ReportWorker) Handle(ctx context.Context, queued jobs.Job) error {
	jobID, ok := queued.Payload.(string)
	if !ok || jobID == "" {
		jobID = queued.ID
	}

	job, err := w.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			w.logger.Warn("report job vanished before processing", zap.String("job_id", jobID))
			return nil
		}
		return fmt.Errorf("load report job %s: %w", jobID, err)
	}
	if job.Status == models.ReportStatusFinished {
		return nil
	}

	w.setStatus(ctx, job.ID, models.ReportStatusProcessing, 10, nil, nil)

	started := time.Now()
	result, err := w.exporter.Generate(ctx, job)
	if err != nil {
		w.logger.Error("report generation failed",
			zap.String("job_id", job.ID),
			zap.String("type", string(job.Type)),
			zap.Int("attempt", queued.Attempt+1),
			zap.Error(err))
		if queued.Attempt+1 >= w.maxRetries {
			msg := "report generation failed"
			now := time.Now().UTC()
			w.setStatus(ctx, job.ID, models.ReportStatusFailed, 100, &msg, &now)
		} else {
			w.setStatus(ctx, job.ID, models.ReportStatusQueued, 0, nil, nil)
		}
		return err
	}

	if w.metrics != nil {
		w.metrics.ObserveReportGeneration(string(job.Type), string(job.Params.Format), time.Since(started))
	}

	now := time.Now().UTC()
	status := models.ReportStatusFinished
	progress := 100
	params := repository.UpdateReportJobParams{
		Status:     &status,
		Progress:   &progress,
		ResultURL:  &result.URL,
		FinishedAt: &now,
	}
	if err := w.repo.Update(ctx, job.ID, params); err != nil {
		return fmt.Errorf("finish report job %s: %w", job.ID, err)
	}

	w.logger.Info("report generated",
		zap.String("job_id", job.ID),
		zap.String("type", string(job.Type)),
		zap.String("format", string(job.Params.Format)),
		zap.Duration("took", time.Since(started)))
	return nil
}

func (w *ReportWorker) setStatus(ctx context.Context, jobID string, status models.ReportStatus, progress int, message *string, finishedAt *time.Time) {
	params := repository.UpdateReportJobParams{
		Status:       &status,
		Progress:     &progress,
		ErrorMessage: message,
		FinishedAt:   finishedAt,
	}
	if err := w.repo.Update(ctx, jobID, params); err != nil {
		w.logger.Error("failed to update report job status",
			zap.String("job_id", jobID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
