package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawa-tech/zagros-erp/internal/dto"
	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/repository"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
	"github.com/rawa-tech/zagros-erp/pkg/jobs"
)

type mockReportStore struct {
	jobs map[string]*models.ReportJob
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{jobs: make(map[string]*models.ReportJob)}
}

func (m *mockReportStore) Create(_ context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", len(m.jobs)+1)
	}
	if job.Status == "" {
		job.Status = models.ReportStatusQueued
	}
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockReportStore) GetByID(_ context.Context, id string) (*models.ReportJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (m *mockReportStore) Update(_ context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (m *mockReportStore) ListQueued(_ context.Context, _ int) ([]models.ReportJob, error) {
	out := make([]models.ReportJob, 0)
	for _, job := range m.jobs {
		if job.Status == models.ReportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *mockReportStore) ListByUser(_ context.Context, userID string, _ int) ([]models.ReportJob, error) {
	out := make([]models.ReportJob, 0)
	for _, job := range m.jobs {
		if job.CreatedBy == userID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *mockReportStore) ListFinishedBefore(_ context.Context, cutoff time.Time, _ int) ([]models.ReportJob, error) {
	out := make([]models.ReportJob, 0)
	for _, job := range m.jobs {
		if job.Status == models.ReportStatusFinished && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	return out, nil
}

type mockDispatcher struct {
	enqueued []jobs.Job
	err      error
}

func (m *mockDispatcher) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

type mockExporter struct {
	generateErr error
	generated   int
}

func (m *mockExporter) Generate(_ context.Context, job *models.ReportJob) (*ExportResult, error) {
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	m.generated++
	return &ExportResult{
		RelPath: fmt.Sprintf("%s/%s.csv", job.Type, job.ID),
		URL:     "/api/v1/reports/download/token-" + job.ID,
	}, nil
}

func (m *mockExporter) ParseToken(token string, _ bool) (string, string, time.Time, error) {
	return "", "", time.Time{}, fmt.Errorf("parse token %q: unsupported in test", token)
}

func (m *mockExporter) Open(_ string) (*os.File, error) { return nil, os.ErrNotExist }
func (m *mockExporter) Delete(_ string) error           { return nil }
func (m *mockExporter) Cleanup(_ time.Duration) ([]string, error) {
	return nil, nil
}

func reportFixture() (*ReportService, *mockReportStore, *mockDispatcher, *mockExporter) {
	repo := newMockReportStore()
	queue := &mockDispatcher{}
	exporter := &mockExporter{}
	svc := NewReportService(repo, queue, exporter, &mockActivityStore{}, nil, nil, time.Hour)
	return svc, repo, queue, exporter
}

func TestReportCreateJobQueuesWork(t *testing.T) {
	svc, repo, queue, _ := reportFixture()

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:   models.ReportTypeInventory,
		Format: models.ReportFormatCSV,
	}, RequestMeta{UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, JobTypeReport, queue.enqueued[0].Type)
	assert.Equal(t, resp.ID, queue.enqueued[0].Payload)
	assert.Equal(t, "user-1", repo.jobs[resp.ID].CreatedBy)
}

func TestReportCreateJobRejectsBadRange(t *testing.T) {
	svc, _, _, _ := reportFixture()

	to := time.Now().UTC()
	from := to.Add(time.Hour)
	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:   models.ReportTypeSales,
		Format: models.ReportFormatPDF,
		From:   &from,
		To:     &to,
	}, RequestMeta{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportCreateJobMarksFailedWhenQueueRejects(t *testing.T) {
	svc, repo, queue, _ := reportFixture()
	queue.err = fmt.Errorf("queue stopped")

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{
		Type:   models.ReportTypeInventory,
		Format: models.ReportFormatCSV,
	}, RequestMeta{UserID: "user-1"})
	require.Error(t, err)

	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ReportStatusFailed, job.Status)
	}
}

func TestReportStatusHiddenFromOtherUsers(t *testing.T) {
	svc, repo, _, _ := reportFixture()
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Status: models.ReportStatusProcessing, CreatedBy: "owner"}

	_, err := svc.GetStatus(context.Background(), "job-1", "intruder", models.RoleEmployee)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	status, err := svc.GetStatus(context.Background(), "job-1", "owner", models.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusProcessing, status.Status)

	status, err = svc.GetStatus(context.Background(), "job-1", "someone-else", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "job-1", status.ID)
}

func TestReportRecoverRequeuesQueuedJobs(t *testing.T) {
	svc, repo, queue, _ := reportFixture()
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Status: models.ReportStatusQueued, CreatedBy: "user-1"}
	repo.jobs["job-2"] = &models.ReportJob{ID: "job-2", Status: models.ReportStatusFinished, CreatedBy: "user-1"}

	require.NoError(t, svc.RecoverPendingJobs(context.Background(), 10))
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "job-1", queue.enqueued[0].ID)
}

func TestReportWorkerFinishesJob(t *testing.T) {
	repo := newMockReportStore()
	exporter := &mockExporter{}
	repo.jobs["job-1"] = &models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeInventory,
		Params: models.ReportJobParams{Format: models.ReportFormatCSV},
		Status: models.ReportStatusQueued,
	}
	worker := NewReportWorker(repo, exporter, nil, nil, 3)

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Type: JobTypeReport, Payload: "job-1"}))

	job := repo.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Contains(t, *job.ResultURL, "token-job-1")
	assert.NotNil(t, job.FinishedAt)
}

func TestReportWorkerRequeuesThenFails(t *testing.T) {
	repo := newMockReportStore()
	exporter := &mockExporter{generateErr: fmt.Errorf("render blew up")}
	repo.jobs["job-1"] = &models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeSales,
		Params: models.ReportJobParams{Format: models.ReportFormatPDF},
		Status: models.ReportStatusQueued,
	}
	worker := NewReportWorker(repo, exporter, nil, nil, 2)

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Payload: "job-1", Attempt: 0})
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusQueued, repo.jobs["job-1"].Status)

	err = worker.Handle(context.Background(), jobs.Job{ID: "job-1", Payload: "job-1", Attempt: 1})
	require.Error(t, err)
	job := repo.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.NotNil(t, job.FinishedAt)
}

func TestReportWorkerSkipsFinishedJob(t *testing.T) {
	repo := newMockReportStore()
	exporter := &mockExporter{}
	url := "/api/v1/reports/download/token-old"
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Status: models.ReportStatusFinished, ResultURL: &url}
	worker := NewReportWorker(repo, exporter, nil, nil, 3)

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Payload: "job-1"}))
	assert.Zero(t, exporter.generated)
}
