package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

func TestActivityRepositoryCreateFillsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectExec("INSERT INTO activity_logs").WillReturnResult(sqlmock.NewResult(0, 1))

	userID := "usr-1"
	entry := &models.ActivityLog{
		UserID:    &userID,
		Action:    models.ActivityLogin,
		TableName: "users",
		IPAddress: "10.0.0.9",
		UserAgent: "test-agent",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryListFiltersByAction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "action", "table_name", "record_id", "ip_address", "user_agent", "created_at"}).
		AddRow("act-1", "usr-1", models.ActivityFailedLogin, "users", nil, "10.0.0.9", "agent", now)
	mock.ExpectQuery("SELECT id, user_id, .+ FROM activity_logs WHERE action = \\$1 ORDER BY created_at DESC").
		WithArgs(models.ActivityFailedLogin).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM activity_logs WHERE action = \\$1").
		WithArgs(models.ActivityFailedLogin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.List(context.Background(), models.ActivityFilter{Action: models.ActivityFailedLogin})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
