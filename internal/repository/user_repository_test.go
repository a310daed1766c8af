package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func userRows(u models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "first_name", "last_name", "role", "status", "locale", "remember_token", "last_login", "created_at", "updated_at"}).
		AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.Status, u.Locale, u.RememberToken, u.LastLogin, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepositoryFindByLogin(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)")).
		WithArgs("rawa").
		WillReturnRows(userRows(models.User{
			ID: "usr-1", Username: "rawa", Email: "rawa@example.com", PasswordHash: "hash",
			FirstName: "Rawa", Role: models.RoleAdmin, Status: models.StatusActive, Locale: "ku",
			CreatedAt: now, UpdatedAt: now,
		}))

	user, err := repo.FindByLogin(context.Background(), "rawa")
	require.NoError(t, err)
	require.Equal(t, "usr-1", user.ID)
	require.Equal(t, models.RoleAdmin, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByLoginNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(username) = LOWER($1)")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByLogin(context.Background(), "ghost")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindActiveByRememberToken(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	token := "remember-token-value"
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE remember_token = $1 AND status = $2")).
		WithArgs(token, models.StatusActive).
		WillReturnRows(userRows(models.User{
			ID: "usr-2", Username: "sara", Email: "sara@example.com", PasswordHash: "hash",
			FirstName: "Sara", Role: models.RoleManager, Status: models.StatusActive, Locale: "en",
			RememberToken: &token, CreatedAt: now, UpdatedAt: now,
		}))

	user, err := repo.FindActiveByRememberToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "usr-2", user.ID)
	require.True(t, user.Active())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySetAndClearRememberToken(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET remember_token = $2")).
		WithArgs("usr-1", "new-token").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetRememberToken(context.Background(), "usr-1", "new-token"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET remember_token = NULL")).
		WithArgs("usr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ClearRememberToken(context.Background(), "usr-1"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	role := models.RoleEmployee
	now := time.Now()
	mock.ExpectQuery("SELECT id, username, .+ FROM users WHERE role = \\$1 ORDER BY created_at DESC").
		WithArgs(role).
		WillReturnRows(userRows(models.User{
			ID: "usr-3", Username: "aram", Email: "aram@example.com", PasswordHash: "hash",
			FirstName: "Aram", Role: role, Status: models.StatusActive, Locale: "ar",
			CreatedAt: now, UpdatedAt: now,
		}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE role = $1")).
		WithArgs(role).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
