package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rawa-tech/zagros-erp/internal/models"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type mockUserStore struct {
	users          map[string]*models.User
	findCalls      int
	rememberTokens map[string]string
	passwordSet    string
	lastLoginSet   bool
}

func newMockUserStore(users ...*models.User) *mockUserStore {
	m := &mockUserStore{users: map[string]*models.User{}, rememberTokens: map[string]string{}}
	for _, u := range users {
		m.users[u.ID] = u
		if u.RememberToken != nil {
			m.rememberTokens[u.ID] = *u.RememberToken
		}
	}
	return m
}

func (m *mockUserStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	m.findCalls++
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockUserStore) FindActiveByRememberToken(ctx context.Context, token string) (*models.User, error) {
	for id, stored := range m.rememberTokens {
		if stored == token && m.users[id].Active() {
			return m.users[id], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserStore) SetRememberToken(ctx context.Context, id, token string) error {
	m.rememberTokens[id] = token
	return nil
}

func (m *mockUserStore) ClearRememberToken(ctx context.Context, id string) error {
	delete(m.rememberTokens, id)
	return nil
}

func (m *mockUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	m.lastLoginSet = true
	return nil
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.passwordSet = passwordHash
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

type mockSessionStore struct {
	sessions map[string]*models.Session
	touched  int
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]*models.Session{}}
}

func (m *mockSessionStore) Create(ctx context.Context, session *models.Session) error {
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *mockSessionStore) Touch(ctx context.Context, session *models.Session) error {
	m.touched++
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type mockLockoutStore struct {
	records map[string]models.LockoutRecord
}

func newMockLockoutStore() *mockLockoutStore {
	return &mockLockoutStore{records: map[string]models.LockoutRecord{}}
}

func (m *mockLockoutStore) Get(ctx context.Context, ip string) (models.LockoutRecord, error) {
	return m.records[ip], nil
}

func (m *mockLockoutStore) Put(ctx context.Context, ip string, record models.LockoutRecord) error {
	m.records[ip] = record
	return nil
}

func (m *mockLockoutStore) Reset(ctx context.Context, ip string) error {
	delete(m.records, ip)
	return nil
}

type mockActivityStore struct {
	entries []*models.ActivityLog
	err     error
}

func (m *mockActivityStore) Create(ctx context.Context, entry *models.ActivityLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "usr-1",
		Username:     "rawa",
		Email:        "rawa@example.com",
		PasswordHash: string(hash),
		FirstName:    "Rawa",
		Role:         models.RoleManager,
		Status:       models.StatusActive,
		Locale:       "ku",
	}
}

type authFixture struct {
	svc      *AuthService
	users    *mockUserStore
	sessions *mockSessionStore
	lockouts *mockLockoutStore
	activity *mockActivityStore
}

func newAuthFixture(t *testing.T, cfg AuthConfig, users ...*models.User) *authFixture {
	t.Helper()
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.LockoutWindow == 0 {
		cfg.LockoutWindow = 15 * time.Minute
	}
	if cfg.ResetTokenSecret == "" {
		cfg.ResetTokenSecret = "reset-secret"
		cfg.ResetTokenTTL = time.Hour
	}
	f := &authFixture{
		users:    newMockUserStore(users...),
		sessions: newMockSessionStore(),
		lockouts: newMockLockoutStore(),
		activity: &mockActivityStore{},
	}
	f.svc = NewAuthService(f.users, f.sessions, f.lockouts, f.activity, nil, validator.New(), zap.NewNop(), cfg)
	return f
}

func TestAuthenticateSuccess(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{RememberBypassLockout: true}, activeUser(t, "secret-pass"))

	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9", UserAgent: "ua",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.NotEmpty(t, result.Session.CSRFToken)
	assert.Empty(t, result.RememberToken)
	assert.Equal(t, "usr-1", result.Response.User.ID)
	assert.True(t, result.Response.User.RTL)
	assert.Contains(t, result.Response.Permissions, models.PermProductsCreate)
	assert.True(t, f.users.lastLoginSet)

	require.Len(t, f.activity.entries, 1)
	assert.Equal(t, models.ActivityLogin, f.activity.entries[0].Action)
	assert.Equal(t, "10.0.0.9", f.activity.entries[0].IPAddress)

	stored, err := f.sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestAuthenticateUnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{}, activeUser(t, "secret-pass"))

	_, errUnknown := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "ghost", Password: "whatever", IP: "10.0.0.9",
	})
	_, errWrong := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "not-the-password", IP: "10.0.0.9",
	})

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	var appErrUnknown, appErrWrong *appErrors.Error
	require.True(t, errors.As(errUnknown, &appErrUnknown))
	require.True(t, errors.As(errWrong, &appErrWrong))
	assert.Equal(t, appErrUnknown.Message, appErrWrong.Message)
	assert.Equal(t, appErrUnknown.Code, appErrWrong.Code)
}

func TestAuthenticateUnknownUserNotAuditedByDefault(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{}, activeUser(t, "secret-pass"))

	_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "ghost", Password: "whatever", IP: "10.0.0.9",
	})
	require.Error(t, err)
	assert.Empty(t, f.activity.entries)

	// Wrong password against a real account is always audited.
	_, err = f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "wrong", IP: "10.0.0.9",
	})
	require.Error(t, err)
	require.Len(t, f.activity.entries, 1)
	assert.Equal(t, models.ActivityFailedLogin, f.activity.entries[0].Action)
	require.NotNil(t, f.activity.entries[0].UserID)
	assert.Equal(t, "usr-1", *f.activity.entries[0].UserID)
}

func TestAuthenticateUnknownUserAuditedWhenConfigured(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{LogUnknownLogins: true}, activeUser(t, "secret-pass"))

	_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "ghost", Password: "whatever", IP: "10.0.0.9",
	})
	require.Error(t, err)
	require.Len(t, f.activity.entries, 1)
	assert.Nil(t, f.activity.entries[0].UserID)
}

func TestAuthenticateLockoutAfterMaxAttempts(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{MaxAttempts: 3}, activeUser(t, "secret-pass"))

	for i := 0; i < 3; i++ {
		_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
			Login: "rawa", Password: "wrong", IP: "10.0.0.9",
		})
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	}

	lookupsBefore := f.users.findCalls
	_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrLocked.Code, appErr.Code)
	// Locked clients never reach the user table, even with valid credentials.
	assert.Equal(t, lookupsBefore, f.users.findCalls)

	// A different IP is unaffected.
	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.10",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Session)
}

func TestAuthenticateLockedReportsRemainingTime(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{MaxAttempts: 3, LockoutWindow: 15 * time.Minute}, activeUser(t, "secret-pass"))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	f.svc.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
			Login: "rawa", Password: "wrong", IP: "10.0.0.9",
		})
		require.Error(t, err)
	}

	// Five minutes in, the rejection names the ten minutes still to wait.
	current = base.Add(5 * time.Minute)
	_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrLocked.Code, appErr.Code)
	assert.Equal(t, "too many failed attempts, try again in 600 seconds", appErr.Message)
}

func TestAuthenticateWindowExpiryResetsCounter(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{MaxAttempts: 3, LockoutWindow: 15 * time.Minute}, activeUser(t, "secret-pass"))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	f.svc.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
			Login: "rawa", Password: "wrong", IP: "10.0.0.9",
		})
		require.Error(t, err)
	}

	// Still inside the window: locked.
	current = base.Add(10 * time.Minute)
	_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrLocked.Code, appErr.Code)

	// Window lapsed: counter resets and the login goes through.
	current = base.Add(16 * time.Minute)
	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Session)
}

func TestAuthenticateSuccessResetsCounter(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{MaxAttempts: 3}, activeUser(t, "secret-pass"))

	for i := 0; i < 2; i++ {
		_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
			Login: "rawa", Password: "wrong", IP: "10.0.0.9",
		})
		require.Error(t, err)
	}
	_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	require.NoError(t, err)
	assert.Zero(t, f.lockouts.records["10.0.0.9"].AttemptCount)
}

func TestAuthenticateInactiveAccountLooksLikeBadPassword(t *testing.T) {
	user := activeUser(t, "secret-pass")
	user.Status = models.StatusInactive
	f := newAuthFixture(t, AuthConfig{}, user)

	// Correct password against a deactivated account: the response must not
	// reveal account state, and the attempt counts and audits like any
	// other failure.
	_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9", UserAgent: "ua",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Message, appErr.Message)

	assert.Equal(t, 1, f.lockouts.records["10.0.0.9"].AttemptCount)
	require.Len(t, f.activity.entries, 1)
	assert.Equal(t, models.ActivityFailedLogin, f.activity.entries[0].Action)
	require.NotNil(t, f.activity.entries[0].UserID)
	assert.Equal(t, "usr-1", *f.activity.entries[0].UserID)
}

func TestAuthenticateRememberIssuesToken(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{}, activeUser(t, "secret-pass"))

	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", Remember: true, IP: "10.0.0.9",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.RememberToken)
	assert.Equal(t, result.RememberToken, f.users.rememberTokens["usr-1"])
	assert.True(t, result.Response.Remembered)
}

func TestResumeFromRememberTokenRotates(t *testing.T) {
	user := activeUser(t, "secret-pass")
	token := "stored-remember-token"
	user.RememberToken = &token
	f := newAuthFixture(t, AuthConfig{RememberBypassLockout: true}, user)

	result, err := f.svc.ResumeFromRememberToken(context.Background(), token, "10.0.0.9", "ua")
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.NotEmpty(t, result.RememberToken)
	assert.NotEqual(t, token, result.RememberToken)
	assert.Equal(t, result.RememberToken, f.users.rememberTokens["usr-1"])
}

func TestResumeFromRememberTokenInactiveOwner(t *testing.T) {
	user := activeUser(t, "secret-pass")
	token := "stored-remember-token"
	user.RememberToken = &token
	user.Status = models.StatusInactive
	f := newAuthFixture(t, AuthConfig{RememberBypassLockout: true}, user)

	_, err := f.svc.ResumeFromRememberToken(context.Background(), token, "10.0.0.9", "ua")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestResumeFromRememberTokenLockoutInteraction(t *testing.T) {
	user := activeUser(t, "secret-pass")
	token := "stored-remember-token"
	user.RememberToken = &token

	lock := func(f *authFixture) {
		for i := 0; i < 3; i++ {
			_, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
				Login: "rawa", Password: "wrong", IP: "10.0.0.9",
			})
			require.Error(t, err)
		}
	}

	bypass := newAuthFixture(t, AuthConfig{MaxAttempts: 3, RememberBypassLockout: true}, user)
	lock(bypass)
	result, err := bypass.svc.ResumeFromRememberToken(context.Background(), token, "10.0.0.9", "ua")
	require.NoError(t, err)
	require.NotNil(t, result.Session)

	user2 := activeUser(t, "secret-pass")
	user2.RememberToken = &token
	strict := newAuthFixture(t, AuthConfig{MaxAttempts: 3, RememberBypassLockout: false}, user2)
	lock(strict)
	_, err = strict.svc.ResumeFromRememberToken(context.Background(), token, "10.0.0.9", "ua")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrLocked.Code, appErr.Code)
}

func TestCheckSessionTouchesAndRefreshesRole(t *testing.T) {
	user := activeUser(t, "secret-pass")
	f := newAuthFixture(t, AuthConfig{}, user)

	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	require.NoError(t, err)

	// Role changes apply on the next session check.
	user.Role = models.RoleAdmin
	session, err := f.svc.CheckSession(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.Role)
	assert.Equal(t, 1, f.sessions.touched)
}

func TestCheckSessionMissing(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{}, activeUser(t, "secret-pass"))

	_, err := f.svc.CheckSession(context.Background(), "nope")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrSessionExpired.Code, appErr.Code)
}

func TestCheckSessionDeactivatedUserTearsDown(t *testing.T) {
	user := activeUser(t, "secret-pass")
	f := newAuthFixture(t, AuthConfig{}, user)

	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	require.NoError(t, err)

	user.Status = models.StatusInactive
	_, err = f.svc.CheckSession(context.Background(), result.Session.ID)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUserGone.Code, appErr.Code)

	stored, err := f.sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCheckSessionDeletedUserTearsDown(t *testing.T) {
	user := activeUser(t, "secret-pass")
	f := newAuthFixture(t, AuthConfig{}, user)

	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	require.NoError(t, err)

	delete(f.users.users, user.ID)
	_, err = f.svc.CheckSession(context.Background(), result.Session.ID)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUserGone.Code, appErr.Code)
}

func TestLogoutClearsSessionAndRememberToken(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{}, activeUser(t, "secret-pass"))

	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", Remember: true, IP: "10.0.0.9",
	})
	require.NoError(t, err)
	require.NotEmpty(t, f.users.rememberTokens["usr-1"])

	require.NoError(t, f.svc.Logout(context.Background(), result.Session, true, "10.0.0.9", "ua"))

	stored, err := f.sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, f.users.rememberTokens["usr-1"])
	require.NotEmpty(t, f.activity.entries)
	assert.Equal(t, models.ActivityLogout, f.activity.entries[len(f.activity.entries)-1].Action)
}

func TestAuditFailureNeverFailsLogin(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{}, activeUser(t, "secret-pass"))
	f.activity.err = errors.New("audit store down")

	result, err := f.svc.Authenticate(context.Background(), models.LoginRequest{
		Login: "rawa", Password: "secret-pass", IP: "10.0.0.9",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Session)
}

func TestHasPermission(t *testing.T) {
	f := newAuthFixture(t, AuthConfig{})

	assert.True(t, f.svc.HasPermission(models.RoleAdmin, models.PermSettingsManage))
	assert.True(t, f.svc.HasPermission(models.RoleManager, models.PermProductsDelete))
	assert.False(t, f.svc.HasPermission(models.RoleManager, models.PermUsersManage))
	assert.True(t, f.svc.HasPermission(models.RoleEmployee, models.PermSalesCreate))
	assert.False(t, f.svc.HasPermission(models.RoleEmployee, models.PermSalesDelete))
	// Exact string match only.
	assert.False(t, f.svc.HasPermission(models.RoleManager, "products"))
	assert.False(t, f.svc.HasPermission(models.RoleManager, "products.*"))

	err := f.svc.RequirePermission(models.RoleEmployee, models.PermUsersView)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestChangePassword(t *testing.T) {
	user := activeUser(t, "old-password")
	token := "remember"
	user.RememberToken = &token
	f := newAuthFixture(t, AuthConfig{}, user)

	session := &models.Session{ID: "sess-1", UserID: user.ID}

	err := f.svc.ChangePassword(context.Background(), session, models.ChangePasswordRequest{
		OldPassword: "not-old", NewPassword: "new-password-1",
	}, "10.0.0.9", "ua")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	require.NoError(t, f.svc.ChangePassword(context.Background(), session, models.ChangePasswordRequest{
		OldPassword: "old-password", NewPassword: "new-password-1",
	}, "10.0.0.9", "ua"))
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(f.users.passwordSet), []byte("new-password-1")))
	assert.Empty(t, f.users.rememberTokens["usr-1"])
}

func TestPasswordResetRoundTrip(t *testing.T) {
	user := activeUser(t, "old-password")
	f := newAuthFixture(t, AuthConfig{ResetTokenSecret: "reset-secret", ResetTokenTTL: time.Hour}, user)

	token, err := f.svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "rawa@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Unknown emails produce no token and no error.
	missing, err := f.svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Token: token, NewPassword: "brand-new-pass",
	}))
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("brand-new-pass")))

	err = f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Token: "garbage", NewPassword: "brand-new-pass",
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
