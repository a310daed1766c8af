package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rawa-tech/zagros-erp/internal/models"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
)

type authUserRepository interface {
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindActiveByRememberToken(ctx context.Context, token string) (*models.User, error)
	SetRememberToken(ctx context.Context, id, token string) error
	ClearRememberToken(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type sessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Touch(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

type lockoutStore interface {
	Get(ctx context.Context, ip string) (models.LockoutRecord, error)
	Put(ctx context.Context, ip string, record models.LockoutRecord) error
	Reset(ctx context.Context, ip string) error
}

type activityRecorder interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
}

type loginMetrics interface {
	ObserveLoginAttempt(result string)
}

// AuthConfig defines configuration for the authentication flows.
type AuthConfig struct {
	MaxAttempts           int
	LockoutWindow         time.Duration
	RememberTokenTTL      time.Duration
	RememberBypassLockout bool
	LogUnknownLogins      bool
	ResetTokenSecret      string
	ResetTokenTTL         time.Duration
}

// AuthService implements login throttling, session management, remember
// tokens, and the permission check used by the request middleware.
type AuthService struct {
	users     authUserRepository
	sessions  sessionStore
	lockouts  lockoutStore
	activity  activityRecorder
	metrics   loginMetrics
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig

	now func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, sessions sessionStore, lockouts lockoutStore, activity activityRecorder, metrics loginMetrics, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.LockoutWindow <= 0 {
		config.LockoutWindow = 15 * time.Minute
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		lockouts:  lockouts,
		activity:  activity,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// LoginResult carries the established session and the remember token to set as
// a cookie. RememberToken is empty unless the request asked to be remembered.
type LoginResult struct {
	Response      *models.LoginResponse
	Session       *models.Session
	RememberToken string
}

// Authenticate validates credentials and opens a session. The lockout check
// runs before any database access so a locked client cannot probe accounts.
func (s *AuthService) Authenticate(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	remaining, err := s.checkLockout(ctx, req.IP)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		s.observe("locked")
		return nil, lockedError(remaining)
	}

	user, err := s.users.FindByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.registerFailure(ctx, req, nil)
			s.observe("invalid")
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.registerFailure(ctx, req, user)
		s.observe("invalid")
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	// An inactive account fails exactly like a bad password so login
	// responses never reveal account state.
	if !user.Active() {
		s.registerFailure(ctx, req, user)
		s.observe("invalid")
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	if err := s.lockouts.Reset(ctx, req.IP); err != nil {
		s.logger.Warn("failed to reset lockout counter", zap.Error(err))
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	rememberToken := ""
	if req.Remember {
		rememberToken, err = s.issueRememberToken(ctx, user.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	s.recordActivity(ctx, &user.ID, models.ActivityLogin, "users", &user.ID, req.IP, req.UserAgent)
	s.observe("success")

	return &LoginResult{
		Response:      s.loginResponse(user, session, req.Remember),
		Session:       session,
		RememberToken: rememberToken,
	}, nil
}

// ResumeFromRememberToken re-establishes a session from the long-lived cookie.
// The token rotates on every successful resume.
func (s *AuthService) ResumeFromRememberToken(ctx context.Context, token, ip, userAgent string) (*LoginResult, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	if !s.config.RememberBypassLockout {
		remaining, err := s.checkLockout(ctx, ip)
		if err != nil {
			return nil, err
		}
		if remaining > 0 {
			return nil, lockedError(remaining)
		}
	}

	user, err := s.users.FindActiveByRememberToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve remember token")
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	rotated, err := s.issueRememberToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	s.recordActivity(ctx, &user.ID, models.ActivityLogin, "users", &user.ID, ip, userAgent)
	s.observe("remembered")

	return &LoginResult{
		Response:      s.loginResponse(user, session, true),
		Session:       session,
		RememberToken: rotated,
	}, nil
}

// CheckSession resolves and refreshes the session behind an opaque ID. A
// session whose owner was deactivated or removed is torn down on sight.
func (s *AuthService) CheckSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.dropSession(ctx, session.ID)
			return nil, appErrors.Clone(appErrors.ErrUserGone, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session user")
	}
	if !user.Active() {
		s.dropSession(ctx, session.ID)
		return nil, appErrors.Clone(appErrors.ErrUserGone, "")
	}

	// Role or locale changes take effect on the next request.
	session.Role = user.Role
	session.Locale = user.Locale
	if err := s.sessions.Touch(ctx, session); err != nil {
		s.logger.Warn("failed to touch session", zap.Error(err))
	}
	return session, nil
}

// Logout tears down the session and, when asked, invalidates the remember
// token so the long-lived cookie dies with it.
func (s *AuthService) Logout(ctx context.Context, session *models.Session, clearRemember bool, ip, userAgent string) error {
	if session == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	if clearRemember {
		if err := s.users.ClearRememberToken(ctx, session.UserID); err != nil {
			s.logger.Warn("failed to clear remember token", zap.Error(err))
		}
	}
	s.recordActivity(ctx, &session.UserID, models.ActivityLogout, "users", &session.UserID, ip, userAgent)
	return nil
}

// HasPermission answers the role -> permission question by exact string match.
func (s *AuthService) HasPermission(role models.UserRole, permission string) bool {
	return models.RoleHasPermission(role, permission)
}

// RequirePermission returns ErrForbidden when the role lacks the permission.
func (s *AuthService) RequirePermission(role models.UserRole, permission string) error {
	if !models.RoleHasPermission(role, permission) {
		return appErrors.Clone(appErrors.ErrForbidden, "")
	}
	return nil
}

// Me describes the session owner for the frontend bootstrap call.
func (s *AuthService) Me(ctx context.Context, session *models.Session) (*models.LoginResponse, error) {
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserGone, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return s.loginResponse(user, session, false), nil
}

// ChangePassword verifies the old password before writing the new hash. The
// remember token is cleared so stolen cookies stop working.
func (s *AuthService) ChangePassword(ctx context.Context, session *models.Session, req models.ChangePasswordRequest, ip, userAgent string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change password payload")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUserGone, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "old password does not match")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(newHash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	if err := s.users.ClearRememberToken(ctx, user.ID); err != nil {
		s.logger.Warn("failed to clear remember token after password change", zap.Error(err))
	}

	s.recordActivity(ctx, &user.ID, models.ActivityPasswordChange, "users", &user.ID, ip, userAgent)
	return nil
}

// ForgotPassword issues a short-lived signed reset token. The response to the
// caller is identical whether or not the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid forgot password payload")
	}

	user, err := s.users.FindByLogin(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if !user.Active() {
		return "", nil
	}

	issuedAt := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.ResetTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.ResetTokenSecret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign reset token")
	}

	s.logger.Info("password reset token issued", zap.String("user_id", user.ID))
	return token, nil
}

// ResetPassword consumes a signed reset token and writes the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reset password payload")
	}

	token, err := jwt.ParseWithClaims(req.Token, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.ResetTokenSecret), nil
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid reset token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid reset token")
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUnauthorized, "invalid reset token")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(newHash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}
	if err := s.users.ClearRememberToken(ctx, user.ID); err != nil {
		s.logger.Warn("failed to clear remember token after password reset", zap.Error(err))
	}
	return nil
}

// checkLockout returns the seconds left on the client IP's lockout, zero when
// the client may proceed. An expired counting window resets the record before
// evaluation.
func (s *AuthService) checkLockout(ctx context.Context, ip string) (int, error) {
	record, err := s.lockouts.Get(ctx, ip)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lockout state")
	}
	if record.AttemptCount == 0 {
		return 0, nil
	}
	now := s.now()
	if record.Expired(now, s.config.LockoutWindow) {
		if err := s.lockouts.Reset(ctx, ip); err != nil {
			s.logger.Warn("failed to reset expired lockout", zap.Error(err))
		}
		return 0, nil
	}
	if record.AttemptCount < s.config.MaxAttempts {
		return 0, nil
	}
	remaining := record.Remaining(now, s.config.LockoutWindow)
	if remaining <= 0 {
		remaining = 1
	}
	return remaining, nil
}

// lockedError carries the wait time so clients can show a countdown.
func lockedError(remaining int) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrLocked, fmt.Sprintf("too many failed attempts, try again in %d seconds", remaining))
}

// registerFailure advances the counting window and audits the attempt. Only
// attempts against existing accounts are audited unless configured otherwise.
func (s *AuthService) registerFailure(ctx context.Context, req models.LoginRequest, user *models.User) {
	record, err := s.lockouts.Get(ctx, req.IP)
	if err != nil {
		s.logger.Warn("failed to load lockout state", zap.Error(err))
		record = models.LockoutRecord{}
	}
	now := s.now()
	if record.AttemptCount == 0 || record.Expired(now, s.config.LockoutWindow) {
		record = models.LockoutRecord{FirstAttempt: now}
	}
	record.AttemptCount++
	if err := s.lockouts.Put(ctx, req.IP, record); err != nil {
		s.logger.Warn("failed to store lockout state", zap.Error(err))
	}

	if user != nil {
		s.recordActivity(ctx, &user.ID, models.ActivityFailedLogin, "users", &user.ID, req.IP, req.UserAgent)
	} else if s.config.LogUnknownLogins {
		s.recordActivity(ctx, nil, models.ActivityFailedLogin, "users", nil, req.IP, req.UserAgent)
	}
}

func (s *AuthService) dropSession(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to drop session", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*models.Session, error) {
	csrfToken, err := randomToken(32)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create csrf token")
	}
	now := s.now()
	session := &models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		Locale:       user.Locale,
		CSRFToken:    csrfToken,
		LoginTime:    now,
		LastActivity: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}
	return session, nil
}

func (s *AuthService) issueRememberToken(ctx context.Context, userID string) (string, error) {
	token, err := randomToken(32)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create remember token")
	}
	if err := s.users.SetRememberToken(ctx, userID, token); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store remember token")
	}
	return token, nil
}

func (s *AuthService) loginResponse(user *models.User, session *models.Session, remembered bool) *models.LoginResponse {
	return &models.LoginResponse{
		User: models.UserInfo{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
			Locale:    user.Locale,
			RTL:       user.Locale == "ku" || user.Locale == "ar",
		},
		CSRFToken:   session.CSRFToken,
		LoggedInAt:  session.LoginTime,
		Remembered:  remembered,
		Permissions: models.PermissionsForRole(user.Role),
	}
}

func (s *AuthService) recordActivity(ctx context.Context, userID *string, action, table string, recordID *string, ip, userAgent string) {
	if s.activity == nil {
		return
	}
	entry := &models.ActivityLog{
		UserID:    userID,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuthService) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveLoginAttempt(result)
	}
}

func randomToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
