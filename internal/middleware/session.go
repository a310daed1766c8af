package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/models"
	"github.com/rawa-tech/zagros-erp/internal/service"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
	"github.com/rawa-tech/zagros-erp/pkg/response"
)

const (
	// SessionCookie carries the opaque session id.
	SessionCookie = "erp_session"
	// RememberCookie carries the long-lived remember token.
	RememberCookie = "remember_token"
	// ContextSessionKey is the gin context key storing the active session.
	ContextSessionKey = "currentSession"
)

// CookieConfig controls how auth cookies are written.
type CookieConfig struct {
	Secure      bool
	RememberTTL int
}

// Session authenticates requests against the server-side session store. A
// request without a live session may still resume from a remember cookie, in
// which case a fresh session cookie and a rotated remember cookie are set.
func Session(auth *service.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, err := c.Cookie(SessionCookie); err == nil && sessionID != "" {
			session, err := auth.CheckSession(c.Request.Context(), sessionID)
			if err == nil {
				c.Set(ContextSessionKey, session)
				c.Next()
				return
			}
			appErr := appErrors.FromError(err)
			if appErr.Code != appErrors.ErrSessionExpired.Code {
				clearAuthCookies(c, cookies)
				response.Error(c, err)
				c.Abort()
				return
			}
		}

		token, err := c.Cookie(RememberCookie)
		if err != nil || token == "" {
			clearSessionCookie(c, cookies)
			response.Error(c, appErrors.ErrSessionExpired)
			c.Abort()
			return
		}

		result, err := auth.ResumeFromRememberToken(c.Request.Context(), token, c.ClientIP(), c.Request.UserAgent())
		if err != nil {
			clearAuthCookies(c, cookies)
			response.Error(c, err)
			c.Abort()
			return
		}

		SetSessionCookie(c, result.Session.ID, cookies)
		SetRememberCookie(c, result.RememberToken, cookies)
		c.Set(ContextSessionKey, result.Session)
		c.Next()
	}
}

// SessionFromContext returns the session set by the Session middleware.
func SessionFromContext(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}

// SetSessionCookie writes the session cookie. It has no max age so it dies
// with the browser; the server-side idle timeout is the real bound.
func SetSessionCookie(c *gin.Context, sessionID string, cookies CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, 0, "/", "", cookies.Secure, true)
}

// SetRememberCookie writes the remember token cookie.
func SetRememberCookie(c *gin.Context, token string, cookies CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RememberCookie, token, cookies.RememberTTL, "/", "", cookies.Secure, true)
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(c *gin.Context, cookies CookieConfig) {
	clearAuthCookies(c, cookies)
}

func clearAuthCookies(c *gin.Context, cookies CookieConfig) {
	clearSessionCookie(c, cookies)
	c.SetCookie(RememberCookie, "", -1, "/", "", cookies.Secure, true)
}

func clearSessionCookie(c *gin.Context, cookies CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", cookies.Secure, true)
}
