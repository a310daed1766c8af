package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

func csrfTestRouter(session *models.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if session != nil {
			c.Set(ContextSessionKey, session)
		}
		c.Next()
	})
	r.Use(CSRF())
	r.GET("/resource", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/resource", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCSRFAllowsSafeMethods(t *testing.T) {
	r := csrfTestRouter(&models.Session{CSRFToken: "tok"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFRejectsMissingOrWrongToken(t *testing.T) {
	r := csrfTestRouter(&models.Session{CSRFToken: "tok"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/resource", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"forbidden"`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/resource", nil)
	req.Header.Set(CSRFHeader, "wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	// The body must not say which check failed.
	assert.NotContains(t, w.Body.String(), "csrf")
}

func TestCSRFAcceptsMatchingToken(t *testing.T) {
	r := csrfTestRouter(&models.Session{CSRFToken: "tok"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/resource", nil)
	req.Header.Set(CSRFHeader, "tok")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRFRequiresSession(t *testing.T) {
	r := csrfTestRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/resource", nil)
	req.Header.Set(CSRFHeader, "tok")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
