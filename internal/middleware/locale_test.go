package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rawa-tech/zagros-erp/internal/models"
)

func localeTestRouter(session *models.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if session != nil {
			c.Set(ContextSessionKey, session)
		}
		c.Next()
	})
	r.Use(Locale("en"))
	r.GET("/resource", func(c *gin.Context) {
		c.String(http.StatusOK, LocaleFromContext(c))
	})
	return r
}

func resolveLocale(t *testing.T, r *gin.Engine, target string, header map[string]string) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestLocaleQueryParamWins(t *testing.T) {
	r := localeTestRouter(&models.Session{Locale: "ar"})
	assert.Equal(t, "ku", resolveLocale(t, r, "/resource?lang=ku", nil))
}

func TestLocaleFallsBackToSession(t *testing.T) {
	r := localeTestRouter(&models.Session{Locale: "ar"})
	assert.Equal(t, "ar", resolveLocale(t, r, "/resource", nil))
}

func TestLocaleAcceptLanguageHeader(t *testing.T) {
	r := localeTestRouter(nil)
	assert.Equal(t, "ku", resolveLocale(t, r, "/resource", map[string]string{
		"Accept-Language": "ku-IQ,ku;q=0.9,en;q=0.8",
	}))
}

func TestLocaleUnsupportedFallsBack(t *testing.T) {
	r := localeTestRouter(nil)
	assert.Equal(t, "en", resolveLocale(t, r, "/resource?lang=fr", map[string]string{
		"Accept-Language": "fr-FR,de;q=0.9",
	}))
}
