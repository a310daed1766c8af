package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawa-tech/zagros-erp/internal/i18n"
)

func TestI18nDictionaryKnownLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewI18nHandler(i18n.New("en"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/i18n/ku", nil)
	c.Params = gin.Params{{Key: "locale", Value: "ku"}}

	handler.Dictionary(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Locale  string            `json:"locale"`
			RTL     bool              `json:"rtl"`
			Entries map[string]string `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ku", body.Data.Locale)
	assert.True(t, body.Data.RTL)
	assert.NotEmpty(t, body.Data.Entries)
}

func TestI18nDictionaryUnknownLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewI18nHandler(i18n.New("en"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/i18n/fa", nil)
	c.Params = gin.Params{{Key: "locale", Value: "fa"}}

	handler.Dictionary(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestI18nLocalesList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewI18nHandler(i18n.New("en"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/i18n", nil)

	handler.Locales(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Code string `json:"code"`
			RTL  bool   `json:"rtl"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	assert.Equal(t, "en", body.Data[0].Code)
	assert.False(t, body.Data[0].RTL)
}
