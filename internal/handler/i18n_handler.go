package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/i18n"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
	"github.com/rawa-tech/zagros-erp/pkg/response"
)

// I18nHandler serves translation dictionaries to the frontend.
type I18nHandler struct {
	translator *i18n.Translator
}

// NewI18nHandler creates a new handler.
func NewI18nHandler(translator *i18n.Translator) *I18nHandler {
	return &I18nHandler{translator: translator}
}

// Locales godoc
// @Summary List supported locales
// @Tags I18n
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /i18n [get]
func (h *I18nHandler) Locales(c *gin.Context) {
	locales := i18n.Locales()
	payload := make([]gin.H, 0, len(locales))
	for _, locale := range locales {
		payload = append(payload, gin.H{
			"code": locale,
			"rtl":  i18n.IsRTL(locale),
		})
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// Dictionary godoc
// @Summary Get the full dictionary for a locale
// @Tags I18n
// @Produce json
// @Param locale path string true "Locale code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /i18n/{locale} [get]
func (h *I18nHandler) Dictionary(c *gin.Context) {
	locale := c.Param("locale")
	if !i18n.Supported(locale) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unsupported locale"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"locale":  locale,
		"rtl":     i18n.IsRTL(locale),
		"entries": h.translator.Dictionary(locale),
	}, nil)
}
