package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/i18n"
)

// ContextLocaleKey is the gin context key storing the resolved locale.
const ContextLocaleKey = "locale"

// Locale resolves the request locale: an explicit ?lang= wins, then the
// session preference, then Accept-Language, then the fallback.
func Locale(fallback string) gin.HandlerFunc {
	if !i18n.Supported(fallback) {
		fallback = i18n.LocaleEN
	}
	return func(c *gin.Context) {
		locale := c.Query("lang")
		if !i18n.Supported(locale) {
			locale = ""
		}
		if locale == "" {
			if session, ok := SessionFromContext(c); ok && i18n.Supported(session.Locale) {
				locale = session.Locale
			}
		}
		if locale == "" {
			locale = acceptedLocale(c.GetHeader("Accept-Language"))
		}
		if locale == "" {
			locale = fallback
		}
		c.Set(ContextLocaleKey, locale)
		c.Next()
	}
}

// LocaleFromContext returns the locale resolved by the Locale middleware.
func LocaleFromContext(c *gin.Context) string {
	if value, exists := c.Get(ContextLocaleKey); exists {
		if locale, ok := value.(string); ok {
			return locale
		}
	}
	return i18n.LocaleEN
}

func acceptedLocale(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if idx := strings.Index(tag, "-"); idx > 0 {
			tag = tag[:idx]
		}
		tag = strings.ToLower(tag)
		if i18n.Supported(tag) {
			return tag
		}
	}
	return ""
}
