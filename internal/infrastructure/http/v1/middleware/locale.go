package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "procura/internal/core/context"
)

// HeaderLocale overrides Accept-Language when present.
const HeaderLocale = "X-Locale"

// Locale picks the display language for bilingual catalog names.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderLocale)
		if raw == "" {
			raw = c.GetHeader("Accept-Language")
		}
		l := appctx.ParseAcceptLanguage(raw)

		c.Request = c.Request.WithContext(appctx.WithLocale(c.Request.Context(), l))
		c.Header("Content-Language", string(l))
		c.Next()
	}
}
