package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"procura/pkg/logger"
)

// Logger attaches log to the request context and writes one access entry
// per request: info for 2xx/3xx, warn for 4xx, error for 5xx. Health probes
// are logged at debug.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		entry := log.WithContext(c.Request.Context())
		switch {
		case strings.HasPrefix(path, "/health/"):
			entry.Debugw("http request", fields...)
		case status >= 500:
			entry.Errorw("http request", fields...)
		case status >= 400:
			entry.Warnw("http request", fields...)
		default:
			entry.Infow("http request", fields...)
		}
	}
}
