package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"varibulk/pkg/logger"
)

// Logger middleware puts a request-scoped logger into the context and logs
// every request with timing and status. Health probes log at debug level.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		reqLog := log.WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"query", query,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.String(); errs != "" {
			fields = append(fields, "error", errs)
		}

		if strings.HasPrefix(path, "/health") {
			reqLog.Debugw("http request", fields...)
			return
		}
		reqLog.Infow("http request", fields...)
	}
}
