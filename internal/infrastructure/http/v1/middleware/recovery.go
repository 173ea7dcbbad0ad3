// Package middleware provides HTTP middleware components.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"varibulk/internal/core/apperror"
	"varibulk/pkg/logger"
)

// PanicSink receives the stack trace of a recovered panic.
// Satisfied by the persistent error log.
type PanicSink interface {
	LogError(ctx context.Context, title, trace string)
}

// PanicTitle is the error log title of recovered panics.
const PanicTitle = "HTTP Panic"

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
// A nil sink only logs.
func Recovery(sink PanicSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"stack", stack,
				)
				if sink != nil {
					sink.LogError(c.Request.Context(), PanicTitle,
						fmt.Sprintf("%s %s: %v\n\n%s", c.Request.Method, c.Request.URL.Path, err, stack))
				}

				// ErrorHandler sits inside this middleware and was unwound by the panic
				_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", err)))
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"code":    apperror.CodeInternal,
						"message": "Internal server error",
						"details": map[string]any{"request_id": c.GetString("request_id")},
					})
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
