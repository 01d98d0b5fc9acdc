// Package middleware provides the gin middleware chain of the HTTP API.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"onghub/internal/core/apperror"
	"onghub/pkg/logger"
)

// Recovery turns a handler panic into a 500 response. The stack trace is
// logged, never returned.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				"panic", rec,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)

			// ErrorHandler sits inside this frame and was unwound by the
			// panic, so the response is written here.
			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", rec)))
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    apperror.CodeInternal,
				"message": "Internal server error",
				"details": map[string]any{
					"request_id": c.GetString("request_id"),
				},
			})
		}()
		c.Next()
	}
}
