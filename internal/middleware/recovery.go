package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// Recovery returns a gin middleware that recovers from panics, logs the value
// with its stack trace and renders a system error (code -2) through
// pkg.Error, so the client sees the same JSON envelope or error page as for
// any other failure.
//
// When the handler already started writing the response, only the log entry
// is produced.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			pkg.Error(c, domain.NewAppError(domain.CodeSystem, domain.ErrSystem.Message, panicError(rec)))
		}()
		c.Next()
	}
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}
