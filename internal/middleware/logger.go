package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/pkg"
)

// Logger returns a gin middleware that logs each HTTP request using the provided
// slog.Logger. It records the method, path, status code, latency and client IP,
// plus the error code when the response went through pkg.Error and the
// authenticated user when Auth ran.
//
// The log level is chosen based on the response status code:
//   - 2xx/3xx: Info
//   - 4xx: Warn
//   - 5xx: Error
//
// Context-aware logging lets the logger's ContextMiddleware attach the
// request_id stored by RequestID.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if code, ok := pkg.ErrorCodeOf(c); ok {
			attrs = append(attrs, slog.Int("code", int(code)))
		}
		if uid, ok := CurrentUserID(c); ok {
			attrs = append(attrs, slog.Uint64("user_id", uint64(uid)))
		}

		ctx := c.Request.Context()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(ctx, level, "request", attrs...)
	}
}
