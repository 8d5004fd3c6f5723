package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// quietRoutes are polled by probes and scrapers; successful hits are not logged.
var quietRoutes = map[string]bool{
	"/metrics":    true,
	"/api/health": true,
}

// Logger writes one http_request line per request. Level follows the status:
// info below 400, warn for 4xx, error for 5xx.
func Logger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if status < 400 && quietRoutes[route] {
			return
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		attrs := make([]slog.Attr, 0, 12)
		attrs = append(attrs,
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)
		if u, ok := CurrentUser(c); ok {
			attrs = append(attrs, slog.String("user_id", u.ID), slog.String("role", u.Role))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}
		l.LogAttrs(c.Request.Context(), level, "http_request", attrs...)
	}
}
