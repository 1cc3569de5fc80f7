package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tinyurl-history/internal/analytics"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestMeta is a middleware that adds request id, client IP and user-agent to the request context.
// A missing X-Request-ID is filled in by newID and echoed back on the response.
func RequestMeta(_ huma.API, newID func() string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		requestID := strings.TrimSpace(ctx.Header(RequestIDHeader))
		if requestID == "" {
			requestID = newID()
		}

		ctx.SetHeader(RequestIDHeader, requestID)

		meta := analytics.RequestMeta{
			RequestID: requestID,
			ClientIP:  extractClientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
		}

		newCtx := analytics.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

func extractClientIP(ctx huma.Context) string {
	// X-Forwarded-For may contain a chain; the first entry is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host := ctx.RemoteAddr()
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}

	return host
}
