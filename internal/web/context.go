package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/userdesk/internal/core"
)

// WithRequestMetadata adds client IP and User-Agent to ctx for audit logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.WithRequestMeta(ctx, core.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
}

// clientIP returns the host part of RemoteAddr, already resolved by TrustedRealIP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
