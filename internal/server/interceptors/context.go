// Package interceptors carries per-request client identity through the context and
// provides the gRPC logging interceptor.
package interceptors

import (
	"context"
	"net"
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

type contextKey struct{ name string }

var (
	clientIDKey = contextKey{"client_id"}
	clientIPKey = contextKey{"client_ip"}
)

// WithClient returns a context carrying the browser client id and its IP address.
func WithClient(ctx context.Context, clientID, ip string) context.Context {
	ctx = context.WithValue(ctx, clientIDKey, clientID)
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientID returns the client id set by WithClient, or "".
func ClientID(ctx context.Context) string {
	v, _ := ctx.Value(clientIDKey).(string)
	return v
}

// ClientIP returns the IP set by WithClient, else the first x-forwarded-for or
// x-real-ip entry of the gRPC metadata, else the gRPC peer address, or "unknown".
func ClientIP(ctx context.Context) string {
	if v, _ := ctx.Value(clientIPKey).(string); v != "" {
		return v
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ip := firstForwarded(md.Get("x-forwarded-for")); ip != "" {
			return ip
		}
		if ip := firstForwarded(md.Get("x-real-ip")); ip != "" {
			return ip
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return hostOnly(p.Addr.String())
	}
	return "unknown"
}

// HTTPClientIP returns the client IP of r from X-Forwarded-For, X-Real-IP, or RemoteAddr.
func HTTPClientIP(r *http.Request) string {
	if ip := firstForwarded(r.Header.Values("X-Forwarded-For")); ip != "" {
		return ip
	}
	if ip := firstForwarded(r.Header.Values("X-Real-IP")); ip != "" {
		return ip
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	return hostOnly(r.RemoteAddr)
}

func firstForwarded(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	s := vals[0]
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
