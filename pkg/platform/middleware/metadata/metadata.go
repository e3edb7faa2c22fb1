// Package metadata resolves client metadata (IP, User-Agent) from the request
// and stores it in the context for handlers and services.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"oceangate/pkg/requestcontext"
)

// ClientMetadata extracts the client IP address and User-Agent from the
// request and adds them to the context. Apply it early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest returns the first X-Forwarded-For entry, trimmed, when
// present and non-empty; otherwise the host part of the peer address.
// The value is not validated as an IP: malformed input flows through to the
// geo lookup, which simply finds no country for it.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	return peerHost(r.RemoteAddr)
}

// peerHost strips the port from an "ip:port" or "[ipv6]:port" address.
func peerHost(addr string) string {
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
