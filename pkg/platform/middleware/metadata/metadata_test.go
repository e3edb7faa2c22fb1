package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"oceangate/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		remoteAddr string
		want       string
	}{
		{name: "single forwarded address", xff: "198.51.100.4", remoteAddr: "10.0.0.1:5555", want: "198.51.100.4"},
		{name: "first of forwarded chain, trimmed", xff: "  198.51.100.4 , 10.0.0.2, 10.0.0.3", remoteAddr: "10.0.0.1:5555", want: "198.51.100.4"},
		{name: "malformed forwarded value passes through", xff: "not-an-ip", remoteAddr: "10.0.0.1:5555", want: "not-an-ip"},
		{name: "empty first entry falls back to peer", xff: " ,198.51.100.4", remoteAddr: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "peer ipv4", remoteAddr: "192.0.2.10:4321", want: "192.0.2.10"},
		{name: "peer ipv6", remoteAddr: "[2001:db8::1]:4321", want: "2001:db8::1"},
		{name: "peer without port", remoteAddr: "192.0.2.10", want: "192.0.2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/check", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(r))
		})
	}
}

func TestClientMetadataMiddleware(t *testing.T) {
	var gotIP, gotUA string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.Header.Set("User-Agent", "Ocean/1.2 CFNetwork")
	ClientMetadata(next).ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "203.0.113.9", gotIP)
	assert.Equal(t, "Ocean/1.2 CFNetwork", gotUA)
}
