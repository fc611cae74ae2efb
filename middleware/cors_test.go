package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestOriginFilter(t *testing.T) {
	filter := OriginFilter([]string{"http://localhost:3000", "https://app.example.com/"}, zap.NewNop())
	handler := filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		origin string
		host   string
		proto  string
		want   int
	}{
		{name: "no origin header", want: http.StatusOK},
		{name: "allowed origin", origin: "http://localhost:3000", want: http.StatusOK},
		{name: "allowed origin case-insensitive", origin: "HTTPS://APP.EXAMPLE.COM", want: http.StatusOK},
		{name: "same origin", origin: "http://api.example.com", host: "api.example.com", want: http.StatusOK},
		{name: "same origin behind TLS proxy", origin: "https://api.example.com", host: "api.example.com", proto: "https", want: http.StatusOK},
		{name: "disallowed origin", origin: "https://evil.example.com", want: http.StatusForbidden},
		{name: "port mismatch", origin: "http://localhost:4000", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			if tt.host != "" {
				req.Host = tt.host
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestOriginFilter_RejectsDisallowedPreflight(t *testing.T) {
	handler := OriginFilter([]string{"http://localhost:3000"}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/user", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
