package middleware

import (
	"net/http"
	"strings"

	"github.com/upb/resource-api/utils"
	"go.uber.org/zap"
)

// OriginFilter rejects cross-origin requests from origins outside the
// allow-list with 403 before they reach CORS handling or any handler.
// Requests without an Origin header and same-origin requests pass.
func OriginFilter(allowedOrigins []string, logger *zap.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.ToLower(strings.TrimSuffix(o, "/"))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || isSameOrigin(r, origin) {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := allowed[strings.ToLower(origin)]; ok {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn("cross-origin request rejected",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("origin", origin),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path))
			_ = utils.WriteForbidden(w, "Invalid CORS request")
		})
	}
}

// isSameOrigin reports whether origin names the host the request was sent to
func isSameOrigin(r *http.Request, origin string) bool {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return strings.EqualFold(origin, scheme+"://"+r.Host)
}
