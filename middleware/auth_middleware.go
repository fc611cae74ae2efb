package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/upb/resource-api/oidc"
	"github.com/upb/resource-api/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating JWT tokens
type TokenValidator interface {
	// ValidateToken validates a JWT token and returns claims
	ValidateToken(ctx context.Context, token string) (oidc.Claims, error)
}

// AuthMiddleware classifies requests by path and verifies bearer tokens on
// the paths that require them
type AuthMiddleware struct {
	validator TokenValidator
	policy    *RoutePolicy
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. A nil policy means
// DefaultRoutePolicy.
func NewAuthMiddleware(validator TokenValidator, policy *RoutePolicy, logger *zap.Logger) *AuthMiddleware {
	if policy == nil {
		policy = DefaultRoutePolicy()
	}
	return &AuthMiddleware{
		validator: validator,
		policy:    policy,
		logger:    logger,
	}
}

// Guard classifies every request against the route policy. Authenticated
// paths go through token verification; public and default-permit paths are
// passed through without claims.
func (m *AuthMiddleware) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		disposition := m.policy.Classify(r.URL.Path)
		r = r.WithContext(WithDisposition(r.Context(), disposition))

		if disposition != Authenticated {
			m.logger.Debug("request passed through",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Stringer("disposition", disposition))
			next.ServeHTTP(w, r)
			return
		}

		m.authenticate(w, r, next)
	})
}

// authenticate verifies the bearer token and stores its claims on the request
// context, or answers 401 with a bearer challenge
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := r.Context()
	requestID := GetRequestIDFromContext(ctx)

	token := extractBearerToken(r)
	if token == "" {
		m.logger.Warn("missing token",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path))
		w.Header().Set("WWW-Authenticate", "Bearer")
		_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
		return
	}

	claims, err := m.validator.ValidateToken(ctx, token)
	if err != nil {
		m.logger.Warn("token validation failed",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		w.Header().Set("WWW-Authenticate", bearerChallenge(err))
		_ = utils.WriteUnauthorized(w, "Invalid or expired token")
		return
	}

	m.logger.Debug("authentication successful",
		zap.String("request_id", requestID),
		zap.Stringp("sub", claims.Subject()))

	next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
}

// bearerChallenge builds the RFC 6750 challenge for a rejected token
func bearerChallenge(err error) string {
	description := "The token is invalid"
	if errors.Is(err, oidc.ErrTokenExpired) {
		description = "The token has expired"
	}
	return `Bearer error="invalid_token", error_description="` + description + `"`
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get(authorizationHeader)
	if authHeader == "" {
		return ""
	}

	// Check if it starts with "Bearer "
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
