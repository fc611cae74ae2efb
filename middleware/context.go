package middleware

import (
	"context"

	"github.com/upb/resource-api/oidc"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// ClaimsKey is the context key for verified JWT claims
	ClaimsKey contextKey = "claims"

	// DispositionKey is the context key for the route disposition
	DispositionKey contextKey = "disposition"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetClaimsFromContext retrieves verified claims from context.
// Returns nil on requests that were not authenticated.
func GetClaimsFromContext(ctx context.Context) oidc.Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(oidc.Claims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds verified claims to the context
func WithClaims(ctx context.Context, claims oidc.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetDispositionFromContext retrieves the route disposition from context
func GetDispositionFromContext(ctx context.Context) Disposition {
	if val := ctx.Value(DispositionKey); val != nil {
		if d, ok := val.(Disposition); ok {
			return d
		}
	}
	return Unclassified
}

// WithDisposition adds the route disposition to the context
func WithDisposition(ctx context.Context, d Disposition) context.Context {
	return context.WithValue(ctx, DispositionKey, d)
}
