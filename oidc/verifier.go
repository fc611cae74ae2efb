package oidc

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidIssuer is returned when the token issuer is invalid
	ErrInvalidIssuer = errors.New("invalid issuer")

	// ErrInvalidAudience is returned when the token audience is invalid
	ErrInvalidAudience = errors.New("invalid audience")

	// ErrJWKSFetchFailed is returned when JWKS fetching fails
	ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")

	// ErrDiscoveryFailed is returned when the provider configuration cannot be loaded
	ErrDiscoveryFailed = errors.New("failed to discover provider configuration")

	// ErrKeyNotFound is returned when no cached key matches the token
	ErrKeyNotFound = errors.New("signing key not found")
)

// supportedAlgorithms lists the asymmetric algorithms accepted from the issuer
var supportedAlgorithms = []string{
	"RS256", "RS384", "RS512",
	"PS256", "PS384", "PS512",
	"ES256", "ES384", "ES512",
}

// Config holds configuration for Verifier
type Config struct {
	IssuerURI       string
	Audience        string
	ClockSkew       time.Duration
	RefreshInterval time.Duration
	HTTPTimeout     time.Duration
}

// CacheStats describes the cached issuer key material
type CacheStats struct {
	JWKSURI     string    `json:"jwks_uri"`
	KeyCount    int       `json:"keys"`
	LastRefresh time.Time `json:"last_refresh"`
}

// Verifier validates bearer tokens against the signing keys an OpenID issuer
// publishes. Keys are loaded once at construction and kept for the process
// lifetime; an unknown kid triggers at most one refetch per RefreshInterval.
type Verifier struct {
	issuer          string
	audience        string
	jwksURL         string
	clockSkew       time.Duration
	refreshInterval time.Duration
	httpClient      *http.Client
	logger          *zap.Logger
	now             func() time.Time

	mu          sync.RWMutex
	keys        map[string]crypto.PublicKey
	lastRefresh time.Time

	// serializes refetches; lastAttempt is guarded by it
	refreshMu   sync.Mutex
	lastAttempt time.Time
}

// NewVerifier resolves the issuer's provider configuration and loads its key set.
// Any failure is returned to the caller; there is no retry.
func NewVerifier(ctx context.Context, config Config, logger *zap.Logger) (*Verifier, error) {
	if config.IssuerURI == "" {
		return nil, errors.New("issuer URI is required")
	}
	if config.ClockSkew == 0 {
		config.ClockSkew = 60 * time.Second
	}
	if config.RefreshInterval == 0 {
		config.RefreshInterval = 5 * time.Minute
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 10 * time.Second
	}

	client := &http.Client{Timeout: config.HTTPTimeout}

	meta, err := Discover(ctx, client, config.IssuerURI)
	if err != nil {
		return nil, err
	}

	v := &Verifier{
		issuer:          config.IssuerURI,
		audience:        config.Audience,
		jwksURL:         meta.JWKSURI,
		clockSkew:       config.ClockSkew,
		refreshInterval: config.RefreshInterval,
		httpClient:      client,
		logger:          logger,
		now:             time.Now,
	}

	keys, err := v.loadKeys(ctx)
	if err != nil {
		return nil, err
	}
	v.keys = keys
	v.lastRefresh = v.now()
	v.lastAttempt = v.lastRefresh

	logger.Info("issuer signing keys loaded",
		zap.String("issuer", v.issuer),
		zap.String("jwks_uri", v.jwksURL),
		zap.Int("keys", len(keys)))

	return v, nil
}

// ValidateToken verifies signature, expiry and issuer of tokenString and returns
// its claims
func (v *Verifier) ValidateToken(ctx context.Context, tokenString string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(supportedAlgorithms),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(v.now),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		return v.publicKey(ctx, kid)
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("%w: expected %s", ErrInvalidIssuer, v.issuer)
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, ErrInvalidAudience
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return Claims(claims), nil
}

// Refresh refetches the key set unless a fetch was attempted within the
// refresh interval. Cached keys survive a failed fetch.
func (v *Verifier) Refresh(ctx context.Context) error {
	v.refreshMu.Lock()
	defer v.refreshMu.Unlock()

	if v.now().Sub(v.lastAttempt) < v.refreshInterval {
		return nil
	}
	v.lastAttempt = v.now()

	keys, err := v.loadKeys(ctx)
	if err != nil {
		v.logger.Warn("signing key refresh failed",
			zap.String("jwks_uri", v.jwksURL),
			zap.Error(err))
		return err
	}

	v.mu.Lock()
	v.keys = keys
	v.lastRefresh = v.now()
	v.mu.Unlock()

	v.logger.Info("issuer signing keys refreshed", zap.Int("keys", len(keys)))
	return nil
}

// CacheStats returns cache statistics
func (v *Verifier) CacheStats() CacheStats {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return CacheStats{
		JWKSURI:     v.jwksURL,
		KeyCount:    len(v.keys),
		LastRefresh: v.lastRefresh,
	}
}

// Issuer returns the configured issuer URI
func (v *Verifier) Issuer() string {
	return v.issuer
}

// publicKey returns the cached key for kid, refetching once on a miss
func (v *Verifier) publicKey(ctx context.Context, kid string) (crypto.PublicKey, error) {
	if key, ok := v.cachedKey(kid); ok {
		return key, nil
	}

	if err := v.Refresh(ctx); err != nil {
		return nil, err
	}

	if key, ok := v.cachedKey(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}

// cachedKey looks kid up in the cache. A token without kid is accepted only
// when the issuer publishes a single key.
func (v *Verifier) cachedKey(kid string) (crypto.PublicKey, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if kid == "" {
		if len(v.keys) != 1 {
			return nil, false
		}
		for _, key := range v.keys {
			return key, true
		}
	}
	key, ok := v.keys[kid]
	return key, ok
}

// loadKeys fetches the JWKS and converts every signing key it can use
func (v *Verifier) loadKeys(ctx context.Context) (map[string]crypto.PublicKey, error) {
	jwks, err := fetchJWKS(ctx, v.httpClient, v.jwksURL)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]crypto.PublicKey, len(jwks.Keys))
	for i := range jwks.Keys {
		jwk := &jwks.Keys[i]
		if jwk.Use != "" && jwk.Use != "sig" {
			continue
		}
		key, err := jwk.PublicKey()
		if err != nil {
			v.logger.Debug("skipping JWK",
				zap.String("kid", jwk.Kid),
				zap.String("kty", jwk.Kty),
				zap.Error(err))
			continue
		}
		keys[jwk.Kid] = key
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no usable signing keys at %s", ErrJWKSFetchFailed, v.jwksURL)
	}

	return keys, nil
}
