package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const discoveryPath = "/.well-known/openid-configuration"

// ProviderMetadata is the subset of the OpenID Provider configuration document
// needed to verify tokens
type ProviderMetadata struct {
	Issuer                           string   `json:"issuer"`
	JWKSURI                          string   `json:"jwks_uri"`
	IDTokenSigningAlgValuesSupported []string `json:"id_token_signing_alg_values_supported,omitempty"`
}

// DiscoveryURL returns the configuration document location for an issuer
func DiscoveryURL(issuer string) string {
	return strings.TrimSuffix(issuer, "/") + discoveryPath
}

// Discover fetches the provider configuration for issuer. The document must name
// the same issuer and publish a jwks_uri.
func Discover(ctx context.Context, client *http.Client, issuer string) (*ProviderMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, DiscoveryURL(issuer), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscoveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrDiscoveryFailed, resp.StatusCode)
	}

	var meta ProviderMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: failed to decode provider configuration: %v", ErrDiscoveryFailed, err)
	}

	if meta.Issuer != issuer {
		return nil, fmt.Errorf("%w: configured %s, provider reports %s", ErrInvalidIssuer, issuer, meta.Issuer)
	}
	if meta.JWKSURI == "" {
		return nil, fmt.Errorf("%w: jwks_uri missing", ErrDiscoveryFailed)
	}

	return &meta, nil
}
