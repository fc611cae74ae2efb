package oidc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoveryURL(t *testing.T) {
	assert.Equal(t, "https://sso.example.com/realms/demo/.well-known/openid-configuration",
		DiscoveryURL("https://sso.example.com/realms/demo"))
	assert.Equal(t, "https://sso.example.com/realms/demo/.well-known/openid-configuration",
		DiscoveryURL("https://sso.example.com/realms/demo/"))
}

func TestDiscover(t *testing.T) {
	var issuer string
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()
	issuer = server.URL

	t.Run("valid document", func(t *testing.T) {
		body = `{"issuer":"` + issuer + `","jwks_uri":"` + issuer + `/certs","id_token_signing_alg_values_supported":["RS256"]}`

		meta, err := Discover(context.Background(), server.Client(), issuer)
		require.NoError(t, err)
		assert.Equal(t, issuer+"/certs", meta.JWKSURI)
		assert.Equal(t, []string{"RS256"}, meta.IDTokenSigningAlgValuesSupported)
	})

	t.Run("missing jwks_uri", func(t *testing.T) {
		body = `{"issuer":"` + issuer + `"}`

		_, err := Discover(context.Background(), server.Client(), issuer)
		assert.ErrorIs(t, err, ErrDiscoveryFailed)
	})

	t.Run("undecodable document", func(t *testing.T) {
		body = `<html>`

		_, err := Discover(context.Background(), server.Client(), issuer)
		assert.ErrorIs(t, err, ErrDiscoveryFailed)
	})

	t.Run("unreachable provider", func(t *testing.T) {
		_, err := Discover(context.Background(), server.Client(), "http://127.0.0.1:1")
		assert.ErrorIs(t, err, ErrDiscoveryFailed)
	})
}
