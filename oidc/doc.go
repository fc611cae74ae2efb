// Package oidc verifies bearer tokens issued by an OpenID Connect provider.
//
// The provider is located through its discovery document; its published
// signing keys are fetched once at startup and cached.
package oidc
