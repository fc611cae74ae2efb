package oidc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Claim names read from verified tokens
const (
	ClaimSubject           = "sub"
	ClaimIssuer            = "iss"
	ClaimIssuedAt          = "iat"
	ClaimExpiresAt         = "exp"
	ClaimPreferredUsername = "preferred_username"
	ClaimEmail             = "email"
	ClaimEmailVerified     = "email_verified"
	ClaimGivenName         = "given_name"
	ClaimFamilyName        = "family_name"
	ClaimName              = "name"
)

// Claims is the claim set of a verified token. Accessors return nil for claims
// the token does not carry.
type Claims map[string]interface{}

// AsString returns the claim as a string. Scalars of other JSON types are
// rendered in their textual form.
func (c Claims) AsString(name string) *string {
	raw, ok := c[name]
	if !ok || raw == nil {
		return nil
	}

	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case bool:
		s = strconv.FormatBool(v)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return &s
}

// AsBool returns the claim as a bool. JSON booleans and the strings "true" and
// "false" are accepted.
func (c Claims) AsBool(name string) *bool {
	var b bool
	switch v := c[name].(type) {
	case bool:
		b = v
	case string:
		switch {
		case strings.EqualFold(v, "true"):
			b = true
		case strings.EqualFold(v, "false"):
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}

// AsTime returns a NumericDate claim (seconds since the epoch) as a UTC time.
// RFC 3339 strings are accepted as well.
func (c Claims) AsTime(name string) *time.Time {
	var secs float64
	switch v := c[name].(type) {
	case float64:
		secs = v
	case int64:
		secs = float64(v)
	case int:
		secs = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		secs = f
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	default:
		return nil
	}

	whole, frac := math.Modf(secs)
	t := time.Unix(int64(whole), int64(frac*1e9)).UTC()
	return &t
}

// Subject returns the sub claim
func (c Claims) Subject() *string {
	return c.AsString(ClaimSubject)
}

// Issuer returns the iss claim
func (c Claims) Issuer() *string {
	return c.AsString(ClaimIssuer)
}

// IssuedAt returns the iat claim as a UTC time
func (c Claims) IssuedAt() *time.Time {
	return c.AsTime(ClaimIssuedAt)
}

// ExpiresAt returns the exp claim as a UTC time
func (c Claims) ExpiresAt() *time.Time {
	return c.AsTime(ClaimExpiresAt)
}

// Username returns the preferred_username claim
func (c Claims) Username() *string {
	return c.AsString(ClaimPreferredUsername)
}

// Email returns the email claim
func (c Claims) Email() *string {
	return c.AsString(ClaimEmail)
}

// EmailVerified returns the email_verified claim
func (c Claims) EmailVerified() *bool {
	return c.AsBool(ClaimEmailVerified)
}

// GivenName returns the given_name claim
func (c Claims) GivenName() *string {
	return c.AsString(ClaimGivenName)
}

// FamilyName returns the family_name claim
func (c Claims) FamilyName() *string {
	return c.AsString(ClaimFamilyName)
}

// Name returns the name claim
func (c Claims) Name() *string {
	return c.AsString(ClaimName)
}
