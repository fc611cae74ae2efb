package handlers

import (
	"time"

	"github.com/upb/resource-api/oidc"
)

// UserInfo is the full projection of verified claims served by /api/user.
// Absent claims serialize as null.
type UserInfo struct {
	Subject        *string    `json:"subject"`
	Username       *string    `json:"username"`
	Email          *string    `json:"email"`
	FirstName      *string    `json:"firstName"`
	LastName       *string    `json:"lastName"`
	FullName       *string    `json:"fullName"`
	EmailVerified  *bool      `json:"emailVerified"`
	TokenIssuer    *string    `json:"tokenIssuer"`
	TokenIssuedAt  *time.Time `json:"tokenIssuedAt"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt"`
}

// Profile is the reduced projection served by /api/profile. It carries no
// subject, token timing or verification flag.
type Profile struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	FullName  *string `json:"fullName"`
}

// NewUserInfo projects claims onto UserInfo
func NewUserInfo(claims oidc.Claims) UserInfo {
	return UserInfo{
		Subject:        claims.Subject(),
		Username:       claims.Username(),
		Email:          claims.Email(),
		FirstName:      claims.GivenName(),
		LastName:       claims.FamilyName(),
		FullName:       claims.Name(),
		EmailVerified:  claims.EmailVerified(),
		TokenIssuer:    claims.Issuer(),
		TokenIssuedAt:  claims.IssuedAt(),
		TokenExpiresAt: claims.ExpiresAt(),
	}
}

// NewProfile projects claims onto Profile
func NewProfile(claims oidc.Claims) Profile {
	return Profile{
		Username:  claims.Username(),
		Email:     claims.Email(),
		FirstName: claims.GivenName(),
		LastName:  claims.FamilyName(),
		FullName:  claims.Name(),
	}
}
