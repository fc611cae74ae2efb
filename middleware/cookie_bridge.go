package middleware

import "net/http"

// AccessTokenCookieName is the cookie the frontend stores the access token in
const AccessTokenCookieName = "access_token"

const authorizationHeader = "Authorization"

// BridgeCookieToken returns a request whose Authorization header carries the
// access_token cookie as a bearer credential. When the cookie is missing or
// empty, or the request already has an Authorization header, r itself is
// returned. The original request is never modified.
func BridgeCookieToken(r *http.Request) *http.Request {
	if len(r.Header.Values(authorizationHeader)) > 0 {
		return r
	}

	cookie, err := r.Cookie(AccessTokenCookieName)
	if err != nil || cookie.Value == "" {
		return r
	}

	// Clone deep-copies the header map
	bridged := r.Clone(r.Context())
	bridged.Header.Set(authorizationHeader, "Bearer "+cookie.Value)
	return bridged
}

// CookieTokenBridge is a middleware that applies BridgeCookieToken to every
// request. It never rejects a request; verification happens downstream.
func CookieTokenBridge(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, BridgeCookieToken(r))
	})
}
