package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeCookieToken(t *testing.T) {
	t.Run("cookie without authorization header is bridged", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "dummy-token"})

		bridged := BridgeCookieToken(req)

		require.NotSame(t, req, bridged)
		assert.Equal(t, "Bearer dummy-token", bridged.Header.Get("Authorization"))
		assert.Equal(t, []string{"Bearer dummy-token"}, bridged.Header.Values("Authorization"))

		// the original request is untouched
		assert.Empty(t, req.Header.Values("Authorization"))
		cookie, err := bridged.Cookie(AccessTokenCookieName)
		require.NoError(t, err)
		assert.Equal(t, "dummy-token", cookie.Value)
	})

	t.Run("explicit authorization header takes precedence", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		req.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "cookie-token"})

		bridged := BridgeCookieToken(req)

		assert.Same(t, req, bridged)
		assert.Equal(t, []string{"Bearer header-token"}, bridged.Header.Values("Authorization"))
	})

	t.Run("empty authorization header still takes precedence", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.Header["Authorization"] = []string{""}
		req.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "cookie-token"})

		assert.Same(t, req, BridgeCookieToken(req))
	})

	t.Run("no cookie and no header is identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)

		bridged := BridgeCookieToken(req)

		assert.Same(t, req, bridged)
		assert.Empty(t, bridged.Header.Values("Authorization"))
	})

	t.Run("other cookies are ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})

		assert.Same(t, req, BridgeCookieToken(req))
	})

	t.Run("empty cookie value is treated as absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.Header.Set("Cookie", AccessTokenCookieName+"=")

		assert.Same(t, req, BridgeCookieToken(req))
	})

	t.Run("first matching cookie wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.Header.Set("Cookie", "theme=dark; access_token=first; access_token=second")

		bridged := BridgeCookieToken(req)

		assert.Equal(t, "Bearer first", bridged.Header.Get("Authorization"))
	})
}

func TestCookieTokenBridge(t *testing.T) {
	t.Run("next handler sees the synthesized header", func(t *testing.T) {
		var seen []string
		handler := CookieTokenBridge(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Values("Authorization")
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "dummy-token"})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"Bearer dummy-token"}, seen)
	})

	t.Run("request without cookie is forwarded unchanged", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)

		var forwarded *http.Request
		handler := CookieTokenBridge(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			forwarded = r
		}))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Same(t, req, forwarded)
	})
}
