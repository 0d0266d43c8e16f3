package session_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doormanhq/doorman/pkg/sessionsdk"
)

// TestGuardedRoutesRejectOutsiders verifies that the protected routes answer
// 401 to missing and tampered sessions alike.
func TestGuardedRoutesRejectOutsiders(t *testing.T) {
	baseURL, cleanup := setupSessionContainer(t)
	defer cleanup()

	ctx := t.Context()

	t.Run("no session", func(t *testing.T) {
		client, err := sessionsdk.NewClient(baseURL)
		require.NoError(t, err)

		_, err = client.Whoami(ctx)
		assertUnauthorized(t, err, "whoami without session")

		_, err = client.Refresh(ctx)
		assertRefreshFailed(t, err, "refresh without session")
	})

	t.Run("forged cookie", func(t *testing.T) {
		client, err := sessionsdk.NewClient(baseURL)
		require.NoError(t, err)

		u, err := url.Parse(baseURL)
		require.NoError(t, err)
		client.HTTPClient.Jar.SetCookies(u, []*http.Cookie{{
			Name:  "access_token",
			Value: "eyJhbGciOiJFZERTQSJ9.forged.signature",
			Path:  "/",
		}})

		_, err = client.Whoami(ctx)
		assertUnauthorized(t, err, "whoami with forged cookie")
	})
}

// TestCookieAttributes checks the raw Set-Cookie contract on login: the
// token travels HttpOnly and SameSite=Strict, and never appears in the body.
func TestCookieAttributes(t *testing.T) {
	baseURL, cleanup := setupSessionContainer(t)
	defer cleanup()

	resp, err := http.Post(baseURL+"/api/auth/login", "application/json",
		jsonBody(`{"email":"`+adminEmail+`","password":"`+adminPassword+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			found = c
		}
	}
	require.NotNil(t, found, "login should set the access_token cookie")
	require.True(t, found.HttpOnly, "cookie must be HttpOnly")
	require.Equal(t, http.SameSiteStrictMode, found.SameSite)
	require.Equal(t, "/", found.Path)
	require.Positive(t, found.MaxAge)
	require.False(t, found.Secure, "test environment runs without TLS")
}
