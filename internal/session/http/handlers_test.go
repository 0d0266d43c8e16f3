package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doormanhq/doorman/internal/session/domain"
	"github.com/doormanhq/doorman/internal/session/service"
	"github.com/doormanhq/doorman/internal/session/store"
	"github.com/doormanhq/doorman/internal/session/store/drivers/sqlite"
	"github.com/doormanhq/doorman/pkg/cryptox"
	"github.com/doormanhq/doorman/pkg/idx"
	"github.com/doormanhq/doorman/pkg/jwtx"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "doorman-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

const (
	testIssuer   = "doorman-test"
	testEmail    = "alice@example.com"
	testPassword = "Sup3r-Secret!"
)

type fixture struct {
	router *Router
	store  store.Store
	signer jwtx.Signer
	user   domain.User
}

// newFixture builds a fully wired router backed by a throwaway database,
// seeded with one known user.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "doorman.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(keys, CookiePolicy{Secure: false}, "test", st, logger)
	router.SessionService = &service.SessionService{
		Signer:    signer,
		Store:     st,
		Issuer:    testIssuer,
		AccessTTL: jwtx.DefaultAccessTokenTTL,
	}
	router.Resolver = &service.Resolver{
		Verifier: jwtx.NewVerifierEdDSA(keys, testIssuer),
		Store:    st,
	}
	router.ApplyRoutes()

	f := &fixture{router: router, store: st, signer: signer}
	f.user = f.createUser(t, testEmail, "Alice", testPassword)
	return f
}

func (f *fixture) createUser(t *testing.T, email, name, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		Role:         "member",
		PasswordHash: hash,
	}
	require.NoError(t, f.store.Users().CreateUser(t.Context(), u))
	return u
}

func (f *fixture) do(req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w.Result()
}

func (f *fixture) login(t *testing.T, email, password string) *http.Response {
	t.Helper()

	body := strings.NewReader(`{"email":"` + email + `","password":"` + password + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	return f.do(req)
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookieName)
	return nil
}

func requireMessage(t *testing.T, resp *http.Response, want string) {
	t.Helper()

	body := decodeJSON[map[string]string](t, resp)
	require.Equal(t, want, body["message"])
}

func TestLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	t.Run("success sets cookie and returns csrf token", func(t *testing.T) {
		resp := f.login(t, testEmail, testPassword)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[TokenResponse](t, resp)
		require.NotEmpty(t, body.CSRFToken)
		require.GreaterOrEqual(t, len(body.CSRFToken), 22, "token must carry at least 128 bits")

		expiresAt, err := time.Parse(time.RFC3339, body.ExpiresAt)
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(jwtx.DefaultAccessTokenTTL), expiresAt, 10*time.Second)

		c := sessionCookie(t, resp)
		require.NotEmpty(t, c.Value)
		require.True(t, c.HttpOnly)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		require.Equal(t, "/", c.Path)
		require.False(t, c.Secure, "Secure only in production")
		require.Positive(t, c.MaxAge)

		// The CSRF token never appears in the cookie.
		require.NotContains(t, c.Value, body.CSRFToken)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		resp := f.login(t, "ALICE@Example.COM", testPassword)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password and unknown email read identically", func(t *testing.T) {
		wrongPass := f.login(t, testEmail, "not-the-password")
		require.Equal(t, http.StatusBadRequest, wrongPass.StatusCode)
		requireMessage(t, wrongPass, "Incorrect email or password")
		require.Empty(t, wrongPass.Cookies(), "failed login must not touch cookies")

		unknown := f.login(t, "nobody@example.com", testPassword)
		require.Equal(t, http.StatusBadRequest, unknown.StatusCode)
		requireMessage(t, unknown, "Incorrect email or password")
		require.Empty(t, unknown.Cookies())
	})

	t.Run("malformed body gets the same generic message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
		resp := f.do(req)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		requireMessage(t, resp, "Incorrect email or password")
	})
}

func TestWhoami(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	t.Run("returns the user behind the cookie", func(t *testing.T) {
		login := f.login(t, testEmail, testPassword)
		require.Equal(t, http.StatusOK, login.StatusCode)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/whoami", nil)
		req.AddCookie(sessionCookie(t, login))
		resp := f.do(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[map[string]string](t, resp)
		require.Equal(t, f.user.ID, body["id"])
		require.Equal(t, testEmail, body["email"])
		require.Equal(t, "Alice", body["name"])
		require.Equal(t, "member", body["role"])
		require.NotContains(t, body, "passwordHash")
	})

	t.Run("no cookie", func(t *testing.T) {
		resp := f.do(httptest.NewRequest(http.MethodGet, "/api/auth/whoami", nil))
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		requireMessage(t, resp, "Unauthorized")
	})

	t.Run("garbage cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not.a.token"})
		resp := f.do(req)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		requireMessage(t, resp, "Unauthorized")
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwtx.NewSessionClaims(f.user.ID, f.user.Role, testIssuer,
			time.Minute, time.Now().Add(-2*time.Minute))
		token, err := f.signer.Sign(claims)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		resp := f.do(req)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("deleted user is rejected despite a valid token", func(t *testing.T) {
		victim := f.createUser(t, "bob@example.com", "Bob", testPassword)
		login := f.login(t, victim.Email, testPassword)
		require.Equal(t, http.StatusOK, login.StatusCode)
		cookie := sessionCookie(t, login)

		require.NoError(t, f.store.Users().DeleteUser(t.Context(), victim.ID))

		req := httptest.NewRequest(http.MethodGet, "/api/auth/whoami", nil)
		req.AddCookie(cookie)
		resp := f.do(req)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		requireMessage(t, resp, "Unauthorized")
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	t.Run("reissues cookie and csrf token without a password", func(t *testing.T) {
		login := f.login(t, testEmail, testPassword)
		require.Equal(t, http.StatusOK, login.StatusCode)
		loginBody := decodeJSON[TokenResponse](t, login)
		loginCookie := sessionCookie(t, login)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(loginCookie)
		resp := f.do(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[TokenResponse](t, resp)
		require.NotEmpty(t, body.CSRFToken)
		require.NotEqual(t, loginBody.CSRFToken, body.CSRFToken)

		c := sessionCookie(t, resp)
		require.True(t, c.HttpOnly)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		require.Positive(t, c.MaxAge)
	})

	t.Run("without a cookie", func(t *testing.T) {
		resp := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		requireMessage(t, resp, "Failed to refresh token")
		require.Empty(t, resp.Cookies(), "failed refresh must not touch cookies")
	})

	t.Run("expired cookie", func(t *testing.T) {
		claims := jwtx.NewSessionClaims(f.user.ID, f.user.Role, testIssuer,
			time.Minute, time.Now().Add(-2*time.Minute))
		token, err := f.signer.Sign(claims)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		resp := f.do(req)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		requireMessage(t, resp, "Failed to refresh token")
		require.Empty(t, resp.Cookies())
	})

	t.Run("deleted user cannot refresh", func(t *testing.T) {
		victim := f.createUser(t, "carol@example.com", "Carol", testPassword)
		login := f.login(t, victim.Email, testPassword)
		require.Equal(t, http.StatusOK, login.StatusCode)
		cookie := sessionCookie(t, login)

		require.NoError(t, f.store.Users().DeleteUser(t.Context(), victim.ID))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(cookie)
		resp := f.do(req)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		requireMessage(t, resp, "Failed to refresh token")
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	t.Run("clears the cookie", func(t *testing.T) {
		login := f.login(t, testEmail, testPassword)
		require.Equal(t, http.StatusOK, login.StatusCode)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.AddCookie(sessionCookie(t, login))
		resp := f.do(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		requireMessage(t, resp, "Logged out successfully")

		c := sessionCookie(t, resp)
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge)
		require.True(t, c.HttpOnly)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	})

	t.Run("idempotent without a session", func(t *testing.T) {
		resp := f.do(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		requireMessage(t, resp, "Logged out successfully")

		c := sessionCookie(t, resp)
		require.Negative(t, c.MaxAge)
	})
}

func TestSecureCookiePolicy(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	CookiePolicy{Secure: true}.SetSessionCookie(w, "token", time.Now().Add(time.Hour))

	c := sessionCookie(t, w.Result())
	require.True(t, c.Secure)
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	t.Run("livez", func(t *testing.T) {
		resp := f.do(httptest.NewRequest(http.MethodGet, "/livez", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[HealthResponse](t, resp)
		require.Equal(t, "ok", body.Status)
	})

	t.Run("readyz", func(t *testing.T) {
		resp := f.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[HealthResponse](t, resp)
		require.Equal(t, "ok", body.Status)
	})
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// Strict default allows 5 attempts per window from one address.
	var last *http.Response
	for i := 0; i < 6; i++ {
		last = f.login(t, testEmail, "wrong-password")
	}
	require.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	require.NotEmpty(t, last.Header.Get("Retry-After"))

	// A different address is unaffected.
	body := strings.NewReader(`{"email":"` + testEmail + `","password":"` + testPassword + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.RemoteAddr = "203.0.113.7:4455"
	resp := f.do(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
