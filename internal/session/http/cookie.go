package http

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the access token. The CSRF token
// is never stored here; it travels in the response body only.
const SessionCookieName = "access_token"

// CookiePolicy captures the attributes a session cookie is set and cleared
// with. Clearing must use the same attributes as setting or browsers may
// keep the stale cookie around.
type CookiePolicy struct {
	// Secure is enabled only for production deployments so local
	// development over plain HTTP keeps working. It comes from config at
	// construction time, never from the process environment at call sites.
	Secure bool
}

// SetSessionCookie writes the access token cookie. Max-Age mirrors the
// expiry embedded in the signed token; the token is authoritative.
func (p CookiePolicy) SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the cookie using the same attributes it was set
// with.
func (p CookiePolicy) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadSessionCookie returns the raw token from the request cookie, or ""
// when absent.
func ReadSessionCookie(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
