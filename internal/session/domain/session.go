package domain

import (
	"time"

	"github.com/doormanhq/doorman/pkg/jwtx"
)

// SessionTokens is what login and refresh hand back: the signed access token
// destined for the cookie, the CSRF token destined for the response body, and
// the exact expiry both must agree on. The CSRF token is generated
// independently of the access token and is never placed in the cookie.
type SessionTokens struct {
	AccessToken string
	CSRFToken   string
	ExpiresAt   time.Time
}

// AuthContext is the request-scoped result of resolving a session cookie:
// the verified claims plus the freshly loaded user. It lives for one request
// and is never persisted.
type AuthContext struct {
	Claims jwtx.Claims
	User   User
}
