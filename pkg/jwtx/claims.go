// Package jwtx signs and verifies the EdDSA access tokens that back doorman
// sessions. Verification fails closed: every failure mode collapses into an
// error, and callers must not differentiate them on the wire.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of a session access token. The expiry
// lives inside the signed payload; the cookie Max-Age merely mirrors it.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims are the access-token claims. Subject is the user ID; Role rides
// along so handlers can authorize without a second lookup, but the resolver
// still re-fetches the user so role changes take effect immediately.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the authenticated user at issue time.
	Role string `json:"role,omitempty"`
}

// NewSessionClaims builds claims for a session token issued at now.
func NewSessionClaims(subject, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role: role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Two tokens
// minted in the same millisecond for the same subject still differ.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer against an expected value. An empty
// expected value enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token is inside its validity window.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
