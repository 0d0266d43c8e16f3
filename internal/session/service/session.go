package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doormanhq/doorman/internal/session/domain"
	"github.com/doormanhq/doorman/internal/session/store"
	"github.com/doormanhq/doorman/pkg/cryptox"
	"github.com/doormanhq/doorman/pkg/jwtx"
	"github.com/doormanhq/doorman/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must surface it as one generic message so login reveals
	// nothing about account existence.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrUnknownSubject is returned when a refresh names a user that no
	// longer exists.
	ErrUnknownSubject = errors.New("unknown_subject")
)

// SessionService issues session token material. It is stateless: nothing is
// written anywhere on login or refresh, so concurrent calls need no
// coordination.
type SessionService struct {
	Signer    jwtx.Signer
	Store     store.Store
	Issuer    string
	AccessTTL time.Duration
}

// Login authenticates by email and password and issues fresh tokens. A
// lookup miss and a password mismatch are deliberately indistinguishable.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.SessionTokens, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time on a throwaway hash so an attacker
			// cannot time-probe which emails exist.
			_ = cryptox.VerifyPassword(password, decoyHash)
			return domain.SessionTokens{}, ErrInvalidCredentials
		}
		return domain.SessionTokens{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("login rejected", "user_id", user.ID)
		return domain.SessionTokens{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Refresh reissues tokens for an already-authenticated subject, established
// by a prior valid access token. The user is re-fetched so a role change or
// deletion takes effect immediately; no password is required.
func (s *SessionService) Refresh(ctx context.Context, userID string) (domain.SessionTokens, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SessionTokens{}, ErrUnknownSubject
		}
		return domain.SessionTokens{}, fmt.Errorf("lookup user: %w", err)
	}

	return s.issue(user)
}

// issue signs a fresh access token and pairs it with an independently random
// CSRF token. The expiry returned is the one inside the signed payload; the
// cookie layer mirrors it rather than inventing its own.
func (s *SessionService) issue(user domain.User) (domain.SessionTokens, error) {
	now := time.Now().UTC()

	claims := jwtx.NewSessionClaims(user.ID, user.Role, s.Issuer, s.AccessTTL, now)
	access, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.SessionTokens{}, fmt.Errorf("sign access token: %w", err)
	}

	csrf, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.SessionTokens{}, fmt.Errorf("generate csrf token: %w", err)
	}

	return domain.SessionTokens{
		AccessToken: access,
		CSRFToken:   csrf,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// decoyHash is a syntactically valid argon2id hash of nothing in particular.
// Verifying against it costs the same as a real check.
const decoyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
