package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/doormanhq/doorman/internal/session/domain"
	"github.com/doormanhq/doorman/internal/session/store"
	"github.com/doormanhq/doorman/pkg/jwtx"
	"github.com/doormanhq/doorman/pkg/slogx"
)

// ErrUnauthenticated is the single outcome for every resolution failure:
// missing, malformed, expired, or forged token, and tokens whose subject no
// longer exists. Clients cannot tell these apart.
var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver turns a raw cookie value into an AuthContext. Every request
// resolves independently; there is no cross-request cache, so user deletion
// and role changes bite on the very next request.
type Resolver struct {
	Verifier jwtx.Verifier
	Store    store.Store
}

// Resolve verifies the token and loads its subject. The reason for a failure
// is logged server-side only.
func (r *Resolver) Resolve(ctx context.Context, rawToken string) (domain.AuthContext, error) {
	log := slogx.FromContext(ctx)

	if rawToken == "" {
		return domain.AuthContext{}, ErrUnauthenticated
	}

	claims, err := r.Verifier.Verify(rawToken)
	if err != nil {
		log.Info("token rejected", "err", err)
		return domain.AuthContext{}, ErrUnauthenticated
	}

	user, err := r.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// A valid signature for a vanished user must never
			// authenticate.
			log.Info("token subject no longer exists", "user_id", claims.Subject)
			return domain.AuthContext{}, ErrUnauthenticated
		}
		return domain.AuthContext{}, fmt.Errorf("lookup user: %w", err)
	}

	return domain.AuthContext{Claims: claims, User: user}, nil
}
