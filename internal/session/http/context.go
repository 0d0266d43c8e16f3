package http

import (
	"context"

	"github.com/doormanhq/doorman/internal/session/domain"
)

type authCtxKey struct{}

// ContextWithAuth attaches a resolved AuthContext to the request context.
func ContextWithAuth(ctx context.Context, auth domain.AuthContext) context.Context {
	return context.WithValue(ctx, authCtxKey{}, auth)
}

// AuthFromContext returns the AuthContext the session gate attached. The
// second return is false on routes that never passed through the gate.
func AuthFromContext(ctx context.Context) (domain.AuthContext, bool) {
	auth, ok := ctx.Value(authCtxKey{}).(domain.AuthContext)
	return auth, ok
}
