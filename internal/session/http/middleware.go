package http

import (
	"errors"
	"net/http"

	"github.com/doormanhq/doorman/internal/session/service"
	"github.com/doormanhq/doorman/pkg/httpx"
	"github.com/doormanhq/doorman/pkg/slogx"
)

// msgUnauthorized is the only thing an unauthenticated caller ever sees.
// Missing, expired, and forged tokens all land here.
const msgUnauthorized = "Unauthorized"

// RequireSession is the protected-route gate: it resolves the session cookie
// before the handler runs, short-circuits with 401 on any failure, and
// otherwise attaches the AuthContext to the request context.
func RequireSession(resolver *service.Resolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			auth, err := resolver.Resolve(ctx, ReadSessionCookie(r))
			if err != nil {
				// Resolution failures beyond ErrUnauthenticated are
				// store faults; they still must not leak, but they are
				// worth a server-side error log.
				if !errors.Is(err, service.ErrUnauthenticated) {
					slogx.FromContext(ctx).Error("session resolution failed", "err", err)
				}
				httpx.WriteMessage(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithAuth(ctx, auth)))
		})
	}
}
