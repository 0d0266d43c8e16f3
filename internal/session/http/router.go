package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/doormanhq/doorman/internal/session/service"
	"github.com/doormanhq/doorman/internal/session/store"
	"github.com/doormanhq/doorman/pkg/httpx"
	"github.com/doormanhq/doorman/pkg/jwtx"
	"github.com/doormanhq/doorman/pkg/slogx"

	_ "github.com/doormanhq/doorman/api/session" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for the HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	cookies      CookiePolicy
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	Resolver       *service.Resolver
}

func NewRouter(
	keys *jwtx.KeySet,
	cookies CookiePolicy,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		cookies:      cookies,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Default middleware chain applied to every route.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
//
//	@title			Doorman Session Service API
//	@version		0.1.0
//	@description	Cookie-based authentication and session service. Login sets an HttpOnly
//	@description	access token cookie and returns a CSRF token in the body; guarded routes
//	@description	resolve the cookie into an authenticated context on every request.
//
//	@contact.name	Doorman Maintainers
//	@contact.url	https://github.com/doormanhq/doorman
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP (credential guesses)
	login := &LoginHandler{Sessions: r.SessionService, Cookies: r.cookies}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - no auth needed, idempotent
	logout := &LogoutHandler{Cookies: r.cookies}
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(logout,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /refresh - resolves the cookie itself so failures answer with
	// the refresh-specific message
	refresh := &RefreshHandler{Sessions: r.SessionService, Resolver: r.Resolver, Cookies: r.cookies}
	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(refresh,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /whoami - guarded
	whoami := &WhoamiHandler{}
	r.Mux.Handle("GET /api/auth/whoami",
		httpx.Chain(whoami,
			RequireSession(r.Resolver),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health probes - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
