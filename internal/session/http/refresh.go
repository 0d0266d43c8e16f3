package http

import (
	"net/http"
	"time"

	"github.com/doormanhq/doorman/internal/session/service"
	"github.com/doormanhq/doorman/pkg/httpx"
	"github.com/doormanhq/doorman/pkg/slogx"
)

// msgRefreshFailed covers every refresh failure: missing, expired, or forged
// cookie, and subjects that no longer exist. Worded differently from the
// login failure but just as uninformative. Part of the wire contract.
const msgRefreshFailed = "Failed to refresh token"

// RefreshHandler serves POST /api/auth/refresh. It resolves the cookie
// itself rather than sitting behind RequireSession so failures carry the
// refresh-specific message instead of a bare 401.
type RefreshHandler struct {
	Sessions *service.SessionService
	Resolver *service.Resolver
	Cookies  CookiePolicy
}

// ServeHTTP godoc
//
//	@Summary		Refresh access token
//	@Description	Reissues the access token cookie and CSRF token for the authenticated user.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	TokenResponse	"csrfToken, expiresAt"
//	@Failure		400	{object}	object			"Failed to refresh token"
//	@Header			200	{string}	Set-Cookie		"access_token cookie"
//	@Router			/api/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	auth, err := h.Resolver.Resolve(ctx, ReadSessionCookie(r))
	if err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, msgRefreshFailed)
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, auth.User.ID)
	if err != nil {
		log.Warn("refresh failed", "user_id", auth.User.ID, "err", err)
		httpx.WriteMessage(w, http.StatusBadRequest, msgRefreshFailed)
		return
	}

	h.Cookies.SetSessionCookie(w, tokens.AccessToken, tokens.ExpiresAt)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		CSRFToken: tokens.CSRFToken,
		ExpiresAt: tokens.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
