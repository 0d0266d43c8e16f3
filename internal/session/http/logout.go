package http

import (
	"net/http"

	"github.com/doormanhq/doorman/pkg/httpx"
)

const msgLoggedOut = "Logged out successfully"

// LogoutHandler serves POST /api/auth/logout. No auth required: clearing an
// absent cookie is a success, which makes logout idempotent.
type LogoutHandler struct {
	Cookies CookiePolicy
}

// ServeHTTP godoc
//
//	@Summary		User logout
//	@Description	Clears the access token cookie. Idempotent.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	object	"Logged out successfully"
//	@Router			/api/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Cookies.ClearSessionCookie(w)
	httpx.WriteMessage(w, http.StatusOK, msgLoggedOut)
}
