package http

import (
	"net/http"

	"github.com/doormanhq/doorman/pkg/httpx"
)

// WhoamiHandler serves GET /api/auth/whoami, returning the public projection
// of the authenticated user.
type WhoamiHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Get authenticated user information
//	@Description	Returns the details of the currently authenticated user.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	domain.Projection	"id, email, name, role"
//	@Failure		401	{object}	object				"Unauthorized"
//	@Router			/api/auth/whoami [get].
func (h *WhoamiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth, ok := AuthFromContext(r.Context())
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, auth.User.Project())
}
