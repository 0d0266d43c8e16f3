package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/doormanhq/doorman/internal/session/service"
	"github.com/doormanhq/doorman/pkg/httpx"
	"github.com/doormanhq/doorman/pkg/slogx"
)

// msgInvalidCredentials is returned for every login failure: unknown email,
// wrong password, and internal signing faults all read the same from
// outside. Part of the wire contract.
const msgInvalidCredentials = "Incorrect email or password"

// LoginRequest is the credential payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the success body shared by login and refresh. The access
// token itself travels in the cookie, never here.
type TokenResponse struct {
	CSRFToken string `json:"csrfToken"`
	ExpiresAt string `json:"expiresAt"` // RFC 3339
}

// LoginHandler serves POST /api/auth/login.
type LoginHandler struct {
	Sessions *service.SessionService
	Cookies  CookiePolicy
}

// ServeHTTP godoc
//
//	@Summary		User login
//	@Description	Authenticates a user, sets the access token cookie and returns a CSRF token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		LoginRequest	true	"Email and password"
//	@Success		200			{object}	TokenResponse	"csrfToken, expiresAt"
//	@Failure		400			{object}	object			"Incorrect email or password"
//	@Header			200			{string}	Set-Cookie		"access_token cookie"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	tokens, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			// Internal fault. Log it, but the caller learns nothing
			// beyond the generic message.
			log.Error("login failed", "err", err)
		}
		httpx.WriteMessage(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	h.Cookies.SetSessionCookie(w, tokens.AccessToken, tokens.ExpiresAt)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		CSRFToken: tokens.CSRFToken,
		ExpiresAt: tokens.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
