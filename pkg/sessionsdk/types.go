package sessionsdk

// TokenResponse is returned by Login and Refresh. The access token itself is
// stored in the cookie jar; only the CSRF token and expiry are surfaced.
type TokenResponse struct {
	CSRFToken string `json:"csrfToken"`
	ExpiresAt string `json:"expiresAt"` // RFC 3339
}

// WhoamiResponse is the public projection of the authenticated user.
type WhoamiResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// MessageResponse is the generic body used by logout and error responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
