package sessionsdk

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-2xx response from the service. Message carries the
// server's wording verbatim, e.g. "Incorrect email or password".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("session service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("session service returned %d: %s", e.StatusCode, e.Message)
}

func parseErrorResponse(statusCode int, body []byte) error {
	var msg MessageResponse
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return &APIError{StatusCode: statusCode, Message: msg.Message}
	}
	return &APIError{StatusCode: statusCode}
}
