package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// OAuth2 error codes the service returns (RFC 6749 plus service specific codes).
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidClient     = "invalid_client"
	ErrorCodeServerError       = "server_error"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded"
)

var (
	// ErrTokenNotFound is returned when a token does not exist or belongs to
	// another client.
	ErrTokenNotFound = errors.New("authsdk: token not found")

	// ErrNotReady is returned by GetReadiness when the service reports degraded.
	ErrNotReady = errors.New("authsdk: service not ready")
)

// OAuth2Error represents a standard OAuth2 error response per RFC 6749.
type OAuth2Error struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the OAuth2 error code (e.g., "invalid_request", "invalid_client")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *OAuth2Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// parseErrorResponse turns a non-success response into an *OAuth2Error. Bodies
// that are not OAuth2 errors keep the status code and use server_error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &OAuth2Error{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &OAuth2Error{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("unexpected status %d", resp.StatusCode),
	}
}
