// Package conflicts provides a Go client for the conflict-of-interest search API.
package conflicts

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by the server.
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeDataUnavailable = "DATA_UNAVAILABLE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Error represents an error from the conflicts API with the HTTP status code
// and the server's error message.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("conflicts: %s (%d): %s [request %s]", e.Code, e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("conflicts: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

func statusIs(err error, status int) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode == status
	}
	return false
}

// IsInvalidInput returns true if the server rejected the query, for example
// because no name was given or a field was too long.
func IsInvalidInput(err error) bool {
	return statusIs(err, http.StatusBadRequest)
}

// IsUnauthorized returns true if the error is a 401.
func IsUnauthorized(err error) bool {
	return statusIs(err, http.StatusUnauthorized)
}

// IsRateLimited returns true if the error is a 429 (Too Many Requests).
func IsRateLimited(err error) bool {
	return statusIs(err, http.StatusTooManyRequests)
}

// IsUnavailable returns true if the firm's records could not be read. The
// check was not performed and may be retried; it must not be read as "no
// conflicts".
func IsUnavailable(err error) bool {
	return statusIs(err, http.StatusServiceUnavailable)
}
