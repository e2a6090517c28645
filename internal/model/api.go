package model

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Field length limits for conflict check requests. Names longer than the
// stored columns can never match and only inflate the edit-distance cost.
const (
	MaxPersonNamePartLen = 100
	MaxCompanyNameLen    = 255
)

// ValidateCheckRequest checks per-field length limits on a conflict check request.
func ValidateCheckRequest(r CheckConflictsRequest) error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"given_name", r.GivenName, MaxPersonNamePartLen},
		{"first_surname", r.FirstSurname, MaxPersonNamePartLen},
		{"second_surname", r.SecondSurname, MaxPersonNamePartLen},
		{"company_name", r.CompanyName, MaxCompanyNameLen},
	} {
		if utf8.RuneCountInString(f.value) > f.max {
			return fmt.Errorf("%s exceeds maximum length of %d characters", f.name, f.max)
		}
	}
	return nil
}

// APIResponse is the standard response envelope for all HTTP API responses.
type APIResponse struct {
	Data any          `json:"data,omitempty"`
	Meta ResponseMeta `json:"meta"`
}

// APIError is the standard error response envelope.
type APIError struct {
	Error ErrorDetail  `json:"error"`
	Meta  ResponseMeta `json:"meta"`
}

// ResponseMeta contains request metadata included in every response.
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorCode constants for standard API error codes.
const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeDataUnavailable = "DATA_UNAVAILABLE"
)

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Postgres string `json:"postgres"`
	Uptime   int64  `json:"uptime_seconds"`
}
