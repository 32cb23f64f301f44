package dify

import (
	"errors"
	"fmt"
)

// Common errors returned by the Dify client.
var (
	// ErrInvalidConfig indicates invalid client configuration.
	ErrInvalidConfig = errors.New("invalid dify configuration")
	// ErrUnreachable indicates the Dify backend could not be reached.
	ErrUnreachable = errors.New("dify backend unreachable")
	// ErrUnauthenticated indicates a missing, invalid or expired session token.
	ErrUnauthenticated = errors.New("unauthenticated: no valid session token")
	// ErrInvalidCredentials indicates login was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrMalformedResponse indicates a 2xx response whose body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response from dify API")
)

// APIError represents a Dify API error response.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("dify API error: status %d: %s", e.StatusCode, e.Message)
}

// Is maps HTTP status classes onto the package sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.IsUnauthorized()
	case ErrNotFound:
		return e.IsNotFound()
	}
	return false
}

// IsNotFound checks if the error indicates a not found response.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsServerError checks if the error came from a 5xx response.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsRequestRejected checks if the upstream rejected the request body (4xx
// other than auth and not-found).
func (e *APIError) IsRequestRejected() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 &&
		!e.IsUnauthorized() && !e.IsNotFound()
}
