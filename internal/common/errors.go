// Package common defines shared constants and sentinel errors used across
// the store, remote client and service layers. Callers should use errors.Is
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any I/O (bad or too long date range).
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an operation on a reservation id the active store does not know.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks missing or rejected credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable marks a network failure or an unexpected backend response.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnsupported marks an operation the active store cannot perform.
	ErrUnsupported = errors.New("unsupported operation")
)

// ValidationError carries a human-readable reason and matches ErrValidation.
type ValidationError struct {
	Reason string
}

// NewValidationError returns a *ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// RemoteError describes a non-2xx backend response. Message holds the
// backend's own explanation when the body contained one.
type RemoteError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote error: HTTP %d: %s", e.StatusCode, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("remote error: HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("remote error: HTTP %d", e.StatusCode)
}

// Unwrap maps the status code onto the sentinel taxonomy.
func (e *RemoteError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	default:
		return ErrUnavailable
	}
}

// IsCredentialsRejected reports whether err carries a backend 401. A 403
// means the credentials are valid but lack permission.
func IsCredentialsRejected(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == 401
}
