package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the service. Handlers map these to HTTP
// status codes in a single place.
var (
	// ErrNotFound indicates the target entity is absent upstream or locally.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates an ownership check failed (e.g. deleting a
	// post owned by someone else).
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError describes a request rejected before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RemoteError wraps an upstream failure with the HTTP status it produced.
// Status 0 means the request never completed (network failure).
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return "remote store unreachable: " + e.Message
	}
	return fmt.Sprintf("remote store returned %d: %s", e.Status, e.Message)
}

// IsNetworkFailure reports whether err represents a request that never
// reached the remote store.
func IsNetworkFailure(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status == 0
	}
	return false
}
