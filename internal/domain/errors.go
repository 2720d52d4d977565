package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrItemNotFound is returned when a review item ID is unknown.
	// Hosts should treat this as a data-integrity signal (likely a sync
	// bug) rather than a user-facing condition.
	ErrItemNotFound = errors.New("review item not found")

	// ErrInvalidXPAmount is returned when a negative XP award is attempted.
	// XP is strictly monotonic; no subtraction operation exists.
	ErrInvalidXPAmount = errors.New("xp amount must be non-negative")

	// ErrInvalidTimestamp is returned when a supplied "now" runs backwards
	// relative to already-recorded activity.
	ErrInvalidTimestamp = errors.New("timestamp precedes recorded state")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError provides field-level context for a validation failure
// while still matching the underlying sentinel via errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping the given sentinel.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped sentinel to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
