package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api/shared"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/auth"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/review"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/store"
)

// MapErrorToStatusCode translates service and store errors to HTTP
// status codes. Unrecognized errors map to 500 so internals never leak
// as misleading client errors.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Authentication failures.
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization failures.
	case errors.Is(err, review.ErrItemNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Missing resources.
	case errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflicts.
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Malformed or invalid input.
	case errors.Is(err, review.ErrInvalidAnswer),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTimestamp),
		errors.Is(err, domain.ErrInvalidXPAmount),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for an error,
// never exposing internal details such as SQL or file paths.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, review.ErrItemNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return "You do not have access to this resource"
	case errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		return "Review item not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, domain.ErrInvalidTimestamp):
		return "Review timestamp is earlier than the item's recorded state"
	case errors.Is(err, review.ErrInvalidAnswer),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidXPAmount),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request"
	default:
		return "An internal error occurred"
	}
}

// HandleAPIError maps the error to a status code and client-safe
// message, logs the full detail, and writes the response. Callers that
// need a more specific client message pass it as fallbackMessage; it is
// used only when the error maps to a 500.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	statusCode := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if statusCode == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, message, err)
}

// SanitizeValidationError converts validator errors into a client-safe
// message without echoing submitted values back.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if !strings.Contains(msg, "Field validation") {
		return "Validation error"
	}

	var fields []string
	for _, line := range strings.Split(msg, "\n") {
		start := strings.Index(line, "Error:Field validation for '")
		if start < 0 {
			continue
		}
		rest := line[start+len("Error:Field validation for '"):]
		end := strings.Index(rest, "'")
		if end < 0 {
			continue
		}
		fields = append(fields, strings.ToLower(rest[:end]))
	}
	if len(fields) == 0 {
		return "Validation error"
	}
	return "Validation failed for: " + strings.Join(fields, ", ")
}
