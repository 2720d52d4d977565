package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/api/shared"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/auth"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/review"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, http.StatusOK},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"item not owned", review.ErrItemNotOwned, http.StatusForbidden},
		{"item not found", review.ErrItemNotFound, http.StatusNotFound},
		{"domain item not found", domain.ErrItemNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"progress not found", store.ErrProgressNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"invalid answer", review.ErrInvalidAnswer, http.StatusBadRequest},
		{"invalid timestamp", domain.ErrInvalidTimestamp, http.StatusBadRequest},
		{"invalid xp amount", domain.ErrInvalidXPAmount, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCode_WrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("loading item: %w", review.ErrItemNotFound)
	assert.Equal(t, http.StatusNotFound, MapErrorToStatusCode(wrapped))

	serviceErr := review.NewServiceError("SubmitAnswer", "item lookup failed", store.ErrItemNotFound)
	assert.Equal(t, http.StatusNotFound, MapErrorToStatusCode(serviceErr))
}

func TestGetSafeErrorMessage_NoInternalDetails(t *testing.T) {
	t.Parallel()

	internal := errors.New("pq: connection refused host=db.internal password=hunter2")
	msg := GetSafeErrorMessage(internal)

	assert.Equal(t, "An internal error occurred", msg)
	assert.NotContains(t, msg, "hunter2")
	assert.NotContains(t, msg, "db.internal")
}

func TestGetSafeErrorMessage_KnownErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Token expired", GetSafeErrorMessage(auth.ErrExpiredToken))
	assert.Equal(t, "Review item not found", GetSafeErrorMessage(review.ErrItemNotFound))
	assert.Equal(t, "Email already exists", GetSafeErrorMessage(store.ErrEmailExists))
	assert.Equal(t,
		"You do not have access to this resource",
		GetSafeErrorMessage(review.ErrItemNotOwned))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.Validate.Struct(struct {
		Email string `validate:"required,email"`
	}{Email: "not-an-email"})

	msg := SanitizeValidationError(err)
	assert.Contains(t, msg, "email")
	assert.NotContains(t, msg, "not-an-email")

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
	assert.Equal(t, "", SanitizeValidationError(nil))
}
