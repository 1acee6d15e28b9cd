package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/service/auth"
	"github.com/phrazzld/contacts-api/internal/store"
)

func TestValidationMessage(t *testing.T) {
	t.Parallel()

	v := newValidator()

	tests := []struct {
		name string
		dto  interface{}
		want string
	}{
		{
			name: "required fields use the json name",
			dto:  SignupRequest{Password: "abcdef"},
			want: "missing required email field",
		},
		{
			name: "first failing field wins",
			dto:  SignupRequest{},
			want: "missing required email field",
		},
		{
			name: "non-required failures read as invalid",
			dto:  SignupRequest{Email: "nope", Password: "abcdef"},
			want: "invalid email field",
		},
		{
			name: "contact fields",
			dto:  CreateContactRequest{Name: "Alice", Email: "a@example.com"},
			want: "missing required phone field",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := v.Struct(tc.dto)
			assert.Equal(t, tc.want, ValidationMessage(err))
		})
	}

	t.Run("non-validator errors fall back", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "invalid request body", ValidationMessage(errors.New("boom")))
	})
}

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "premature token", err: auth.ErrTokenNotYetValid, want: http.StatusUnauthorized},
		{name: "missing token", err: auth.ErrMissingToken, want: http.StatusUnauthorized},
		{name: "revoked session", err: auth.ErrSessionRevoked, want: http.StatusUnauthorized},
		{name: "not the caller's resource", err: domain.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "contact not found", err: store.ErrContactNotFound, want: http.StatusNotFound},
		{name: "user not found", err: store.ErrUserNotFound, want: http.StatusNotFound},
		{name: "duplicate email", err: store.ErrEmailExists, want: http.StatusConflict},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{name: "domain validation failure", err: domain.ErrEmptyName, want: http.StatusBadRequest},
		{name: "already verified", err: domain.ErrAlreadyVerified, want: http.StatusBadRequest},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", store.ErrContactNotFound), want: http.StatusNotFound},
		{name: "unknown error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "auth failure", err: auth.ErrInvalidToken, want: "Not authorized"},
		{name: "missing token", err: auth.ErrMissingToken, want: "Not authorized"},
		{name: "revoked session", err: auth.ErrSessionRevoked, want: "Not authorized"},
		{name: "already verified", err: domain.ErrAlreadyVerified, want: "Verification has already been passed"},
		{name: "domain validation failure", err: domain.ErrEmptyPhone, want: "Invalid request data"},
		{name: "missing user", err: store.ErrUserNotFound, want: "User not found"},
		{name: "missing contact", err: store.ErrContactNotFound, want: "Not found"},
		{name: "duplicate email", err: store.ErrEmailExists, want: "Email in use"},
		{name: "internal details are not leaked", err: errors.New("pq: syntax error"), want: "An unexpected error occurred"},
		{name: "nil error", err: nil, want: "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}
