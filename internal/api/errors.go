package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/service/auth"
	"github.com/phrazzld/contacts-api/internal/store"
)

// newValidator builds the validator used for request DTOs, reporting field
// names by their JSON tag so error messages match the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationMessage normalizes a validator error into the API's
// field-naming message format, reporting the first failing field.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		if first.Tag() == "required" {
			return fmt.Sprintf("missing required %s field", first.Field())
		}
		return fmt.Sprintf("invalid %s field", first.Field())
	}
	return "invalid request body"
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrSessionRevoked),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors. Ownership mismatches surface as the same not-found
	// sentinel, so they map to 404 here as well.
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrSessionRevoked),
		errors.Is(err, domain.ErrUnauthorized):
		return "Not authorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email in use"

	case errors.Is(err, domain.ErrAlreadyVerified):
		return "Verification has already been passed"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// respondWithMappedError routes err through the centralized status and
// message mapping and writes the sanitized response, logging the full
// error. fallbackMessage replaces the generic 500 body so each operation
// can name what failed without leaking the cause.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)

	if statusCode == http.StatusInternalServerError && fallbackMessage != "" {
		safeMessage = fallbackMessage
	}

	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}
