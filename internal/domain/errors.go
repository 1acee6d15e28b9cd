package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrValidation)

	// ErrInvalidSubscription is returned when a subscription plan is not
	// one of the known plan tags.
	ErrInvalidSubscription = fmt.Errorf("%w: invalid subscription plan", ErrValidation)

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrAlreadyVerified is returned when email verification is requested
	// for an account that has already completed it.
	ErrAlreadyVerified = errors.New("verification has already been passed")
)
