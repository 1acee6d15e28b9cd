// Package task provides the in-process background runner used for work
// that requests dispatch without waiting on, such as verification email.
package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeVerificationEmail represents the task type for sending
	// account verification email.
	TaskTypeVerificationEmail = "verification_email"
)

// Task represents a unit of background work to be processed.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}
