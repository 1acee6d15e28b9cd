package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's password must already
	// be hashed. Returns ErrEmailExists if the email is already taken and
	// validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByVerificationToken retrieves the user holding the given one-time
	// verification token. Returns ErrUserNotFound if no pending account
	// holds it; a consumed token is cleared and therefore also not found.
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)

	// UpdateSessionToken sets or clears (nil) the user's stored session
	// token. Returns ErrUserNotFound if the user does not exist.
	UpdateSessionToken(ctx context.Context, id uuid.UUID, token *string) error

	// MarkVerified transitions the user to the verified state and clears the
	// verification token. The transition happens at most once; calling it
	// for an already-verified user is a no-op at the SQL level but the
	// service layer never does so.
	// Returns ErrUserNotFound if the user does not exist.
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// UpdateAvatarURL replaces the user's avatar reference.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
}
