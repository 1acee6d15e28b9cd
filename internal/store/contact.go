package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
)

// ContactStore defines the interface for contact data persistence.
//
// Every read and write is scoped to an owner: a contact that exists but
// belongs to a different owner behaves exactly like one that does not exist.
type ContactStore interface {
	// Create saves a new contact to the store.
	// Returns validation errors from the domain Contact if data is invalid.
	Create(ctx context.Context, contact *domain.Contact) error

	// ListByOwner returns all contacts belonging to the owner. An owner with
	// no contacts yields an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contact, error)

	// GetByID retrieves the contact with the given ID if it belongs to the
	// owner. Returns ErrContactNotFound otherwise.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Contact, error)

	// Update applies a partial replace to the contact with the given ID if
	// it belongs to the owner, and returns the updated contact.
	// Returns ErrContactNotFound if no such contact matches.
	Update(ctx context.Context, id, ownerID uuid.UUID, update domain.ContactUpdate) (*domain.Contact, error)

	// UpdateFavorite sets the favorite flag on the contact with the given ID
	// if it belongs to the owner, and returns the updated contact.
	// Returns ErrContactNotFound if no such contact matches.
	UpdateFavorite(ctx context.Context, id, ownerID uuid.UUID, favorite bool) (*domain.Contact, error)

	// Delete removes the contact with the given ID if it belongs to the
	// owner. Deletion is immediate and final.
	// Returns ErrContactNotFound if no such contact matches.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
