package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/store"
)

// MockContactStore implements store.ContactStore for testing. The default
// implementation enforces the same owner scoping as the real store: a
// contact owned by someone else looks exactly like a missing one.
type MockContactStore struct {
	CreateFn         func(ctx context.Context, contact *domain.Contact) error
	ListByOwnerFn    func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contact, error)
	GetByIDFn        func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Contact, error)
	UpdateFn         func(ctx context.Context, id, ownerID uuid.UUID, update domain.ContactUpdate) (*domain.Contact, error)
	UpdateFavoriteFn func(ctx context.Context, id, ownerID uuid.UUID, favorite bool) (*domain.Contact, error)
	DeleteFn         func(ctx context.Context, id, ownerID uuid.UUID) error

	mu       sync.Mutex
	Contacts map[uuid.UUID]*domain.Contact
}

// NewMockContactStore creates a new mock store with initialized defaults.
func NewMockContactStore() *MockContactStore {
	return &MockContactStore{
		Contacts: make(map[uuid.UUID]*domain.Contact),
	}
}

// AddContact seeds the default in-memory map.
func (m *MockContactStore) AddContact(contact *domain.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Contacts[contact.ID] = contact
}

// Create implements the ContactStore interface.
func (m *MockContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, contact)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Contacts[contact.ID] = contact
	return nil
}

// ListByOwner implements the ContactStore interface.
func (m *MockContactStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contact, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contacts := make([]*domain.Contact, 0)
	for _, contact := range m.Contacts {
		if contact.OwnerID == ownerID {
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

// GetByID implements the ContactStore interface.
func (m *MockContactStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Contact, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contact, exists := m.Contacts[id]
	if !exists || contact.OwnerID != ownerID {
		return nil, store.ErrContactNotFound
	}
	return contact, nil
}

// Update implements the ContactStore interface.
func (m *MockContactStore) Update(
	ctx context.Context,
	id, ownerID uuid.UUID,
	update domain.ContactUpdate,
) (*domain.Contact, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, ownerID, update)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contact, exists := m.Contacts[id]
	if !exists || contact.OwnerID != ownerID {
		return nil, store.ErrContactNotFound
	}

	update.Apply(contact)
	return contact, nil
}

// UpdateFavorite implements the ContactStore interface.
func (m *MockContactStore) UpdateFavorite(
	ctx context.Context,
	id, ownerID uuid.UUID,
	favorite bool,
) (*domain.Contact, error) {
	if m.UpdateFavoriteFn != nil {
		return m.UpdateFavoriteFn(ctx, id, ownerID, favorite)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contact, exists := m.Contacts[id]
	if !exists || contact.OwnerID != ownerID {
		return nil, store.ErrContactNotFound
	}

	contact.Favorite = favorite
	return contact, nil
}

// Delete implements the ContactStore interface.
func (m *MockContactStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contact, exists := m.Contacts[id]
	if !exists || contact.OwnerID != ownerID {
		return store.ErrContactNotFound
	}

	delete(m.Contacts, id)
	return nil
}
