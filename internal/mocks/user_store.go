package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn                 func(ctx context.Context, user *domain.User) error
	GetByIDFn                func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn             func(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationTokenFn func(ctx context.Context, token string) (*domain.User, error)
	UpdateSessionTokenFn     func(ctx context.Context, id uuid.UUID, token *string) error
	MarkVerifiedFn           func(ctx context.Context, id uuid.UUID) error
	UpdateAvatarURLFn        func(ctx context.Context, id uuid.UUID, avatarURL string) error

	// Data for the default in-memory implementation, keyed by email.
	mu    sync.Mutex
	Users map[string]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// AddUser seeds the default in-memory map.
func (m *MockUserStore) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.Email] = user
}

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	m.Users[user.Email] = user
	return nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.Users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	return user, nil
}

// GetByVerificationToken implements the UserStore interface.
func (m *MockUserStore) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	if m.GetByVerificationTokenFn != nil {
		return m.GetByVerificationTokenFn(ctx, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.VerificationToken != nil && *user.VerificationToken == token {
			return user, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// UpdateSessionToken implements the UserStore interface.
func (m *MockUserStore) UpdateSessionToken(ctx context.Context, id uuid.UUID, token *string) error {
	if m.UpdateSessionTokenFn != nil {
		return m.UpdateSessionTokenFn(ctx, id, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			user.SessionToken = token
			return nil
		}
	}

	return store.ErrUserNotFound
}

// MarkVerified implements the UserStore interface.
func (m *MockUserStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	if m.MarkVerifiedFn != nil {
		return m.MarkVerifiedFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			user.Verified = true
			user.VerificationToken = nil
			return nil
		}
	}

	return store.ErrUserNotFound
}

// UpdateAvatarURL implements the UserStore interface.
func (m *MockUserStore) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	if m.UpdateAvatarURLFn != nil {
		return m.UpdateAvatarURLFn(ctx, id, avatarURL)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			user.AvatarURL = avatarURL
			return nil
		}
	}

	return store.ErrUserNotFound
}
