package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing. The default
// behavior issues predictable "token-for-<uuid>" strings and accepts
// only tokens it issued.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	mu     sync.Mutex
	issued map[string]uuid.UUID
}

// NewMockJWTService creates a new mock with initialized defaults.
func NewMockJWTService() *MockJWTService {
	return &MockJWTService{
		issued: make(map[string]uuid.UUID),
	}
}

// GenerateToken implements the JWTService interface.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}

	token := "token-for-" + userID.String()

	m.mu.Lock()
	m.issued[token] = userID
	m.mu.Unlock()

	return token, nil
}

// ValidateToken implements the JWTService interface.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}

	m.mu.Lock()
	userID, ok := m.issued[tokenString]
	m.mu.Unlock()

	if !ok {
		return nil, auth.ErrInvalidToken
	}

	return &auth.Claims{UserID: userID, Subject: userID.String()}, nil
}

// MockPasswordHasher implements auth.PasswordHasher for testing without
// paying the bcrypt cost.
type MockPasswordHasher struct {
	HashFn func(password string) (string, error)
}

// Hash implements the PasswordHasher interface. The default prefixes the
// password so MockPasswordVerifier can check it.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

// Compare implements the PasswordVerifier interface. The default accepts
// hashes produced by MockPasswordHasher.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != "hashed:"+password {
		return errMismatchedPassword
	}
	return nil
}

var errMismatchedPassword = errors.New("password does not match hash")
