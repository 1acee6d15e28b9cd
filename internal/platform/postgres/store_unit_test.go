package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/contacts-api/internal/domain"
)

// unreachableDB is a DBTX whose methods must never be called. It lets tests
// prove that validation failures short-circuit before any query runs.
type unreachableDB struct {
	t *testing.T
}

func (u unreachableDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	u.t.Fatal("ExecContext should not be reached")
	return nil, nil
}

func (u unreachableDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	u.t.Fatal("QueryContext should not be reached")
	return nil, nil
}

func (u unreachableDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	u.t.Fatal("QueryRowContext should not be reached")
	return nil
}

func TestNewStores_NilDBPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresUserStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresContactStore(nil, nil) })
}

func TestUserStoreCreate_ValidationShortCircuits(t *testing.T) {
	t.Parallel()

	s := NewPostgresUserStore(unreachableDB{t}, nil)

	// No hashed password and no plaintext password is invalid.
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "a@example.com",
		Subscription: domain.SubscriptionStarter,
	}
	err := s.Create(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrEmptyPassword)
}

func TestContactStoreCreate_ValidationShortCircuits(t *testing.T) {
	t.Parallel()

	s := NewPostgresContactStore(unreachableDB{t}, nil)

	contact := &domain.Contact{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Name:    "", // required
		Email:   "a@example.com",
		Phone:   "123",
	}
	err := s.Create(context.Background(), contact)
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}
