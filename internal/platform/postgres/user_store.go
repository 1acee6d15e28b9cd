package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

const userColumns = `id, email, hashed_password, avatar_url, subscription,
	verified, verification_token, session_token, created_at, updated_at`

// Create implements store.UserStore.Create
// It saves a new user, mapping a unique violation on the email column to
// store.ErrEmailExists.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, email, hashed_password, avatar_url, subscription,
			verified, verification_token, session_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.AvatarURL,
		user.Subscription,
		user.Verified,
		user.VerificationToken,
		user.SessionToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, email))
}

// GetByVerificationToken implements store.UserStore.GetByVerificationToken
// A consumed token has been cleared to NULL and therefore never matches.
func (s *PostgresUserStore) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, token))
}

func (s *PostgresUserStore) scanUser(ctx context.Context, row *sql.Row) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	var subscription string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.AvatarURL,
		&subscription,
		&user.Verified,
		&user.VerificationToken,
		&user.SessionToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to scan user row", slog.String("error", err.Error()))
		return nil, err
	}

	user.Subscription = domain.Subscription(subscription)
	return &user, nil
}

// UpdateSessionToken implements store.UserStore.UpdateSessionToken
// Passing a nil token clears the session (logout).
func (s *PostgresUserStore) UpdateSessionToken(ctx context.Context, id uuid.UUID, token *string) error {
	query := `
		UPDATE users
		SET session_token = $1, updated_at = $2
		WHERE id = $3
	`
	return s.execExpectingUser(ctx, "update session token", query, token, time.Now().UTC(), id)
}

// MarkVerified implements store.UserStore.MarkVerified
// It sets the verified flag and clears the one-time verification token.
func (s *PostgresUserStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET verified = TRUE, verification_token = NULL, updated_at = $1
		WHERE id = $2
	`
	return s.execExpectingUser(ctx, "mark verified", query, time.Now().UTC(), id)
}

// UpdateAvatarURL implements store.UserStore.UpdateAvatarURL
func (s *PostgresUserStore) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	query := `
		UPDATE users
		SET avatar_url = $1, updated_at = $2
		WHERE id = $3
	`
	return s.execExpectingUser(ctx, "update avatar URL", query, avatarURL, time.Now().UTC(), id)
}

// execExpectingUser runs an UPDATE that must affect exactly one user row and
// maps zero affected rows to store.ErrUserNotFound.
func (s *PostgresUserStore) execExpectingUser(ctx context.Context, op, query string, args ...any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to "+op, slog.String("error", err.Error()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", slog.String("error", err.Error()))
		return err
	}

	if rowsAffected == 0 {
		return store.ErrUserNotFound
	}

	return nil
}
