package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/store"
)

// PostgresContactStore implements the store.ContactStore interface
// using a PostgreSQL database as the storage backend.
//
// Every query filters by owner_id, so a contact belonging to another owner
// is indistinguishable from a missing one.
type PostgresContactStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContactStore creates a new PostgreSQL implementation of the ContactStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresContactStore(db store.DBTX, logger *slog.Logger) *PostgresContactStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContactStore{
		db:     db,
		logger: logger.With(slog.String("component", "contact_store")),
	}
}

// Ensure PostgresContactStore implements store.ContactStore interface
var _ store.ContactStore = (*PostgresContactStore)(nil)

const contactColumns = `id, owner_id, name, email, phone, favorite, created_at, updated_at`

// Create implements store.ContactStore.Create
// Returns store.ErrInvalidEntity wrapped if the owner does not exist
// (foreign key violation) and domain validation errors if data is invalid.
func (s *PostgresContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := contact.Validate(); err != nil {
		log.Warn("contact validation failed during create",
			slog.String("error", err.Error()),
			slog.String("contact_id", contact.ID.String()))
		return err
	}

	query := `
		INSERT INTO contacts (id, owner_id, name, email, phone, favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		contact.ID,
		contact.OwnerID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Favorite,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during contact creation",
				slog.String("contact_id", contact.ID.String()),
				slog.String("owner_id", contact.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, contact.OwnerID)
		}

		log.Error("failed to create contact",
			slog.String("error", err.Error()),
			slog.String("contact_id", contact.ID.String()))
		return err
	}

	log.Info("contact created successfully",
		slog.String("contact_id", contact.ID.String()),
		slog.String("owner_id", contact.OwnerID.String()))
	return nil
}

// ListByOwner implements store.ContactStore.ListByOwner
// An owner with no contacts yields an empty slice, not an error.
func (s *PostgresContactStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE owner_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list contacts",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		var contact domain.Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.OwnerID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.Favorite,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		); err != nil {
			log.Error("failed to scan contact row", slog.String("error", err.Error()))
			return nil, err
		}
		contacts = append(contacts, &contact)
	}

	if err := rows.Err(); err != nil {
		log.Error("failed while iterating contact rows", slog.String("error", err.Error()))
		return nil, err
	}

	return contacts, nil
}

// GetByID implements store.ContactStore.GetByID
// Returns store.ErrContactNotFound if the contact is absent or not owned
// by ownerID.
func (s *PostgresContactStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND owner_id = $2
	`
	return s.scanContact(ctx, s.db.QueryRowContext(ctx, query, id, ownerID))
}

// Update implements store.ContactStore.Update
// It applies a partial replace: NULL arguments keep the current column value.
// Returns store.ErrContactNotFound if no owned contact matches.
func (s *PostgresContactStore) Update(
	ctx context.Context,
	id, ownerID uuid.UUID,
	update domain.ContactUpdate,
) (*domain.Contact, error) {
	query := `
		UPDATE contacts
		SET name = COALESCE($1, name),
			email = COALESCE($2, email),
			phone = COALESCE($3, phone),
			updated_at = $4
		WHERE id = $5 AND owner_id = $6
		RETURNING ` + contactColumns
	row := s.db.QueryRowContext(
		ctx,
		query,
		update.Name,
		update.Email,
		update.Phone,
		time.Now().UTC(),
		id,
		ownerID,
	)
	return s.scanContact(ctx, row)
}

// UpdateFavorite implements store.ContactStore.UpdateFavorite
// Returns store.ErrContactNotFound if no owned contact matches.
func (s *PostgresContactStore) UpdateFavorite(
	ctx context.Context,
	id, ownerID uuid.UUID,
	favorite bool,
) (*domain.Contact, error) {
	query := `
		UPDATE contacts
		SET favorite = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
		RETURNING ` + contactColumns
	row := s.db.QueryRowContext(ctx, query, favorite, time.Now().UTC(), id, ownerID)
	return s.scanContact(ctx, row)
}

// Delete implements store.ContactStore.Delete
// Returns store.ErrContactNotFound if no owned contact matches.
func (s *PostgresContactStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM contacts WHERE id = $1 AND owner_id = $2`
	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete contact",
			slog.String("error", err.Error()),
			slog.String("contact_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", slog.String("error", err.Error()))
		return err
	}

	if rowsAffected == 0 {
		return store.ErrContactNotFound
	}

	log.Info("contact deleted",
		slog.String("contact_id", id.String()),
		slog.String("owner_id", ownerID.String()))
	return nil
}

func (s *PostgresContactStore) scanContact(ctx context.Context, row *sql.Row) (*domain.Contact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var contact domain.Contact
	err := row.Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.Favorite,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrContactNotFound
		}
		log.Error("failed to scan contact row", slog.String("error", err.Error()))
		return nil, err
	}

	return &contact, nil
}
