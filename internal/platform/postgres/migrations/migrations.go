// Package migrations embeds the SQL schema migrations and runs them
// through goose. Embedding keeps the binary self-contained so deployments
// do not need the migration files on disk.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedded embed.FS

func setup() error {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// Up applies all pending migrations.
func Up(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Status prints the migration status to the goose logger.
func Status(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.Status(db, "."); err != nil {
		return fmt.Errorf("failed to report migration status: %w", err)
	}
	return nil
}
