// Package main implements the entry point for the contacts API server,
// which manages per-user phone-book collections behind JWT-authenticated
// HTTP endpoints.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/contacts-api/internal/config"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/platform/postgres/migrations"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up|down|status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, wires the application together, and either
// executes a one-off migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"mail_enabled", cfg.Mail.Enabled)

	db, err := setupDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database connection", "error", err)
		}
	}()

	if migrateCmd != "" {
		return runMigrationCommand(db, migrateCmd, log)
	}

	// Pending migrations are applied on every start so the schema never
	// trails the binary.
	if err := migrations.Up(db); err != nil {
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(context.Background())
}

func runMigrationCommand(db *sql.DB, command string, log *slog.Logger) error {
	log.Info("running migration command", "command", command)

	switch command {
	case "up":
		return migrations.Up(db)
	case "down":
		return migrations.Down(db)
	case "status":
		return migrations.Status(db)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
