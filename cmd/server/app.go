package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/contacts-api/internal/config"
	"github.com/phrazzld/contacts-api/internal/mail"
	"github.com/phrazzld/contacts-api/internal/platform/avatar"
	"github.com/phrazzld/contacts-api/internal/platform/mailgun"
	"github.com/phrazzld/contacts-api/internal/platform/postgres"
	"github.com/phrazzld/contacts-api/internal/service/auth"
	"github.com/phrazzld/contacts-api/internal/store"
	"github.com/phrazzld/contacts-api/internal/task"
)

// application holds the shared application dependencies so wiring happens
// in one place and cleanup runs in one place on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	contactStore store.ContactStore

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	mailer          mail.Mailer
	avatarProcessor avatar.Processor
	taskRunner      *task.Runner
}

// newApplication creates an application instance with all dependencies
// initialized and the task runner started.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher()
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, log)
	app.contactStore = postgres.NewPostgresContactStore(db, log)

	app.avatarProcessor, err = avatar.NewFileProcessor(
		cfg.Storage.TmpDir,
		cfg.Storage.PublicDir,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize avatar processor: %w", err)
	}

	if cfg.Mail.Enabled {
		app.mailer = mailgun.New(cfg.Mail, log)
		log.Info("mailgun mailer initialized", "domain", cfg.Mail.Domain)
	} else {
		app.mailer = &mail.LogMailer{BaseURL: cfg.Mail.BaseURL, Logger: log}
		log.Info("outbound mail disabled, verification links will be logged")
	}

	app.taskRunner = setupTaskRunner(cfg.Task, log)

	log.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupTaskRunner creates and starts the background task processor used
// for verification email dispatch.
func setupTaskRunner(cfg config.TaskConfig, log *slog.Logger) *task.Runner {
	runnerCfg := task.DefaultRunnerConfig()
	if cfg.WorkerCount > 0 {
		runnerCfg.WorkerCount = cfg.WorkerCount
	}
	if cfg.QueueSize > 0 {
		runnerCfg.QueueSize = cfg.QueueSize
	}

	runner := task.NewRunner(runnerCfg, log)
	runner.SetErrorHandler(func(t task.Task, err error) {
		log.Error("background task failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
	})
	runner.Start()
	return runner
}

// cleanup releases application resources after the HTTP server has drained.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
}
