// Package config loads and validates application configuration from the
// environment and optional config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
	Task     TaskConfig     `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// MailConfig contains settings for outbound verification email.
// When Enabled is false the application logs the verification link instead
// of dispatching mail, which keeps local development workable without
// Mailgun credentials.
type MailConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Domain  string `mapstructure:"domain"  validate:"required_if=Enabled true"`
	APIKey  string `mapstructure:"api_key" validate:"required_if=Enabled true"`
	Sender  string `mapstructure:"sender"`
	BaseURL string `mapstructure:"base_url"`
}

// StorageConfig contains settings for avatar file storage.
type StorageConfig struct {
	// PublicDir is the directory served as static assets; processed avatars
	// land under PublicDir/avatars.
	PublicDir string `mapstructure:"public_dir" validate:"required"`

	// TmpDir holds uploaded files while they are being processed.
	TmpDir string `mapstructure:"tmp_dir" validate:"required"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count"`
	QueueSize   int `mapstructure:"queue_size"`
}
