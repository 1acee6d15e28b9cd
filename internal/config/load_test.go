package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// secret32 satisfies the 32-character minimum for the JWT secret.
const secret32 = "0123456789abcdef0123456789abcdef"

func TestLoad(t *testing.T) {
	t.Run("loads from environment with defaults", func(t *testing.T) {
		t.Setenv("CONTACTS_DATABASE_URL", "postgres://localhost:5432/contacts")
		t.Setenv("CONTACTS_AUTH_JWT_SECRET", secret32)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, "postgres://localhost:5432/contacts", cfg.Database.URL)
		assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
		assert.False(t, cfg.Mail.Enabled)
		assert.Equal(t, "./public", cfg.Storage.PublicDir)
		assert.Equal(t, "./tmp", cfg.Storage.TmpDir)
		assert.Equal(t, 2, cfg.Task.WorkerCount)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("CONTACTS_DATABASE_URL", "postgres://localhost:5432/contacts")
		t.Setenv("CONTACTS_AUTH_JWT_SECRET", secret32)
		t.Setenv("CONTACTS_SERVER_PORT", "3000")
		t.Setenv("CONTACTS_SERVER_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
	})

	t.Run("missing database URL fails validation", func(t *testing.T) {
		t.Setenv("CONTACTS_AUTH_JWT_SECRET", secret32)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("short JWT secret fails validation", func(t *testing.T) {
		t.Setenv("CONTACTS_DATABASE_URL", "postgres://localhost:5432/contacts")
		t.Setenv("CONTACTS_AUTH_JWT_SECRET", "too-short")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		t.Setenv("CONTACTS_DATABASE_URL", "postgres://localhost:5432/contacts")
		t.Setenv("CONTACTS_AUTH_JWT_SECRET", secret32)
		t.Setenv("CONTACTS_SERVER_LOG_LEVEL", "verbose")

		_, err := Load()
		require.Error(t, err)
	})
}
