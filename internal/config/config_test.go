package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("DATABASE_DSN", "postgres://u:p@db:5432/chat?sslmode=disable")

	cfg, err := Load()
	req.NoError(err)
	req.Equal(8080, cfg.Server.Port)
	req.Equal(4000, cfg.Chat.MaxMessageLength)
	req.Equal(50, cfg.Chat.DefaultPageSize)
	req.True(cfg.Database.AutoMigrate)
	req.Equal(10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	req := require.New(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CHAT_MAX_MESSAGE_LENGTH", "280")
	t.Setenv("DATABASE_AUTO_MIGRATE", "false")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	req.NoError(err)
	req.Equal(9090, cfg.Server.Port)
	req.Equal(280, cfg.Chat.MaxMessageLength)
	req.False(cfg.Database.AutoMigrate)
	req.Equal(3*time.Second, cfg.Server.ReadTimeout)
	req.Equal(0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	t.Run("rejects inverted page sizes", func(t *testing.T) {
		t.Setenv("CHAT_DEFAULT_PAGE_SIZE", "100")
		t.Setenv("CHAT_MAX_PAGE_SIZE", "10")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("requires internal token in production", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("INTERNAL_TOKEN", "")
		_, err := Load()
		require.ErrorContains(t, err, "INTERNAL_TOKEN")
	})

	t.Run("rejects default JWT secret in production", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("INTERNAL_TOKEN", "internal")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		require.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("accepts production with real secrets", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("INTERNAL_TOKEN", "internal")
		t.Setenv("JWT_SECRET", "a-real-shared-secret")
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "a-real-shared-secret", cfg.JWT.Secret)
	})

	t.Run("default JWT secret is fine outside production", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "development")
		t.Setenv("JWT_SECRET", "")
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, defaultJWTSecret, cfg.JWT.Secret)
	})
}
