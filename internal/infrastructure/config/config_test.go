package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 6, cfg.Otp.Digits)
		assert.Equal(t, 5*time.Minute, cfg.Otp.TTL)
		assert.Equal(t, 30*time.Minute, cfg.Cache.CategoryTTL)
		assert.Equal(t, "/graphql", cfg.GraphQL.Path)
		assert.False(t, cfg.Printing.Enabled)
		assert.Equal(t, "A4", cfg.Printing.PaperSize)
		assert.Equal(t, 30*time.Second, cfg.Printing.Timeout)
	})

	t.Run("loads values from environment variables with STOREFRONT prefix", func(t *testing.T) {
		t.Setenv("STOREFRONT_APP_NAME", "test-app")
		t.Setenv("STOREFRONT_APP_PORT", "9000")
		t.Setenv("STOREFRONT_DATABASE_DRIVER", "sqlite")
		t.Setenv("STOREFRONT_DATABASE_HOST", "testdb.local")
		t.Setenv("STOREFRONT_DATABASE_PORT", "5433")
		t.Setenv("STOREFRONT_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("STOREFRONT_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("STOREFRONT_OTP_TTL", "2m")
		t.Setenv("STOREFRONT_REDIS_ENABLED", "true")
		t.Setenv("STOREFRONT_PRINTING_PAPER_SIZE", "RECEIPT_80MM")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 2*time.Minute, cfg.Otp.TTL)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, "RECEIPT_80MM", cfg.Printing.PaperSize)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("STOREFRONT_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("production requires a strong secret", func(t *testing.T) {
		t.Setenv("STOREFRONT_APP_ENV", "production")
		t.Setenv("STOREFRONT_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("idle connections cannot exceed open connections", func(t *testing.T) {
		t.Setenv("STOREFRONT_DATABASE_MAX_OPEN_CONNS", "2")
		t.Setenv("STOREFRONT_DATABASE_MAX_IDLE_CONNS", "3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "app",
		Password: "p@ss word",
		DBName:   "storefront",
		SSLMode:  "require",
	}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/storefront?sslmode=require", d.DSN())
}
