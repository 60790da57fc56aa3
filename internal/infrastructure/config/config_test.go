package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CONTROLROOM_APP_NAME":        os.Getenv("CONTROLROOM_APP_NAME"),
		"CONTROLROOM_APP_ENV":         os.Getenv("CONTROLROOM_APP_ENV"),
		"CONTROLROOM_APP_PORT":        os.Getenv("CONTROLROOM_APP_PORT"),
		"CONTROLROOM_DATABASE_HOST":   os.Getenv("CONTROLROOM_DATABASE_HOST"),
		"CONTROLROOM_DATABASE_PORT":   os.Getenv("CONTROLROOM_DATABASE_PORT"),
		"CONTROLROOM_DATABASE_DBNAME": os.Getenv("CONTROLROOM_DATABASE_DBNAME"),
		"CONTROLROOM_JWT_SECRET":      os.Getenv("CONTROLROOM_JWT_SECRET"),
		"CONTROLROOM_COOKIE_SECURE":   os.Getenv("CONTROLROOM_COOKIE_SECURE"),
		"CONTROLROOM_COOKIE_SECRET":   os.Getenv("CONTROLROOM_COOKIE_SECRET"),
		"CONTROLROOM_COOKIE_SAMESITE": os.Getenv("CONTROLROOM_COOKIE_SAMESITE"),
		"CONTROLROOM_REDIS_HOST":      os.Getenv("CONTROLROOM_REDIS_HOST"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "control-room", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "controlroom", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiration)
		assert.Equal(t, "lax", cfg.Cookie.SameSite)
		assert.Equal(t, 30*24*time.Hour, cfg.Cookie.MaxAge)
		assert.NotEmpty(t, cfg.JWT.Secret)
	})

	t.Run("cookie secret falls back to jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("CONTROLROOM_JWT_SECRET", "a-production-grade-secret-of-32-chars!")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, cfg.JWT.Secret, cfg.Cookie.Secret)

		os.Setenv("CONTROLROOM_COOKIE_SECRET", "dedicated-cookie-signing-secret")
		cfg, err = Load()
		require.NoError(t, err)
		assert.Equal(t, "dedicated-cookie-signing-secret", cfg.Cookie.Secret)
	})

	t.Run("loads values from environment variables", func(t *testing.T) {
		clearEnv()
		os.Setenv("CONTROLROOM_APP_NAME", "test-app")
		os.Setenv("CONTROLROOM_APP_PORT", "9000")
		os.Setenv("CONTROLROOM_DATABASE_HOST", "testdb.local")
		os.Setenv("CONTROLROOM_DATABASE_PORT", "5433")
		os.Setenv("CONTROLROOM_REDIS_HOST", "cache.local")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("CONTROLROOM_APP_ENV", "production")
		os.Setenv("CONTROLROOM_COOKIE_SECURE", "true")

		_, err := Load()
		assert.Error(t, err)

		os.Setenv("CONTROLROOM_JWT_SECRET", "short")
		_, err = Load()
		assert.Error(t, err)

		os.Setenv("CONTROLROOM_JWT_SECRET", "a-production-grade-secret-of-32-chars!")
		_, err = Load()
		assert.NoError(t, err)
	})

	t.Run("production requires secure cookies", func(t *testing.T) {
		clearEnv()
		os.Setenv("CONTROLROOM_APP_ENV", "production")
		os.Setenv("CONTROLROOM_JWT_SECRET", "a-production-grade-secret-of-32-chars!")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects unknown samesite mode", func(t *testing.T) {
		clearEnv()
		os.Setenv("CONTROLROOM_COOKIE_SAMESITE", "bogus")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host: "db.local", Port: 5432,
		User: "app", Password: "pw",
		DBName: "controlroom", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.local port=5432 user=app password=pw dbname=controlroom sslmode=require",
		d.DSN())
}
