package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/booking")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadRequiredVars(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")

	t.Setenv("DB_DSN", "postgres://localhost:5432/booking")
	t.Setenv("JWT_SECRET", "")

	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/booking")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1h")
	t.Setenv("BCRYPT_COST", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/booking")
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("JWT_ACCESS_TOKEN_TTL", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_ACCESS_TOKEN_TTL")

	t.Setenv("JWT_ACCESS_TOKEN_TTL", "15m")
	t.Setenv("BCRYPT_COST", "high")
	_, err = Load()
	assert.ErrorContains(t, err, "BCRYPT_COST")
}
