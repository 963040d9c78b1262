package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MCPE_INST_ID", "123456")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("INTERNAL_API_SECRET", "internal-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123456", cfg.MCPE.InstID)
	assert.Equal(t, "https://secure.metacharge.com/mcpe/corporate", cfg.MCPE.URL)
	assert.Equal(t, EnvironmentSandbox, cfg.MCPE.Environment)
	assert.Equal(t, 1, cfg.MCPE.TestMode)
	assert.Equal(t, 30*time.Second, cfg.MCPE.Timeout)
	assert.True(t, cfg.MCPE.BreakerEnabled)
	assert.Equal(t, "GBP", cfg.Payment.DefaultCurrency)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "mcpe-gateway-api", cfg.Auth.JWTIssuer)
	assert.Equal(t, zerolog.InfoLevel, cfg.Log.Level)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("MCPE_INST_ID", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("INTERNAL_API_SECRET", "x")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "MCPE_INST_ID")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_TestMode(t *testing.T) {
	setRequired(t)

	t.Setenv("MCPE_ENVIRONMENT", "production")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MCPE.TestMode)

	t.Setenv("MCPE_TEST_MODE", "2")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MCPE.TestMode)

	t.Setenv("MCPE_TEST_MODE", "7")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"MCPE_ENVIRONMENT":     "staging",
		"MCPE_TIMEOUT":         "soon",
		"MCPE_BREAKER_ENABLED": "maybe",
		"LOG_LEVEL":            "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MCPE_ACCOUNT_ID", "42")
	t.Setenv("MCPE_DEFAULT_CURRENCY", "eur")
	t.Setenv("MCPE_TIMEOUT", "5s")
	t.Setenv("MCPE_BREAKER_ENABLED", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.MCPE.AccountID)
	assert.Equal(t, "EUR", cfg.Payment.DefaultCurrency)
	assert.Equal(t, 5*time.Second, cfg.MCPE.Timeout)
	assert.False(t, cfg.MCPE.BreakerEnabled)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, zerolog.DebugLevel, cfg.Log.Level)
}
