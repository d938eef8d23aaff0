package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UNLOCK_TOKEN_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "data/staff.db", cfg.Database.Path)
	assert.Equal(t, 5000, cfg.Database.BusyTimeoutMS)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Security.UnlockRequired)
	assert.Equal(t, 30*time.Minute, cfg.Security.UnlockTokenTTL)
	assert.Equal(t, "0 55 23 * * *", cfg.Jobs.DailyReportSchedule)
	assert.Equal(t, "0 0 * * * *", cfg.Jobs.UnlockCleanupSchedule)
	assert.Equal(t, 5, cfg.Security.MaxUnlockAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Security.UnlockAttemptWindow)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_PATH", "/tmp/ledger.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local,http://b.local")
	t.Setenv("UNLOCK_REQUIRED", "false")
	t.Setenv("UNLOCK_TOKEN_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Security.UnlockRequired)
	assert.Equal(t, 5*time.Minute, cfg.Security.UnlockTokenTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing secret", func(c *Config) { c.Security.UnlockTokenSecret = "" }, "UNLOCK_TOKEN_SECRET"},
		{"missing path", func(c *Config) { c.Database.Path = "" }, "DATABASE_PATH"},
		{"zero ttl", func(c *Config) { c.Security.UnlockTokenTTL = 0 }, "UNLOCK_TOKEN_TTL"},
		{"negative attempts", func(c *Config) { c.Security.MaxUnlockAttempts = -1 }, "MAX_UNLOCK_ATTEMPTS"},
		{"attempts without window", func(c *Config) {
			c.Security.MaxUnlockAttempts = 3
			c.Security.UnlockAttemptWindow = 0
		}, "UNLOCK_ATTEMPT_WINDOW"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Path: "x.db"},
				Security: SecurityConfig{UnlockRequired: true, UnlockTokenSecret: "s", UnlockTokenTTL: time.Minute},
			}
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
