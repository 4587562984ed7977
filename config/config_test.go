package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CacheSQL, cfg.CacheType)
	assert.Equal(t, "123456", cfg.DefaultPassword)
	assert.Equal(t, "haininh1", cfg.AdminMasterPassword)
	assert.True(t, cfg.AdminMasterEnabled)
	assert.Equal(t, 6, cfg.MinPasswordLength)
	assert.Equal(t, 50, cfg.MaxPasswordLength)
	assert.Equal(t, 50, cfg.SecurityLogLimit)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("SALESOPS_PORT", "9090")
	t.Setenv("SALESOPS_SESSION_TTL", "2h")
	t.Setenv("SALESOPS_SECURITY_LOG_LIMIT", "10")
	t.Setenv("SALESOPS_ADMIN_MASTER_ENABLED", "false")

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.SecurityLogLimit)
	assert.False(t, cfg.AdminMasterEnabled)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SALESOPS_PORT", "9090")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	command := fs.String("command", "start", "")

	cfg, err := Load(fs, []string{"-command", "login", "-port", "7070", "-cache", "redis"})
	require.NoError(t, err)

	assert.Equal(t, "login", *command)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, CacheRedis, cfg.CacheType)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SALESOPS_DOTENV_CHECK_PORT=1\nSALESOPS_JWT_SECRET=from-file\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SALESOPS_DOTENV_CHECK_PORT")
		os.Unsetenv("SALESOPS_JWT_SECRET")
	})

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil, path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("SALESOPS_BCRYPT_COST", "ten")

	_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SALESOPS_BCRYPT_COST")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown cache", func(c *Config) { c.CacheType = "memcached" }},
		{"inverted lengths", func(c *Config) { c.MinPasswordLength, c.MaxPasswordLength = 10, 5 }},
		{"empty default password", func(c *Config) { c.DefaultPassword = "" }},
		{"empty jwt secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero log limit", func(c *Config) { c.SecurityLogLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
