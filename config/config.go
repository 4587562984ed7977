// Package config holds runtime settings for the auth service and its CLI client.
// Values are resolved in order: defaults, .env file, SALESOPS_* environment
// variables, command-line flags.
package config

import (
	"time"
)

// Config holds runtime settings.
//
// Fields:
//   - Port: HTTP listen port.
//   - DatabasePath: SQLite DSN (file path plus optional query options).
//   - CacheType: where sessions live, "sql" (the database) or "redis" (go-utils cache).
//   - DefaultPassword: shared initial secret every unprovisioned user logs in with.
//   - AdminMasterPassword: support credential that authenticates as any user.
//   - SecurityLogLimit: maximum events returned by the security log read-back.
//   - ServerURL / ClientTimeout / SessionFile: used by the CLI client only.
type Config struct {
	Port         string
	DatabasePath string

	CacheType     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	SessionTTL time.Duration

	DefaultPassword     string
	AdminMasterPassword string
	AdminMasterEnabled  bool
	BcryptCost          int

	MinPasswordLength int
	MaxPasswordLength int
	SecurityLogLimit  int

	ServerURL     string
	ClientTimeout time.Duration
	SessionFile   string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets here are the well-known seed values and must be overridden outside dev.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.DatabasePath = "./salesops_auth.db?_busy_timeout=5000&_foreign_keys=on"
	c.CacheType = CacheSQL
	c.RedisAddr = "localhost:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.JWTSecret = "dev-secret-change-me"
	c.SessionTTL = 24 * time.Hour
	c.DefaultPassword = "123456"
	c.AdminMasterPassword = "haininh1"
	c.AdminMasterEnabled = true
	c.BcryptCost = 10
	c.MinPasswordLength = 6
	c.MaxPasswordLength = 50
	c.SecurityLogLimit = 50
	c.ServerURL = "http://localhost:8080"
	c.ClientTimeout = 10 * time.Second
	c.SessionFile = defaultSessionFile()
}

const (
	CacheSQL   = "sql"
	CacheRedis = "redis"
)

// Default returns a Config with defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	return cfg
}
