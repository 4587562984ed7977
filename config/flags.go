package config

import (
	"errors"
	"flag"
	"fmt"
)

// bindFlags registers config flags on fs with the current values as defaults.
func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.CacheType, "cache", cfg.CacheType, "session store: sql or redis")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "HMAC secret for session tokens")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "session lifetime")
	fs.IntVar(&cfg.SecurityLogLimit, "security-log-limit", cfg.SecurityLogLimit, "max security events returned per read")
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "auth server base URL (client)")
	fs.DurationVar(&cfg.ClientTimeout, "timeout", cfg.ClientTimeout, "client request timeout")
	fs.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "where the client keeps its session")
}

// Load builds a Config from defaults, the .env files, the environment and
// finally args parsed on fs. Flags the caller already defined on fs (for
// example -command) are parsed in the same pass.
func Load(fs *flag.FlagSet, args []string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	bindFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that would make the service misbehave.
func (c *Config) Validate() error {
	if c.CacheType != CacheSQL && c.CacheType != CacheRedis {
		return fmt.Errorf("unknown cache type %q", c.CacheType)
	}
	if c.MinPasswordLength <= 0 || c.MaxPasswordLength < c.MinPasswordLength {
		return fmt.Errorf("invalid password length bounds %d..%d", c.MinPasswordLength, c.MaxPasswordLength)
	}
	if c.DefaultPassword == "" {
		return errors.New("default password must not be empty")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret must not be empty")
	}
	if c.SecurityLogLimit <= 0 {
		return errors.New("security log limit must be positive")
	}
	return nil
}
