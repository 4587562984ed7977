package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SALESOPS_"

// loadDotEnv reads the given .env files into the process environment.
// Variables already set win over file values; missing files are ignored.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// applyEnv overlays SALESOPS_* variables onto cfg.
func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	str("PORT", &cfg.Port)
	str("DATABASE_PATH", &cfg.DatabasePath)
	str("CACHE_TYPE", &cfg.CacheType)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("DEFAULT_PASSWORD", &cfg.DefaultPassword)
	str("ADMIN_MASTER_PASSWORD", &cfg.AdminMasterPassword)
	str("SERVER_URL", &cfg.ServerURL)
	str("SESSION_FILE", &cfg.SessionFile)

	ints := []struct {
		key string
		dst *int
	}{
		{"REDIS_DB", &cfg.RedisDB},
		{"BCRYPT_COST", &cfg.BcryptCost},
		{"MIN_PASSWORD_LENGTH", &cfg.MinPasswordLength},
		{"MAX_PASSWORD_LENGTH", &cfg.MaxPasswordLength},
		{"SECURITY_LOG_LIMIT", &cfg.SecurityLogLimit},
	}
	for _, i := range ints {
		v, ok := os.LookupEnv(envPrefix + i.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, i.key, err)
		}
		*i.dst = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SESSION_TTL", &cfg.SessionTTL},
		{"CLIENT_TIMEOUT", &cfg.ClientTimeout},
	}
	for _, d := range durations {
		v, ok := os.LookupEnv(envPrefix + d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := os.LookupEnv(envPrefix + "ADMIN_MASTER_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sADMIN_MASTER_ENABLED: %w", envPrefix, err)
		}
		cfg.AdminMasterEnabled = b
	}

	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".salesops-session.json"
	}
	return filepath.Join(dir, "salesops", "session.json")
}
