package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvDB       = "LOTOFACIL_DB"
	EnvAPIURL   = "LOTOFACIL_API_URL"
	EnvLogLevel = "LOTOFACIL_LOG_LEVEL"
)

// LoadEnv loads dotenv files that exist. Variables already set in the
// process environment are kept.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to stat env file: %w", err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides file values with environment variables.
func ApplyEnv(cfg *FileConfig) {
	if v, ok := lookup(EnvDB); ok {
		cfg.History.DB = &v
	}
	if v, ok := lookup(EnvAPIURL); ok {
		cfg.Sync.APIURL = &v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = &v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
