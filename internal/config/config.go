package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v10"
)

// Config carries the filesystem locations and UI switches for one run.
// Everything is overridable through PADLOCK_* environment variables; the
// key-archive directory is always an explicit value handed to the crypto
// layer, never a package-level default.
type Config struct {
	DataDir string `env:"PADLOCK_DATA_DIR"`
	KeyDir  string `env:"PADLOCK_KEY_DIR"`
	NoColor bool   `env:"PADLOCK_NO_COLOR"`
}

// Load parses the environment and fills in defaults relative to DataDir.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "padlock-data"
	}
	if cfg.KeyDir == "" {
		cfg.KeyDir = filepath.Join(cfg.DataDir, "keys")
	}
	return cfg, nil
}

// DatabasePath resolves the SQLite file location.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "padlock.db")
}
