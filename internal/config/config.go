// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings.
type Config struct {
	Backend  string `env:"WIGHT_BACKEND" envDefault:"sqlite"`
	DBPath   string `env:"WIGHT_DB"`
	DSN      string `env:"WIGHT_DSN"`
	Addr     string `env:"WIGHT_ADDR" envDefault:":8080"`
	LogLevel string `env:"WIGHT_LOG_LEVEL" envDefault:"info"`

	MaxMemories      int           `env:"WIGHT_MAX_MEMORIES" envDefault:"500"`
	DecayInterval    time.Duration `env:"WIGHT_DECAY_INTERVAL" envDefault:"10s"`
	DecayProbability float64       `env:"WIGHT_DECAY_PROBABILITY" envDefault:"0.1"`

	RateLimit float64 `env:"WIGHT_RATE_LIMIT" envDefault:"5"`
	RateBurst int     `env:"WIGHT_RATE_BURST" envDefault:"10"`
}

// Load reads the given env files, or ./.env when none are given, and then
// the environment. A missing ./.env is ignored; a missing named file is an
// error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath(cfg.Backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxMemories <= 0 {
		return fmt.Errorf("WIGHT_MAX_MEMORIES must be positive, got %d", c.MaxMemories)
	}
	if c.DecayInterval <= 0 {
		return fmt.Errorf("WIGHT_DECAY_INTERVAL must be positive, got %s", c.DecayInterval)
	}
	if c.DecayProbability <= 0 || c.DecayProbability > 1 {
		return fmt.Errorf("WIGHT_DECAY_PROBABILITY must be within (0, 1], got %v", c.DecayProbability)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("WIGHT_RATE_LIMIT and WIGHT_RATE_BURST must be positive")
	}
	return nil
}

// DefaultDBPath returns the storage location under ~/.wight for backend.
func DefaultDBPath(backend string) string {
	home, _ := os.UserHomeDir()
	dir := filepath.Join(home, ".wight")
	switch backend {
	case "badger":
		return filepath.Join(dir, "badger")
	case "file":
		return filepath.Join(dir, "wight.json")
	default:
		return filepath.Join(dir, "wight.db")
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
