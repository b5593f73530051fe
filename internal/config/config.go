package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every tunable the game exposes. Gameplay values
// (countdown, hint penalty, staleness window) have named defaults so the
// behavioral contract stays stable while deployments tune them.
type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/escaperoom.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"web/dist"`

	// RoomsPath points at a JSON room list used to seed an empty database.
	// Unset means the embedded default rooms are used instead.
	RoomsPath string `env:"ROOMS_PATH"`

	// VerifyURL switches answer checking to a remote verifier endpoint.
	// Empty means answers are checked in-process.
	VerifyURL string `env:"VERIFY_URL"`

	// AdminEmail and AdminPassword seed an admin account at startup when
	// both are set.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	CountdownMinutes int           `env:"COUNTDOWN_MINUTES" envDefault:"25"`
	HintPenalty      time.Duration `env:"HINT_PENALTY" envDefault:"1m"`
	TickInterval     time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	SessionMaxAge    time.Duration `env:"SESSION_MAX_AGE" envDefault:"1h"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.CountdownMinutes <= 0 {
		return nil, fmt.Errorf("COUNTDOWN_MINUTES must be positive, got %d", cfg.CountdownMinutes)
	}
	return &cfg, nil
}

// Countdown returns the total mission time.
func (c *Config) Countdown() time.Duration {
	return time.Duration(c.CountdownMinutes) * time.Minute
}
