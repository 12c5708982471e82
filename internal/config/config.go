package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Config is the server configuration, read from CHESS_* environment variables.
type Config struct {
	Addr                string        `env:"ADDR" envDefault:":3000"`
	AllowedOrigins      []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	ClockTime           time.Duration `env:"CLOCK_TIME" envDefault:"10m"`
	MatchmakingInterval time.Duration `env:"MATCHMAKING_INTERVAL" envDefault:"1s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: "CHESS_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.ClockTime <= 0 {
		return Config{}, fmt.Errorf("clock time must be positive, got %s", cfg.ClockTime)
	}
	if cfg.MatchmakingInterval <= 0 {
		return Config{}, fmt.Errorf("matchmaking interval must be positive, got %s", cfg.MatchmakingInterval)
	}
	return cfg, nil
}

// Level parses LogLevel for logrus.
func (c Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(strings.TrimSpace(c.LogLevel))
}

// CORSOrigins joins the allowed origins the way fiber's cors middleware expects.
func (c Config) CORSOrigins() string {
	return strings.Join(c.AllowedOrigins, ", ")
}
