package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	Env           string        `env:"APP_ENV" envDefault:"production"`
	TickInterval  time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	OTLPEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func (c Config) Development() bool { return c.Env == "development" }

// Load reads the given .env files (missing files are skipped) and then parses
// the process environment. Variables already set win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TickInterval <= 0 {
		return Config{}, fmt.Errorf("parse env: TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	return cfg, nil
}
