package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/basta.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// BaseURL is used to build join links for the QR endpoint.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// OpenAIKey enables the AI validation oracle. Empty means the server
	// runs in degraded mode with structural checks only.
	OpenAIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OracleTimeout time.Duration `env:"ORACLE_TIMEOUT" envDefault:"5s"`

	// Round policy. These were hardcoded in earlier revisions; keep them
	// tunable so operators can adjust pacing without a redeploy.
	MinStopSeconds  int           `env:"MIN_STOP_SECONDS" envDefault:"30"`
	GraceSeconds    int           `env:"GRACE_SECONDS" envDefault:"5"`
	TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	ExcludedLetters string        `env:"EXCLUDED_LETTERS" envDefault:"KQWXYZÑ"`

	// AdminPassword is a bcrypt hash. Empty disables the admin surface.
	AdminPassword string `env:"ADMIN_PASSWORD_HASH"`
}

func (c *Config) MinStopTime() time.Duration {
	return time.Duration(c.MinStopSeconds) * time.Second
}

func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
