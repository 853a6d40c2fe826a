package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the process configuration, parsed from SEMEINIK_* environment
// variables. JWTSecret must stay stable across restarts or every outstanding
// access token becomes invalid.
type Config struct {
	Port          string `env:"SEMEINIK_PORT" envDefault:"8080"`
	DBPath        string `env:"SEMEINIK_DB_PATH" envDefault:"semeinik.db"`
	BaseURL       string `env:"SEMEINIK_BASE_URL" envDefault:"http://localhost:8080"`
	JWTSecret     string `env:"SEMEINIK_JWT_SECRET,required,notEmpty"`
	LogLevel      string `env:"SEMEINIK_LOG_LEVEL" envDefault:"info"`
	PostmarkToken string `env:"SEMEINIK_POSTMARK_TOKEN"`
	EmailFrom     string `env:"SEMEINIK_EMAIL_FROM" envDefault:"noreply@semeinik.app"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
