package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/geohunt.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// CatalogPath points at a case document to load at startup. Empty means
	// keep whatever case is already stored (or seed the demo case).
	CatalogPath string `env:"CATALOG_PATH"`

	// Operator credentials used to seed the first operator account.
	OperatorName     string `env:"OPERATOR_NAME" envDefault:"operator"`
	OperatorPassword string `env:"OPERATOR_PASSWORD"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
