package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Port          int    `envconfig:"PORT" default:"8080"`
		AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`
	}

	Store struct {
		// Empty means the in-memory session store.
		DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:""`
		Password string `envconfig:"REDIS_PASSWORD" default:""`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Extraction struct {
		URL      string        `envconfig:"EXTRACTION_URL" default:""`
		CacheTTL time.Duration `envconfig:"EXTRACTION_CACHE_TTL" default:"15m"`
	}

	Business struct {
		DefaultSalesSource string `envconfig:"DEFAULT_SALES_SOURCE" default:"WhatsApp"`
		Currency           string `envconfig:"CURRENCY" default:"USD"`
	}

	Server struct {
		ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
		WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
