package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the server configuration. Values come from the environment (a
// .env file is loaded into it first) and command-line flags override them.
type Config struct {
	Host  string `env:"KLONDIKE_HOST" envDefault:"localhost"`
	Port  int    `env:"KLONDIKE_PORT" envDefault:"8080"`
	Debug bool   `env:"KLONDIKE_DEBUG" envDefault:"false"`

	// Seed fixes the deal for every game created without an explicit seed.
	Seed *int64 `env:"KLONDIKE_SEED"`

	SessionTTL      time.Duration `env:"KLONDIKE_SESSION_TTL" envDefault:"4h"`
	CleanupInterval time.Duration `env:"KLONDIKE_CLEANUP_INTERVAL" envDefault:"10m"`

	// OTelEndpoint enables OTLP/HTTP trace export when set.
	OTelEndpoint string `env:"KLONDIKE_OTEL_ENDPOINT"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED" envDefault:"false"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and cross-field requirements.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: session TTL must be positive, got %s", ErrInvalidConfig, c.SessionTTL)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup interval must be positive, got %s", ErrInvalidConfig, c.CleanupInterval)
	}
	if c.NgrokEnabled && c.NgrokAuthToken == "" {
		return fmt.Errorf("%w: NGROK_AUTHTOKEN is required when ngrok is enabled", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns the local HTTP URL of the server.
func (c Config) BaseURL() string {
	return "http://" + c.Addr()
}
