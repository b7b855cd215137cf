package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the gophauth CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the account service gRPC endpoint.
//   - RequestTimeout: deadline applied to every call.
type Config struct {
	ServerEndpointAddr string        `env:"GOPHAUTH_SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"GOPHAUTH_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// Load constructs a Config, applies defaults, then overlays values from the
// JSON file at path (if not empty) and the environment. Command-line flags
// are applied by the caller.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
