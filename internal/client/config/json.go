package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the non-zero values found in the JSON file at
// path. An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
