package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the todoctl CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - TokenFile: where the signed-in token pair is kept between runs.
//   - RequestTimeout: upper bound for a single command's round trip.
type Config struct {
	ServerEndpointAddr string
	TokenFile          string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.TokenFile = defaultTokenFile()
	c.RequestTimeout = 10 * time.Second
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".todoctl-token.json"
	}
	return filepath.Join(dir, "todoctl", "token.json")
}

// LoadConfig constructs a Config from defaults overlaid with the JSON file at
// path, if path is not empty. Command-line flags are applied by the caller.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
