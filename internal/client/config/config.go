package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the gymdesk client.
type Config struct {
	// BackendURL is the scheme://host[:port] of the REST backend.
	BackendURL string
	// StorePath is the sqlite file backing the secure credential store.
	StorePath string
	// StoreSecretFile holds the device secret the store key is derived from.
	// Ignored when StoreSecret is set.
	StoreSecretFile string
	// StoreSecret overrides the device secret (hex is not required).
	StoreSecret string
	// RequestTimeout bounds each HTTP call. Zero leaves the transport default.
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with defaults rooted in the user's home directory.
func (c *Config) LoadDefaults() {
	dir := defaultDataDir()

	c.BackendURL = "http://127.0.0.1:8000"
	c.StorePath = filepath.Join(dir, "store.db")
	c.StoreSecretFile = filepath.Join(dir, "store.key")
	c.StoreSecret = ""
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config from defaults, .env, environment, JSON and
// the given command-line arguments (usually os.Args[1:]). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".gymdesk"
	}
	return filepath.Join(home, ".gymdesk")
}
