package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvFile           = "GYMDESK_ENV_FILE"
	EnvBackendURL     = "GYMDESK_BACKEND_URL"
	EnvStorePath      = "GYMDESK_STORE_PATH"
	EnvStoreSecret    = "GYMDESK_STORE_SECRET"
	EnvRequestTimeout = "GYMDESK_REQUEST_TIMEOUT"
	EnvLogLevel       = "GYMDESK_LOG_LEVEL"
	EnvLogFormat      = "GYMDESK_LOG_FORMAT"
)

const defaultDotEnvFile = ".env"

// lookupFunc matches os.LookupEnv so tests can supply a fake environment.
type lookupFunc func(string) (string, bool)

// parseEnv overlays cfg with values from the .env file and then from the
// process environment. A missing .env file is not an error.
func parseEnv(cfg *Config, lookup lookupFunc) error {
	path := defaultDotEnvFile
	if p, ok := lookup(EnvFile); ok && p != "" {
		path = p
	}

	fileVars, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok && v != ""
	}

	if v, ok := get(EnvBackendURL); ok {
		cfg.BackendURL = v
	}
	if v, ok := get(EnvStorePath); ok {
		cfg.StorePath = v
	}
	if v, ok := get(EnvStoreSecret); ok {
		cfg.StoreSecret = v
	}
	if v, ok := get(EnvRequestTimeout); ok {
		d, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvLogFormat); ok {
		cfg.LogFormat = v
	}
	return nil
}

// parseSeconds accepts either a duration string or a plain number of seconds.
func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
