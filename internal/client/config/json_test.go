package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "gym.json", map[string]any{
		"backend_url":     "https://api.gym.example",
		"request_timeout": "10s",
		"log_level":       "debug",
	})

	t.Run("overlays present fields", func(t *testing.T) {
		cfg := &Config{StorePath: "keep.db"}
		require.NoError(t, parseJSON(cfg, []string{"-c", path}))

		assert.Equal(t, "https://api.gym.example", cfg.BackendURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "keep.db", cfg.StorePath)
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		cfg := &Config{BackendURL: "defaults", RequestTimeout: 42 * time.Second}
		require.NoError(t, parseJSON(cfg, []string{"shell"}))

		assert.Equal(t, "defaults", cfg.BackendURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJSON(&Config{}, []string{"--config", bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}
