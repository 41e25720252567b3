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

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"backend_api":     "http://www.example:9000",
		"request_timeout": "10s",
		"rps":             0,
		"verbose":         true,
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := &Config{RPS: 10, FrontendURL: "http://front"}
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "http://www.example:9000", cfg.BackendAPI)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Zero(t, cfg.RPS)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, "http://front", cfg.FrontendURL, "absent fields keep their value")
	})

	t.Run("short flag after a bool flag", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-v", "-c=" + pathFlag, "whoami"}))
		assert.Equal(t, "http://www.example:9000", cfg.BackendAPI)
	})

	t.Run("subcommand flags are not global", func(t *testing.T) {
		cfg := &Config{BackendAPI: "defaults"}
		require.NoError(t, parseJson(cfg, []string{"companies", "-c", pathFlag}))
		assert.Equal(t, "defaults", cfg.BackendAPI)
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		cfg := &Config{
			BackendAPI:     "defaults:1234",
			RequestTimeout: 42 * time.Second,
		}
		require.NoError(t, parseJson(cfg, nil))

		assert.Equal(t, "defaults:1234", cfg.BackendAPI)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Error(t, parseJson(cfg, []string{"-config", bad}))
	})
}
