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

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":            "http://www.example:9000/api",
		"session_poll_interval": "15s",
		"request_timeout":       2000000000,
	})

	for _, args := range [][]string{{"-c", path}, {"-config", path}, {"--config=" + path}} {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, args)

		assert.Equal(t, "http://www.example:9000/api", cfg.ServerURL)
		assert.Equal(t, 15*time.Second, cfg.SessionPollInterval)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	}
}

func Test_parseJson_NoFileKeepsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, []string{"-a", "x"})
	assert.Equal(t, "http://127.0.0.1:5000/api", cfg.ServerURL)
}

func Test_parseJson_Panics(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	assert.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	assert.Panics(t, func() { parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}) })
}
