package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadpi-assistant/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("NOMADPI_TEST_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  addr: ":8080"
  allowed_origins: ["http://van.local", " ", "http://tablet.local "]
backend:
  base_url: http://nomadpi.local:8000/api
  timeout: 3s
summarizer:
  provider: anthropic
  api_key: ${NOMADPI_TEST_KEY}
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://van.local", "http://tablet.local"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://nomadpi.local:8000/api", cfg.Backend.BaseURL)
	assert.Equal(t, "http://localhost:3000", cfg.Backend.Origin)
	assert.Equal(t, "sk-test", cfg.Summarizer.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)

	timeout, err := cfg.BackendTimeout()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, timeout)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse([]byte("backend:\n  base_url: http://core\n"))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, 60, cfg.Server.RateLimit)
	assert.Equal(t, 10, cfg.Server.RateBurst)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, "10s", cfg.Backend.Timeout)
	assert.Equal(t, "none", cfg.Summarizer.Provider)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing base url": "log:\n  level: info\n",
		"bad timeout":      "backend:\n  base_url: http://core\n  timeout: soon\n",
		"negative timeout": "backend:\n  base_url: http://core\n  timeout: -1s\n",
		"unknown provider": "backend:\n  base_url: http://core\nsummarizer:\n  provider: eliza\n",
		"missing api key":  "backend:\n  base_url: http://core\nsummarizer:\n  provider: gemini\n",
		"not yaml":         "backend: [unterminated\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
