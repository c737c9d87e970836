package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.Pipeline.BatchSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.Pipeline.ProfileDelay)
	assert.Equal(t, 2000*time.Millisecond, cfg.Pipeline.BatchDelay)
	assert.Equal(t, 3000*time.Millisecond, cfg.Pipeline.PageSettleDelay)
	assert.Equal(t, 10, cfg.Pipeline.MaxPages)
	assert.Equal(t, 20, cfg.Pipeline.MaxScrollIterations)
	assert.Equal(t, 3, cfg.Pipeline.StableScrollChecks)
	assert.Equal(t, "tui", cfg.UI.Mode)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TALENTPIPE_BASE_URL", "http://localhost:9000")
	t.Setenv("TALENTPIPE_API_TIMEOUT", "5s")
	t.Setenv("TALENTPIPE_BATCH_SIZE", "3")
	t.Setenv("TALENTPIPE_MAX_PAGES", "2")
	t.Setenv("TALENTPIPE_HEADLESS", "true")
	t.Setenv("TALENTPIPE_UI_MODE", "line")
	t.Setenv("TALENTPIPE_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "http://localhost:9000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.Pipeline.BatchSize)
	assert.Equal(t, 2, cfg.Pipeline.MaxPages)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "line", cfg.UI.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("TALENTPIPE_BATCH_SIZE", "five")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TALENTPIPE_BATCH_SIZE")
	assert.Equal(t, 5, cfg.Pipeline.BatchSize)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://api.example.com
  timeout: 10s
pipeline:
  batch_size: 2
  profile_delay: 250ms
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2, cfg.Pipeline.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.ProfileDelay)
	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Pipeline.MaxPages)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"relative base url", func(c *Config) { c.API.BaseURL = "example.com" }, "not an absolute URL"},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "base URL is required"},
		{"zero batch", func(c *Config) { c.Pipeline.BatchSize = 0 }, "batch size must be positive"},
		{"zero pages", func(c *Config) { c.Pipeline.MaxPages = 0 }, "max pages must be positive"},
		{"negative delay", func(c *Config) { c.Pipeline.BatchDelay = -time.Second }, "batch delay cannot be negative"},
		{"bad ui mode", func(c *Config) { c.UI.Mode = "fancy" }, "invalid ui mode"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Pipeline.MaxPages = 4
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, 4, loaded.Pipeline.MaxPages)
	assert.Equal(t, cfg.Pipeline.ProfileDelay, loaded.Pipeline.ProfileDelay)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  max_pages: 3\n  batch_size: 4\n"), 0600))
	t.Setenv("HOME", dir)
	t.Setenv("TALENTPIPE_MAX_PAGES", "6")

	cfg, err := Load(path, map[string]interface{}{"batch-size": 7})
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Pipeline.MaxPages, "env overrides file")
	assert.Equal(t, 7, cfg.Pipeline.BatchSize, "flags override file")
}
