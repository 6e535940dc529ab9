package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.DPI)
	assert.Equal(t, 85, cfg.Quality)
	assert.Equal(t, 0, cfg.MaxPages) // no page cap unless configured
	assert.Equal(t, 2200, cfg.MaxEdgePx)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"api_key": "test-key", "dpi": 150, "port": 9090}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, 150, cfg.DPI)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 85, cfg.Quality) // untouched default
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `{"api_key": "file-key", "dpi": 150}`)
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DV_DPI", "300")
	t.Setenv("DV_MAX_EDGE_PX", "1600")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 300, cfg.DPI)
	assert.Equal(t, 1600, cfg.MaxEdgePx)
}

func TestLoad_BadEnvIntIgnored(t *testing.T) {
	t.Setenv("DV_DPI", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.DPI)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{"api_key": `)
	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) { c.APIKey = "k" }, wantErr: false},
		{name: "missing api key", mutate: func(c *Config) {}, wantErr: true},
		{name: "dpi too low", mutate: func(c *Config) { c.APIKey = "k"; c.DPI = 10 }, wantErr: true},
		{name: "quality out of range", mutate: func(c *Config) { c.APIKey = "k"; c.Quality = 150 }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.APIKey = "k"; c.Port = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
