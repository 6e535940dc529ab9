// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config represents the runtime configuration. It can be loaded from a JSON
// file; environment variables override file values. All fields are optional
// except the API key, which must be present by the time Validate runs.
type Config struct {
	// APIKey is the Gemini API key.
	APIKey string `json:"api_key,omitempty" validate:"required"`

	// Model overrides the model used for the verification passes. Empty
	// selects the standard tier default.
	Model string `json:"model,omitempty"`

	// Rendering
	DPI       int `json:"dpi,omitempty" validate:"omitempty,min=72,max=600"`
	Quality   int `json:"quality,omitempty" validate:"omitempty,min=1,max=100"`
	MaxPages  int `json:"max_pages,omitempty" validate:"omitempty,min=1"`
	MaxEdgePx int `json:"max_edge_px,omitempty" validate:"omitempty,min=256"`

	// Poppler binaries; empty means look them up on PATH.
	Pdftoppm  string `json:"pdftoppm,omitempty"`
	Pdftotext string `json:"pdftotext,omitempty"`

	// Port for the HTTP server.
	Port int `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`

	Verbose bool `json:"verbose,omitempty"`
}

// Default returns the configuration defaults applied before file and
// environment overrides.
func Default() *Config {
	return &Config{
		DPI:       200,
		Quality:   85,
		MaxEdgePx: 2200,
		Port:      8080,
	}
}

// Load builds a Config from defaults, an optional JSON file, and the
// environment, in that order of precedence (environment wins).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnv()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return nil
}

// loadEnv overlays environment variables onto the config. GEMINI_API_KEY is
// the conventional key variable; the rest use the DV_ prefix.
func (c *Config) loadEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("DV_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("DV_PDFTOPPM"); v != "" {
		c.Pdftoppm = v
	}
	if v := os.Getenv("DV_PDFTOTEXT"); v != "" {
		c.Pdftotext = v
	}
	if v, ok := envInt("DV_DPI"); ok {
		c.DPI = v
	}
	if v, ok := envInt("DV_QUALITY"); ok {
		c.Quality = v
	}
	if v, ok := envInt("DV_MAX_PAGES"); ok {
		c.MaxPages = v
	}
	if v, ok := envInt("DV_MAX_EDGE_PX"); ok {
		c.MaxEdgePx = v
	}
	if v, ok := envInt("DV_PORT"); ok {
		c.Port = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks the configuration using the struct validation tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
