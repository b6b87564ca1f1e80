// Package config loads and normalizes the content pipeline configuration.
//
// Configuration comes from a YAML file, with optional overrides from the
// process environment. A .env/.env.local file is loaded first (best effort)
// so local development does not need exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration. All zero values trigger sensible
// defaults via Normalize.
type Config struct {
	SourceRoot string `yaml:"source_root"` // directory holding source documents
	BasePath   string `yaml:"base_path"`   // permalink base path
	Extension  string `yaml:"extension"`   // source file extension including the dot
	Scheme     string `yaml:"scheme"`      // reference scheme token without the colon
	Workers    int    `yaml:"workers"`     // transform phase concurrency (1 = sequential)

	Events  EventsConfig  `yaml:"events"`
	Reports ReportsConfig `yaml:"reports"`
}

// EventsConfig controls optional broken-reference event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`     // NATS server URL
	Subject string `yaml:"subject"` // publish subject
}

// ReportsConfig controls optional run-report persistence.
type ReportsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite database path (":memory:" supported)
}

// Default returns a normalized configuration with all defaults applied.
func Default() Config {
	cfg := Config{}
	cfg.Normalize()
	return cfg
}

// Load reads a YAML configuration file, overlays environment variables and
// applies defaults. A missing .env file is not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills in defaults for zero values.
func (c *Config) Normalize() {
	if c.SourceRoot == "" {
		c.SourceRoot = "docs"
	}
	if c.BasePath == "" {
		c.BasePath = "/docs"
	}
	c.BasePath = "/" + strings.Trim(c.BasePath, "/")
	if c.Extension == "" {
		c.Extension = ".md"
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.Scheme == "" {
		c.Scheme = "doc"
	}
	c.Scheme = strings.TrimSuffix(c.Scheme, ":")
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "docsite.references.broken"
	}
	if c.Reports.Path == "" {
		c.Reports.Path = "docsite.db"
	}
}

// applyEnv overlays DOCSITE_* environment variables on the loaded values.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCSITE_SOURCE_ROOT"); v != "" {
		c.SourceRoot = v
	}
	if v := os.Getenv("DOCSITE_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("DOCSITE_EXTENSION"); v != "" {
		c.Extension = v
	}
	if v := os.Getenv("DOCSITE_SCHEME"); v != "" {
		c.Scheme = v
	}
	if v := os.Getenv("DOCSITE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("DOCSITE_NATS_URL"); v != "" {
		c.Events.URL = v
		c.Events.Enabled = true
	}
	if v := os.Getenv("DOCSITE_REPORT_DB"); v != "" {
		c.Reports.Path = v
		c.Reports.Enabled = true
	}
}
