// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"glazeworks/core/pricing"
	"glazeworks/internal/errors"
	"glazeworks/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Pricing is the price table loaded at startup
	Pricing PricingConfig `json:"pricing" yaml:"pricing"`

	// Server contains HTTP settings
	Server ServerConfig `json:"server" yaml:"server"`

	// Archive is where priced orders are kept
	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// ArchiveConfig selects the order archive
type ArchiveConfig struct {
	// Backend is file, sqlite or memory
	Backend string `json:"backend" yaml:"backend"`

	// Dir holds one file per archived order, or archive.db for sqlite
	Dir string `json:"dir" yaml:"dir"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	pricing.Rates `yaml:",inline"`

	// StrictWetSize makes the API reject wet requests without a size instead
	// of pricing them as dry
	StrictWetSize bool `json:"strict_wet_size" yaml:"strict_wet_size"`
}

// Catalog validates the rates and freezes them.
func (p PricingConfig) Catalog() (pricing.Catalog, error) {
	c, err := pricing.NewCatalog(p.Rates)
	if err != nil {
		return pricing.Catalog{}, errors.Config("invalid pricing table", err)
	}
	return c, nil
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadBytes caps diagnostic uploads
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// RequestTimeoutSeconds bounds each request
	RequestTimeoutSeconds int `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			Rates: pricing.DefaultRates(),
		},
		Server: ServerConfig{
			Addr:                  ":8080",
			MaxUploadBytes:        10 << 20,
			RequestTimeoutSeconds: 15,
		},
		Archive: ArchiveConfig{
			Backend: "file",
			Dir:     ".glazeworks/orders",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON or YAML file, chosen by extension, then
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		cfg.applyEnv()
		return cfg, nil
	case err != nil:
		return nil, errors.Config("read config", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.Config("parse config "+path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save saves configuration to a file, in YAML when the extension asks for it
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GLAZE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GLAZE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GLAZE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("GLAZE_ARCHIVE_BACKEND"); v != "" {
		c.Archive.Backend = v
	}
	if v := os.Getenv("GLAZE_ARCHIVE_DIR"); v != "" {
		c.Archive.Dir = v
	}
	if v := os.Getenv("GLAZE_STRICT_WET_SIZE"); v != "" {
		c.Pricing.StrictWetSize = v == "1" || strings.EqualFold(v, "true")
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
