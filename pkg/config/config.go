// Package config provides configuration loading and management for rectseg.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Search parameters
	Search struct {
		// Workers is the number of goroutines scoring candidate rectangles
		Workers int `yaml:"workers"`

		// RejectNonFinite fails the search on NaN or infinite pixel values
		RejectNonFinite bool `yaml:"rejectNonFinite"`
	} `yaml:"search"`

	// Input parameters
	Input struct {
		// MaxPixels caps width*height; the search is quartic in the side length.
		// Zero disables the limit.
		MaxPixels int `yaml:"maxPixels"`

		// Scale multiplies every 8-bit channel sample when decoding
		Scale float64 `yaml:"scale"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`

		// Format is either "text" or "yaml"
		Format string `yaml:"format"`

		// RenderPath receives the two-color reconstruction when set
		RenderPath string `yaml:"renderPath"`

		// OverlayPath receives the input with the rectangle outlined when set
		OverlayPath string `yaml:"overlayPath"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Search.Workers = runtime.NumCPU()
	cfg.Search.RejectNonFinite = false

	cfg.Input.MaxPixels = 4096
	cfg.Input.Scale = 1.0 / 255.0

	cfg.Output.Verbose = false
	cfg.Output.Format = "text"

	return cfg
}

// Validate reports settings that cannot drive a run
func (c *Config) Validate() error {
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must be non-negative, got %d", c.Search.Workers)
	}
	if c.Input.MaxPixels < 0 {
		return fmt.Errorf("input.maxPixels must be non-negative, got %d", c.Input.MaxPixels)
	}
	if c.Input.Scale <= 0 {
		return fmt.Errorf("input.scale must be positive, got %g", c.Input.Scale)
	}
	switch c.Output.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("output.format must be text or yaml, got %q", c.Output.Format)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
