// Package config loads and validates the optional YAML configuration
// that overrides the conversion thresholds and logging settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/mesh2step/internal/heuristics"
	"github.com/philipparndt/mesh2step/internal/logger"
)

// Config holds all tunable settings
type Config struct {
	Limits  heuristics.Limits `yaml:"limits"`
	Logging Logging           `yaml:"logging"`
}

// Logging configures log level and optional file output
type Logging struct {
	Level string            `yaml:"level"`
	File  logger.FileConfig `yaml:"file"`
}

// Default returns the stock configuration
func Default() *Config {
	return &Config{
		Limits: heuristics.DefaultLimits(),
		Logging: Logging{
			Level: "info",
		},
	}
}

// Loader handles loading and validating YAML configuration files
type Loader struct{}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a YAML configuration file. Settings absent from
// the file keep their defaults.
func (l *Loader) Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := l.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (l *Loader) Validate(config *Config) error {
	if config.Limits.ExpensiveCheckFacets <= 0 {
		return fmt.Errorf("limits.expensive_check_facets must be positive")
	}
	if config.Limits.MergeFacets <= 0 {
		return fmt.Errorf("limits.merge_facets must be positive")
	}
	if config.Limits.ReconstructionFactor <= 0 {
		return fmt.Errorf("limits.reconstruction_factor must be positive")
	}
	if config.Limits.MergeFactor <= 0 {
		return fmt.Errorf("limits.merge_factor must be positive")
	}
	switch config.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}
