// Package config loads engine settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"nickandperla.net/snailfish/internal/reduce"
)

// Config contains all engine settings.
type Config struct {
	// Reduce contains reducer settings.
	Reduce ReduceConfig `yaml:"reduce"`

	// Search contains pair search settings.
	Search SearchConfig `yaml:"search"`

	// Log contains logger settings.
	Log LogConfig `yaml:"log"`
}

// ReduceConfig contains reducer settings.
type ReduceConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// SearchConfig contains pair search settings. Zero workers means one per CPU.
type SearchConfig struct {
	Workers int `yaml:"workers"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Reduce: ReduceConfig{MaxIterations: reduce.DefaultMaxIterations},
		Search: SearchConfig{Workers: 0},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. Fields absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that all settings are usable.
func (c Config) Validate() error {
	var errs []error
	if c.Reduce.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("reduce.max_iterations must be positive, got %d", c.Reduce.MaxIterations))
	}
	if c.Search.Workers < 0 {
		errs = append(errs, fmt.Errorf("search.workers must not be negative, got %d", c.Search.Workers))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}
