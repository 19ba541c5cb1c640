// Package config loads runtime settings for the simulator.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds playback and ambient settings. Zero values from a partial
// file are filled in from Default.
type Config struct {
	// Speed is the wall-clock duration of one simulated time unit.
	Speed time.Duration `yaml:"speed"`

	// Algorithm is the tag given to processes that do not name one.
	Algorithm process.Algorithm `yaml:"algorithm"`

	// Hold keeps the player running after every process has finished, so
	// late injections can still be made.
	Hold bool `yaml:"hold"`

	Color     bool   `yaml:"color"`
	Listen    string `yaml:"listen"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Speed:     200 * time.Millisecond,
		Algorithm: process.FCFS,
		Color:     true,
		Listen:    ":8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.Algorithm, _ = process.ParseAlgorithm(string(cfg.Algorithm))
	return cfg, nil
}

// ApplyEnv overrides settings from SCHEDSIM_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SCHEDSIM_SPEED"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: SCHEDSIM_SPEED: %v", ErrInvalidConfig, err)
		}
		c.Speed = d
	}
	if v := os.Getenv("SCHEDSIM_ALGORITHM"); v != "" {
		alg, err := process.ParseAlgorithm(v)
		if err != nil {
			return fmt.Errorf("%w: SCHEDSIM_ALGORITHM: %v", ErrInvalidConfig, err)
		}
		c.Algorithm = alg
	}
	if v := os.Getenv("SCHEDSIM_HOLD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: SCHEDSIM_HOLD: %v", ErrInvalidConfig, err)
		}
		c.Hold = b
	}
	if v := os.Getenv("SCHEDSIM_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("SCHEDSIM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c.Validate()
}

func (c Config) Validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %s", ErrInvalidConfig, c.Speed)
	}
	if _, err := process.ParseAlgorithm(string(c.Algorithm)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
