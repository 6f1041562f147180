// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/samplebox/internal/domain/sample"
)

// Config represents the application configuration.
type Config struct {
	Player  PlayerConfig  `yaml:"player"`
	Log     LogConfig     `yaml:"log"`
	Samples []SampleEntry `yaml:"samples" validate:"dive"`
}

// PlayerConfig represents sample player configuration.
type PlayerConfig struct {
	SkipStepSec  int  `yaml:"skip_step_sec" default:"15" validate:"gte=1,lte=300"`
	RestartAtEnd bool `yaml:"restart_at_end"`
	EventBuffer  int  `yaml:"event_buffer" default:"32" validate:"gte=1,lte=4096"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" default:"stdout"` // "stdout", "stderr", or file path
}

// SampleEntry represents a catalog entry.
type SampleEntry struct {
	sample.Descriptor `yaml:",inline"`

	ID string `yaml:"id" validate:"required"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SAMPLEBOX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SAMPLEBOX_LOG_OUTPUT"); v != "" {
		c.Log.Output = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
