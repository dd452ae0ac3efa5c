// Package config loads fieldset CLI settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	fslog "github.com/dlovans/fieldset/internal/log"
)

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Color modes for CLI output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete fieldset configuration.
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Log        LogConfig        `yaml:"log"`
	Output     OutputConfig     `yaml:"output"`
}

// ValidationConfig controls engine validation behavior.
type ValidationConfig struct {
	// ExemptHidden skips validation for fields hidden by display rules.
	// Environment: FIELDSET_EXEMPT_HIDDEN
	// Default: true
	ExemptHidden bool `yaml:"exempt_hidden"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	// Environment: FIELDSET_LOG_LEVEL
	Level string `yaml:"level"`

	// Format is json or text.
	// Environment: FIELDSET_LOG_FORMAT
	Format string `yaml:"format"`

	// AddSource adds file and line to log records.
	AddSource bool `yaml:"add_source"`
}

// OutputConfig configures CLI rendering.
type OutputConfig struct {
	// Color is auto, always or never.
	Color string `yaml:"color"`
}

// ConfigError reports a configuration problem at a specific key.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g. "log.level").
	Key string

	// Reason explains what's wrong with the configuration.
	Reason string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config error: %s", e.Reason)
	if e.Key != "" {
		msg = fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Validation: ValidationConfig{ExemptHidden: true},
		Log: LogConfig{
			Level:  "info",
			Format: string(fslog.FormatText),
		},
		Output: OutputConfig{Color: ColorAuto},
	}
}

// Load builds the configuration from defaults, then the YAML file at
// configPath (if non-empty), then environment overrides, and validates it.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() error {
	if v := os.Getenv("FIELDSET_EXEMPT_HIDDEN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Key: "validation.exempt_hidden", Reason: "FIELDSET_EXEMPT_HIDDEN must be a boolean", Cause: err}
		}
		c.Validation.ExemptHidden = b
	}
	if v := os.Getenv("FIELDSET_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("FIELDSET_LOG_FORMAT"); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

// Validate checks the configuration for unsupported values.
func (c *Config) Validate() error {
	if !fslog.ValidLevel(c.Log.Level) {
		return &ConfigError{Key: "log.level", Reason: fmt.Sprintf("unknown level %q", c.Log.Level), Cause: ErrInvalidConfig}
	}

	switch fslog.Format(c.Log.Format) {
	case fslog.FormatJSON, fslog.FormatText:
	default:
		return &ConfigError{Key: "log.format", Reason: fmt.Sprintf("unknown format %q (want json or text)", c.Log.Format), Cause: ErrInvalidConfig}
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return &ConfigError{Key: "output.color", Reason: fmt.Sprintf("unknown color mode %q (want auto, always or never)", c.Output.Color), Cause: ErrInvalidConfig}
	}

	return nil
}

// LoggerConfig converts the log section into a logger configuration.
func (c *Config) LoggerConfig() *fslog.Config {
	cfg := fslog.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = fslog.Format(c.Log.Format)
	cfg.AddSource = c.Log.AddSource
	return cfg
}
