package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable pointing at a YAML config file.
const ConfigFileEnv = "TM_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	filePath string
}

// NewLoader creates a new configuration loader reading the file named by
// TM_CONFIG, or ~/.tm/config.yaml when it exists
func NewLoader() *Loader {
	path := os.Getenv(ConfigFileEnv)
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".tm", "config.yaml")
		}
	}
	return NewLoaderWithFile(path)
}

// NewLoaderWithFile creates a loader reading an explicit config file. An empty path skips the file step.
func NewLoaderWithFile(path string) *Loader {
	return &Loader{
		config:   NewConfig(),
		filePath: path,
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file, if present
// 3. Override with environment variables
// 4. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// loadFile merges the YAML file over the defaults. A missing file is not an error.
func (l *Loader) loadFile() error {
	if l.filePath == "" {
		return nil
	}
	data, err := os.ReadFile(l.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", l.filePath, err)
	}
	if err := yaml.Unmarshal(data, l.config); err != nil {
		return &ConfigError{Field: "file", Message: fmt.Sprintf("%s: %v", l.filePath, err)}
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	return ApplyOverrides(config, overrides)
}

// ApplyOverrides returns a copy of config with overrides applied, validated
// again. config itself is left untouched.
func ApplyOverrides(config *Config, overrides *ConfigOverrides) (*Config, error) {
	merged := *config
	if overrides != nil {
		applyOverrides(&merged, overrides)
	}

	// Re-validate after applying overrides
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return &merged, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	File   *string
	Format *string

	// Time overrides
	TimeFormat *string

	// Notify overrides
	NotifyInterval *time.Duration

	// Display overrides
	NoColor *bool

	// Application overrides
	Timeout *time.Duration
	Verbose *bool

	// Logging overrides
	LogLevel *string
}

// applyOverrides applies command line overrides to the configuration
func applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.File != nil {
		config.SetStoragePath(*overrides.File)
	}
	if overrides.Format != nil {
		config.Storage.Format = *overrides.Format
	}
	if overrides.TimeFormat != nil {
		config.Time.DisplayFormat = *overrides.TimeFormat
	}
	if overrides.NotifyInterval != nil {
		config.Notify.Interval = *overrides.NotifyInterval
	}
	if overrides.NoColor != nil {
		config.Display.NoColor = *overrides.NoColor
	}
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	// Verbose implies debug logging unless a level was given explicitly.
	if overrides.Verbose != nil && *overrides.Verbose && overrides.LogLevel == nil {
		config.Logging.Level = "debug"
	}
}
