package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"task-manager/internal/storage"
)

// Config holds all configuration options for the task manager
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Time        TimeConfig        `yaml:"time"`
	Notify      NotifyConfig      `yaml:"notify"`
	Display     DisplayConfig     `yaml:"display"`
	Application ApplicationConfig `yaml:"application"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// StorageConfig holds task persistence configuration
type StorageConfig struct {
	Dir            string `yaml:"dir" env:"TM_STORAGE_DIR"`
	Filename       string `yaml:"filename" env:"TM_STORAGE_FILENAME"`
	Format         string `yaml:"format" env:"TM_STORAGE_FORMAT"`
	DirPermissions uint32 `yaml:"dir_permissions" env:"TM_STORAGE_DIR_PERMISSIONS"`
}

// TimeConfig holds time formatting configuration
type TimeConfig struct {
	DisplayFormat string `yaml:"display_format" env:"TM_TIME_DISPLAY_FORMAT"`
}

// NotifyConfig holds notifier configuration
type NotifyConfig struct {
	Interval time.Duration `yaml:"interval" env:"TM_NOTIFY_INTERVAL"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	CalendarWindow time.Duration `yaml:"calendar_window" env:"TM_DISPLAY_CALENDAR_WINDOW"`
	IncomingWindow time.Duration `yaml:"incoming_window" env:"TM_DISPLAY_INCOMING_WINDOW"`
	ListFormat     string        `yaml:"list_format" env:"TM_DISPLAY_LIST_FORMAT"`
	NoColor        bool          `yaml:"no_color" env:"TM_DISPLAY_NO_COLOR"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"TM_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"TM_APP_VERBOSE"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"TM_LOG_LEVEL"`
	Format string `yaml:"format" env:"TM_LOG_FORMAT"`
	Output string `yaml:"output" env:"TM_LOG_OUTPUT"`
}

// List output formats
var listFormats = []string{"table", "csv", "json", "yaml", "text"}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDir := filepath.Join(homeDir, ".tm")

	return &Config{
		Storage: StorageConfig{
			Dir:            defaultDir,
			Filename:       "tasks.txt",
			Format:         string(storage.FormatText),
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			DisplayFormat: "2006-01-02 15:04:05.000",
		},
		Notify: NotifyConfig{
			Interval: time.Second,
		},
		Display: DisplayConfig{
			CalendarWindow: 7 * 24 * time.Hour,
			IncomingWindow: 24 * time.Hour,
			ListFormat:     "table",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// GetStoragePath returns the full path to the task file or database
func (c *Config) GetStoragePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// SetStoragePath points the storage at a file path
func (c *Config) SetStoragePath(path string) {
	c.Storage.Dir = filepath.Dir(path)
	c.Storage.Filename = filepath.Base(path)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if path := os.Getenv("TM_FILE"); path != "" {
		c.SetStoragePath(path)
	}
	if dir := os.Getenv("TM_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TM_STORAGE_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if format := os.Getenv("TM_STORAGE_FORMAT"); format != "" {
		c.Storage.Format = format
	}
	if perms := os.Getenv("TM_STORAGE_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Time configuration
	if format := os.Getenv("TM_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}

	// Notify configuration
	if interval := os.Getenv("TM_NOTIFY_INTERVAL"); interval != "" {
		c.Notify.Interval = ParseDurationWithFallback(interval, c.Notify.Interval)
	}

	// Display configuration
	if window := os.Getenv("TM_DISPLAY_CALENDAR_WINDOW"); window != "" {
		c.Display.CalendarWindow = ParseDurationWithFallback(window, c.Display.CalendarWindow)
	}
	if window := os.Getenv("TM_DISPLAY_INCOMING_WINDOW"); window != "" {
		c.Display.IncomingWindow = ParseDurationWithFallback(window, c.Display.IncomingWindow)
	}
	if format := os.Getenv("TM_DISPLAY_LIST_FORMAT"); format != "" {
		c.Display.ListFormat = format
	}
	if noColor := os.Getenv("TM_DISPLAY_NO_COLOR"); noColor != "" {
		c.Display.NoColor = ParseBoolWithFallback(noColor, c.Display.NoColor)
	}

	// Application configuration
	if timeout := os.Getenv("TM_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TM_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	// Logging configuration
	if level := os.Getenv("TM_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TM_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if output := os.Getenv("TM_LOG_OUTPUT"); output != "" {
		c.Logging.Output = output
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.Filename == "" {
		return &ConfigError{Field: "storage.filename", Message: "storage filename cannot be empty"}
	}
	if _, err := storage.ParseFormat(c.Storage.Format); err != nil {
		return &ConfigError{Field: "storage.format", Message: "format must be one of text, binary, sqlite"}
	}

	// Validate time configuration
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}

	// Validate notify configuration
	if c.Notify.Interval < time.Millisecond {
		return &ConfigError{Field: "notify.interval", Message: "notify interval must be at least 1ms"}
	}

	// Validate display configuration
	if c.Display.CalendarWindow <= 0 {
		return &ConfigError{Field: "display.calendar_window", Message: "calendar window must be positive"}
	}
	if c.Display.IncomingWindow <= 0 {
		return &ConfigError{Field: "display.incoming_window", Message: "incoming window must be positive"}
	}
	if !isListFormat(c.Display.ListFormat) {
		return &ConfigError{Field: "display.list_format", Message: "list format must be one of table, csv, json, yaml, text"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	// Validate logging configuration
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "log level must be one of debug, info, warn, error"}
	}

	return nil
}

func isListFormat(format string) bool {
	for _, f := range listFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
