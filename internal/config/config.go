// Package config provides configuration types and defaults for kiln.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/kiln/internal/tracing"
)

// Config holds all configuration options for kiln.
type Config struct {
	// ManifestDirs are the directories scanned for registry.yaml
	// manifests. Empty means population uses catalogs only.
	ManifestDirs []string `mapstructure:"manifest_dirs"`

	// Catalogs restricts population to the named catalog libraries.
	// Empty means every contributed catalog.
	Catalogs []string `mapstructure:"catalogs"`

	// Strict makes population fail on factory references that are not
	// linked into the binary. Default: false (lenient binding).
	Strict bool `mapstructure:"strict"`

	// AutoReload allows the watch command to repopulate on manifest
	// changes. Set false to make watch mode refuse to start.
	// Default: true
	AutoReload bool `mapstructure:"auto_reload"`

	// DebounceMs is the watcher debounce window in milliseconds.
	// Default: 500
	DebounceMs int `mapstructure:"debounce_ms"`

	Log     LogConfig      `mapstructure:"log"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// LogConfig holds debug logging configuration.
type LogConfig struct {
	// Enabled controls whether the debug log is written.
	Enabled bool `mapstructure:"enabled"`

	// Path is the log file location.
	// Default: ~/.config/kiln/kiln.log
	Path string `mapstructure:"path"`

	// Level is the minimum level written: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `mapstructure:"level"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		AutoReload: true,
		DebounceMs: 500,
		Log: LogConfig{
			Path:  DefaultLogPath(),
			Level: "info",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// DefaultLogPath returns ~/.config/kiln/kiln.log, or empty string if the
// home directory is unavailable.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kiln", "kiln.log")
}

// Debounce returns the watcher debounce window as a duration.
func (c Config) Debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Validate checks the configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func Validate(cfg Config) error {
	if cfg.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", cfg.DebounceMs)
	}

	for i, dir := range cfg.ManifestDirs {
		if dir == "" {
			return fmt.Errorf("manifest_dirs[%d] must not be empty", i)
		}
	}

	if err := ValidateLog(cfg.Log); err != nil {
		return err
	}

	return ValidateTracing(cfg.Tracing)
}

// ValidateLog checks log configuration for errors.
func ValidateLog(log LogConfig) error {
	switch log.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", log.Level)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(cfg tracing.Config) error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %g", cfg.SampleRate)
	}

	switch cfg.Exporter {
	case "", "none", "stdout", "file", "otlp":
		return nil
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"stdout\", \"file\", or \"otlp\", got %q", cfg.Exporter)
	}
}
