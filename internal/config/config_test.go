package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/kiln/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Empty(t, cfg.ManifestDirs)
	require.Empty(t, cfg.Catalogs)
	require.False(t, cfg.Strict)
	require.True(t, cfg.AutoReload)
	require.Equal(t, 500, cfg.DebounceMs)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, Validate(cfg), "defaults should validate")
}

func TestDebounce(t *testing.T) {
	require.Equal(t, 500*time.Millisecond, Config{}.Debounce(), "zero falls back to default")
	require.Equal(t, 250*time.Millisecond, Config{DebounceMs: 250}.Debounce())
}

func TestValidate_NegativeDebounce(t *testing.T) {
	err := Validate(Config{DebounceMs: -1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "debounce_ms")
}

func TestValidate_EmptyManifestDir(t *testing.T) {
	err := Validate(Config{ManifestDirs: []string{"manifests", ""}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "manifest_dirs[1]")
}

func TestValidateLog(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		require.NoError(t, ValidateLog(LogConfig{Level: level}), "level %q", level)
	}

	err := ValidateLog(LogConfig{Level: "verbose"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "log.level")
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(tracing.Config{Exporter: "otlp", SampleRate: 0.5}))

	err := ValidateTracing(tracing.Config{SampleRate: 1.5})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sample_rate")

	err = ValidateTracing(tracing.Config{Exporter: "jaeger"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracing.exporter")
}
