package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appregistry "github.com/zjrosen/kiln/internal/application/registry"
	"github.com/zjrosen/kiln/internal/config"
	"github.com/zjrosen/kiln/internal/log"
	"github.com/zjrosen/kiln/internal/tracing"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kiln",
	Short: "A factory registry populated from catalogs and manifests",
	Long: `kiln maintains a registry of named factories, populated from catalog
contributions linked into the binary and registry.yaml manifests on disk.

Entries share a key and are disambiguated by library and label
qualifiers at resolution time.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/kiln/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug log")
	rootCmd.PersistentFlags().StringArrayP("manifests", "m", nil,
		"manifest directory to scan (repeatable)")

	_ = viper.BindPFlag("manifest_dirs", rootCmd.PersistentFlags().Lookup("manifests"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("debounce_ms", defaults.DebounceMs)
	viper.SetDefault("log.path", defaults.Log.Path)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .kiln/config.yaml (current directory)
		// 2. ~/.config/kiln/config.yaml (user config)
		if _, err := os.Stat(".kiln/config.yaml"); err == nil {
			viper.SetConfigFile(".kiln/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "kiln"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file means defaults; other errors surface later
		// through validation.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if debug || cfg.Log.Enabled {
		if path := cfg.Log.Path; path != "" {
			_, _ = log.Init(path)
			log.SetMinLevel(logLevel(cfg.Log.Level))
		}
	}
}

func logLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

// newService builds a populated service from the effective config.
// strict forces strict factory binding regardless of config.
func newService(strict bool) (*appregistry.Service, func(), error) {
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []appregistry.Option{}
	for _, dir := range cfg.ManifestDirs {
		if _, err := os.Stat(dir); err != nil {
			return nil, nil, fmt.Errorf("manifest directory %s: %w", dir, err)
		}
		opts = append(opts, appregistry.WithManifests(os.DirFS(dir)))
	}
	if len(cfg.Catalogs) > 0 {
		opts = append(opts, appregistry.WithCatalogs(cfg.Catalogs...))
	}
	if strict || cfg.Strict {
		opts = append(opts, appregistry.WithStrict())
	}

	cleanup := func() {}
	if cfg.Tracing.Enabled {
		provider, err := tracing.NewProvider(cfg.Tracing)
		if err != nil {
			return nil, nil, fmt.Errorf("tracing: %w", err)
		}
		opts = append(opts, appregistry.WithTracer(provider.Tracer()))
		cleanup = func() {
			_ = provider.Shutdown(context.Background())
		}
	}

	svc := appregistry.NewService(opts...)
	return svc, cleanup, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
