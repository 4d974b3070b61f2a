package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	storeYAML   = "yaml"
	storeSQLite = "sqlite"

	defaultReloadEvery = 5 * time.Second
)

// bootstrapConfig says how wallsafe runs. What it rotates lives in the
// preference store.
type bootstrapConfig struct {
	StateDir     string        `mapstructure:"state-dir"`
	Store        string        `mapstructure:"store"`
	LogLevel     string        `mapstructure:"log-level"`
	LogFormat    string        `mapstructure:"log-format"`
	PaintCommand string        `mapstructure:"paint-command"`
	ReloadEvery  time.Duration `mapstructure:"reload-every"`
}

func defaultStateDir(home string) string {
	return filepath.Join(home, ".config", "wallsafe")
}

// loadConfig reads the optional config file and WALLSAFE_* environment
// overrides. A missing config file is not an error.
func loadConfig(configPath string) (bootstrapConfig, error) {
	var cfg bootstrapConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("WALLSAFE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("state-dir", defaultStateDir(home))
	v.SetDefault("store", storeYAML)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
	v.SetDefault("paint-command", "")
	v.SetDefault("reload-every", defaultReloadEvery)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(defaultStateDir(home), "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if cfg.Store != storeYAML && cfg.Store != storeSQLite {
		return cfg, fmt.Errorf("unknown store %q (want %s or %s)", cfg.Store, storeYAML, storeSQLite)
	}
	if cfg.ReloadEvery <= 0 {
		cfg.ReloadEvery = defaultReloadEvery
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to w so command output on
// stdout stays clean.
func newLogger(cfg bootstrapConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
