// Package config loads bpwatch settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/watcher"
)

// EnvPrefix prefixes every environment override, e.g. BPWATCH_LOG_LEVEL.
const EnvPrefix = "BPWATCH"

// Config holds application configuration.
type Config struct {
	Breakpoints breakpoints.Thresholds `mapstructure:"-"`
	Resize      ResizeConfig
	Viewport    ViewportConfig
	Log         LogConfig
	Journal     JournalConfig
	Metrics     MetricsConfig

	// Path is the config file that was read, or "" when none was found.
	Path string `mapstructure:"-"`
}

// ResizeConfig controls resize delivery.
type ResizeConfig struct {
	Debounce time.Duration
}

// ViewportConfig controls the width query.
type ViewportConfig struct {
	Gutter     int
	Compensate bool
}

// LogConfig controls slog output.
type LogConfig struct {
	Level string
	Debug bool
	File  string
}

// JournalConfig points at the crossing journal database.
type JournalConfig struct {
	Path string
}

// MetricsConfig controls the HTTP metrics endpoint.
type MetricsConfig struct {
	Addr string
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", "bpwatch", "config.yaml")
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Breakpoints: breakpoints.Terminal,
		Resize:      ResizeConfig{Debounce: watcher.DefaultDebounceDuration},
		Viewport:    ViewportConfig{Gutter: 1, Compensate: true},
		Log:         LogConfig{Level: "INFO"},
	}
}

func newViper() *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetDefault("resize.debounce", d.Resize.Debounce)
	v.SetDefault("viewport.gutter", d.Viewport.Gutter)
	v.SetDefault("viewport.compensate", d.Viewport.Compensate)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", "")
	v.SetDefault("journal.path", "")
	v.SetDefault("metrics.addr", "")

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads configuration. An explicit path (or BPWATCH_CONFIG) must
// exist; otherwise DefaultPath is tried and silently skipped if missing.
// BPWATCH_BREAKPOINTS ("xs:0,sm:80") overrides the file's breakpoints.
func Load(path string) (Config, error) {
	v := newViper()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	c := Default()
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Path = v.ConfigFileUsed()

	if c.Path != "" {
		ts, err := LoadThresholds(c.Path)
		if err != nil {
			return Config{}, err
		}
		if ts != nil {
			c.Breakpoints = ts
		}
	}

	if s := os.Getenv(EnvPrefix + "_BREAKPOINTS"); s != "" {
		ts, err := ParseThresholds(s)
		if err != nil {
			return Config{}, fmt.Errorf("%s_BREAKPOINTS: %w", EnvPrefix, err)
		}
		c.Breakpoints = ts
	}
	return c, nil
}

type fileConfig struct {
	Breakpoints *yaml.Node `yaml:"breakpoints"`
	Resize      struct {
		Debounce string `yaml:"debounce"`
	} `yaml:"resize"`
	Viewport struct {
		Gutter     int  `yaml:"gutter"`
		Compensate bool `yaml:"compensate"`
	} `yaml:"viewport"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Journal struct {
		Path string `yaml:"path,omitempty"`
	} `yaml:"journal,omitempty"`
}

// Save writes c as YAML, creating the directory if needed. Breakpoints are
// written as an ordered mapping.
func Save(path string, c Config) error {
	if err := Validate(c.Breakpoints); err != nil {
		return err
	}

	var f fileConfig
	f.Breakpoints = thresholdsNode(c.Breakpoints)
	f.Resize.Debounce = c.Resize.Debounce.String()
	f.Viewport.Gutter = c.Viewport.Gutter
	f.Viewport.Compensate = c.Viewport.Compensate
	f.Log.Level = c.Log.Level
	f.Journal.Path = c.Journal.Path

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
