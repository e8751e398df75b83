// Package config holds the timers configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration. Command-line flags override the
// values loaded from file.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Server  ServerConfig  `yaml:"server"`
	Journal JournalConfig `yaml:"journal"`
	Seed    SeedConfig    `yaml:"seed"`
	Log     LogConfig     `yaml:"log"`
}

// EngineConfig configures the tick driver.
type EngineConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// JournalConfig configures the intent journal. An empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// SeedConfig selects the initial timer list.
type SeedConfig struct {
	Path string `yaml:"path"`
	Demo bool   `yaml:"demo"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TickInterval: time.Second,
		},
		Server: ServerConfig{
			Listen:          "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is true; Default() is returned instead.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Engine.TickInterval < time.Millisecond {
		return fmt.Errorf("engine.tick_interval must be at least 1ms, got %s", c.Engine.TickInterval)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn or error", c.Log.Level)
	}
	return nil
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// DefaultPath returns ~/.config/timers/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "timers", "config.yaml"), nil
}
