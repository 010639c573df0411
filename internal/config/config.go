// Package config loads poet's settings from a YAML or JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asgeY/poet/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no file is given.
const DefaultPath = "poet.yaml"

// Config is the full set of settings.
type Config struct {
	Addr      string          `yaml:"addr" json:"addr"`
	LogLevel  string          `yaml:"log_level" json:"log_level"`
	LogFormat string          `yaml:"log_format" json:"log_format"`
	Redis     RedisConfig     `yaml:"redis" json:"redis"`
	Countdown CountdownConfig `yaml:"countdown" json:"countdown"`
	Catalog   string          `yaml:"catalog" json:"catalog"`
	Library   string          `yaml:"library" json:"library"`
	// Users seeds the authenticator with username → password pairs.
	Users map[string]string `yaml:"users" json:"users"`
}

// RedisConfig selects the Redis-backed authenticator and catalog. An empty
// Addr keeps everything in memory.
type RedisConfig struct {
	Addr   string `yaml:"addr" json:"addr"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// CountdownConfig configures the countdown screen.
type CountdownConfig struct {
	From     int           `yaml:"from" json:"from"`
	Interval time.Duration `yaml:"interval" json:"interval"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: string(logging.FormatText),
		Redis:     RedisConfig{Prefix: "poet:"},
		Countdown: CountdownConfig{From: 5, Interval: time.Second},
		Users:     map[string]string{"postman": "password"},
	}
}

// Load reads path over the defaults. A missing file is not an error when path
// is DefaultPath or empty, so poet runs without any configuration.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != "" && path != DefaultPath
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON, "":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.Countdown.From < 0 {
		return fmt.Errorf("countdown.from must not be negative, got %d", c.Countdown.From)
	}
	return nil
}

// Logger builds the logger described by the config.
func (c Config) Logger() *slog.Logger {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewWriter(os.Stderr, level, logging.Format(c.LogFormat))
}
