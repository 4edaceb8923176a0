// Package config loads siteplan settings from defaults, an optional YAML or
// JSON file and SITEPLAN_ environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks environment overrides. A double underscore nests:
	// SITEPLAN_SCHEDULING__SORT_MODE=name sets scheduling.sort_mode.
	EnvPrefix = "SITEPLAN_"
	// EnvConfigPath names the config file when no --config flag is given.
	EnvConfigPath = "SITEPLAN_CONFIG"
)

type Config struct {
	Database   DatabaseConfig   `json:"database"`
	Log        LogConfig        `json:"log"`
	Metrics    MetricsConfig    `json:"metrics"`
	Scheduling SchedulingConfig `json:"scheduling"`
}

type DatabaseConfig struct {
	// Path of the SQLite plan store. Empty means ~/.siteplan/siteplan.db.
	Path string `json:"path"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills every unset section.
func (c *Config) SetDefaults() {
	c.Log.SetDefaults()
	c.Metrics.SetDefaults()
	c.Scheduling.SetDefaults()
}

func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Scheduling.Validate(); err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}
	return nil
}

// ResolvePath picks the config file: the explicit path, then
// $SITEPLAN_CONFIG, then ~/.siteplan/config.yaml when it exists.
// An empty result means defaults and environment only.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".siteplan", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Load reads path (skipped when empty), applies environment overrides,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %q", ext)
	}
}

// envKey maps SITEPLAN_SCHEDULING__SORT_MODE to scheduling.sort_mode.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	if s == strings.TrimPrefix(EnvConfigPath, EnvPrefix) {
		// The config path itself is not a setting.
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

var errEmpty = errors.New("must not be empty")
