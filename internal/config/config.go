// Package config layers tudu settings from defaults, a TOML file and the
// environment. Command-line flags are applied last by the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Built-in values used when neither config.toml nor the environment sets them.
const (
	DefaultList      = "todo"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Environment variables read by Load.
const (
	EnvList         = "TUDU_LIST"
	EnvLogLevel     = "TUDU_LOG_LEVEL"
	EnvLogFormat    = "TUDU_LOG_FORMAT"
	EnvAutoSave     = "TUDU_AUTOSAVE"
	EnvRelativeTime = "TUDU_RELATIVE_TIME"
)

// Config holds user-tunable settings.
type Config struct {
	// List names the list file opened when none is given on the command line.
	List string `toml:"list"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// AutoSave writes the list back when the TUI exits.
	AutoSave bool `toml:"autosave"`

	// RelativeTime renders creation times as "3 hours ago" instead of a timestamp.
	RelativeTime bool `toml:"relative_time"`

	// Path is the config file that was read, empty when none existed.
	Path string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		List:         DefaultList,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		AutoSave:     true,
		RelativeTime: true,
	}
}

// Load applies, in order: defaults, the TOML file at path (skipped when it
// does not exist), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("loading config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvList)); v != "" {
		cfg.List = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.LogFormat = v
	}
	if err := envBool(EnvAutoSave, &cfg.AutoSave); err != nil {
		return err
	}
	return envBool(EnvRelativeTime, &cfg.RelativeTime)
}

func envBool(name string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

// Validate rejects settings the rest of the program cannot honour.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug|info|warn|error)", c.LogLevel)
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q (expected text|json|logfmt)", c.LogFormat)
	}

	if strings.TrimSpace(c.List) == "" {
		c.List = DefaultList
	}
	return nil
}
