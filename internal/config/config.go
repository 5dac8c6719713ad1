// Package config handles configuration loading from TOML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = ".docsteward.toml"

// Config is the root configuration structure.
type Config struct {
	// Output is the path the coverage report JSON is written to.
	Output  string        `toml:"output"`
	History HistoryConfig `toml:"history"`
	Analyze AnalyzeConfig `toml:"analyze"`
	Logging LoggingConfig `toml:"logging"`
}

// HistoryConfig controls the SQLite report history store.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// AnalyzeConfig holds file-selection settings.
type AnalyzeConfig struct {
	// MaxFileSize skips files larger than this many bytes; 0 means the
	// default cap.
	MaxFileSize int `toml:"max_file_size"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

const defaultMaxFileSize = 1_000_000 // 1 MB

// OutputOrDefault returns the configured report path or the default.
func (c *Config) OutputOrDefault() string {
	if c.Output == "" {
		return filepath.Join("storage", "review_logs.json")
	}
	return c.Output
}

// MaxFileSizeOrDefault returns the configured size cap or 1 MB.
func (a AnalyzeConfig) MaxFileSizeOrDefault() int {
	if a.MaxFileSize <= 0 {
		return defaultMaxFileSize
	}
	return a.MaxFileSize
}

// HistoryPath returns the configured history database path, defaulting
// to docsteward.db next to the report output.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(filepath.Dir(c.OutputOrDefault()), "docsteward.db")
}

// Load reads configuration from a TOML file and applies environment
// variable overrides. A missing file at the default path is not an
// error: every field has a usable zero default. An explicitly given
// path must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Analyze.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("analyze.max_file_size=%d must not be negative", c.Analyze.MaxFileSize))
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level=%q is not a known level", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"DOCSTEWARD_OUTPUT", func(v string) {
			if v != "" {
				cfg.Output = v
			}
		}},
		{"DOCSTEWARD_HISTORY_DB", func(v string) {
			if v != "" {
				cfg.History.Path = v
				cfg.History.Enabled = true
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}
