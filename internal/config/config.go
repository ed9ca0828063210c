// Package config loads and validates the setscout configuration.
// Settings come from ~/.setscout/config.yaml with SETSCOUT_* environment
// variables taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/setscout/setscout/internal/errors"
)

// Config is the complete setscout configuration.
type Config struct {
	Version int         `yaml:"version"`
	Paths   PathsConfig `yaml:"paths"`
	Scan    ScanConfig  `yaml:"scan"`
	Log     LogConfig   `yaml:"log"`
}

// PathsConfig configures where the catalog lives and which roots to scan.
type PathsConfig struct {
	// Database is the catalog database file.
	// Defaults to ~/.setscout/catalog.db.
	Database string `yaml:"database"`

	// Roots are additional scan roots beyond the auto-detected defaults.
	Roots []string `yaml:"roots"`

	// Exclude lists directory names skipped during crawling, on top of
	// the built-in backup and trash markers.
	Exclude []string `yaml:"exclude"`
}

// ScanConfig tunes the scan pipeline.
type ScanConfig struct {
	// BatchSize is the number of files parsed concurrently per batch.
	BatchSize int `yaml:"batch_size"`

	// CacheSize is the number of parsed results kept in the in-memory
	// cache, keyed by content hash.
	CacheSize int `yaml:"cache_size"`

	// WatchVolumes enables scanning newly mounted external volumes.
	WatchVolumes bool `yaml:"watch_volumes"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Database: filepath.Join(baseDir(), "catalog.db"),
		},
		Scan: ScanConfig{
			BatchSize:    10,
			CacheSize:    256,
			WatchVolumes: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// baseDir is the setscout home directory.
func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".setscout"
	}
	return filepath.Join(home, ".setscout")
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// Load reads the config file at path, applies environment overrides, and
// validates the result. A missing file yields defaults, not an error.
// An empty path uses the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrCodeConfigNotFound,
				fmt.Sprintf("cannot read config file %s", path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.New(apperrors.ErrCodeConfigInvalid,
				fmt.Sprintf("invalid YAML in %s", path), err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SETSCOUT_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SETSCOUT_DB_PATH"); v != "" {
		c.Paths.Database = v
	}
	if v := os.Getenv("SETSCOUT_ROOTS"); v != "" {
		c.Paths.Roots = strings.Split(v, string(os.PathListSeparator))
	}
	if v := os.Getenv("SETSCOUT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.BatchSize = n
		}
	}
	if v := os.Getenv("SETSCOUT_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.CacheSize = n
		}
	}
	if v := os.Getenv("SETSCOUT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SETSCOUT_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// Validate checks ranges on everything a user can set.
func (c *Config) Validate() error {
	if c.Scan.BatchSize < 1 || c.Scan.BatchSize > 100 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("scan.batch_size must be between 1 and 100, got %d", c.Scan.BatchSize), nil)
	}
	if c.Scan.CacheSize < 1 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("scan.cache_size must be positive, got %d", c.Scan.CacheSize), nil)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level), nil)
	}

	if c.Paths.Database == "" {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "paths.database must not be empty", nil)
	}
	return nil
}

// Write saves the configuration as YAML, creating parent directories.
func (c *Config) Write(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "cannot create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "cannot marshal config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "cannot write config file", err)
	}
	return nil
}
