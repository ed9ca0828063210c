package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/setscout/setscout/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 10, cfg.Scan.BatchSize)
	assert.Equal(t, 256, cfg.Scan.CacheSize)
	assert.True(t, cfg.Scan.WatchVolumes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Contains(t, cfg.Paths.Database, "catalog.db")
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Scan.BatchSize, cfg.Scan.BatchSize)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
version: 1
paths:
  database: /tmp/custom.db
  roots:
    - /Volumes/Samples
scan:
  batch_size: 20
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Paths.Database)
	assert.Equal(t, []string{"/Volumes/Samples"}, cfg.Paths.Roots)
	assert.Equal(t, 20, cfg.Scan.BatchSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields keep defaults.
	assert.Equal(t, 256, cfg.Scan.CacheSize)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.GetCode(err))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SETSCOUT_DB_PATH", "/tmp/env.db")
	t.Setenv("SETSCOUT_BATCH_SIZE", "5")
	t.Setenv("SETSCOUT_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.Paths.Database)
	assert.Equal(t, 5, cfg.Scan.BatchSize)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  batch_size: 20\n"), 0o644))
	t.Setenv("SETSCOUT_BATCH_SIZE", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scan.BatchSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "batch size zero", mutate: func(c *Config) { c.Scan.BatchSize = 0 }, ok: false},
		{name: "batch size too big", mutate: func(c *Config) { c.Scan.BatchSize = 101 }, ok: false},
		{name: "cache size zero", mutate: func(c *Config) { c.Scan.CacheSize = 0 }, ok: false},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, ok: false},
		{name: "empty database path", mutate: func(c *Config) { c.Paths.Database = "" }, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.GetCode(err))
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := Default()
	cfg.Scan.BatchSize = 7
	cfg.Paths.Roots = []string{"/Volumes/Archive"}
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Scan.BatchSize)
	assert.Equal(t, []string{"/Volumes/Archive"}, loaded.Paths.Roots)
}
