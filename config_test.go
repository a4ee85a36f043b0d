package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qhalfadder.yaml")
	yaml := `output_dir: reports
shots: 2048
backend: classical
seed: 7
title_suffix: ""
image:
  width: 6
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "reports", cfg.OutputDir)
	assert.Equal(t, 2048, cfg.Shots)
	assert.Equal(t, BackendClassical, cfg.Backend)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Empty(t, cfg.TitleSuffix)
	assert.Equal(t, 6.0, cfg.Image.Width)
	assert.Equal(t, 5.0, cfg.Image.Height, "unset keys keep their default")
	assert.Equal(t, len(Combinations), cfg.Concurrency)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shots: [1, 2"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QHALFADDER_OUTPUT_DIR", "/tmp/out")
	t.Setenv("QHALFADDER_SHOTS", "99")
	t.Setenv("QHALFADDER_BACKEND", BackendClassical)
	t.Setenv("QHALFADDER_SEED", "12345")
	t.Setenv("QHALFADDER_CONCURRENCY", "1")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 99, cfg.Shots)
	assert.Equal(t, BackendClassical, cfg.Backend)
	assert.Equal(t, uint64(12345), cfg.Seed)
	assert.Equal(t, 1, cfg.Concurrency)
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("QHALFADDER_SHOTS", "many")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "QHALFADDER_SHOTS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero shots", func(c *Config) { c.Shots = 0 }},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }},
		{"unknown backend", func(c *Config) { c.Backend = "aer" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"zero image width", func(c *Config) { c.Image.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Backend = "aer"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownBackend)
}
