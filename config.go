package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when --config is not given. A missing file is not an error.
const DefaultConfigPath = "qhalfadder.yaml"

// Config holds every setting of a report run.
type Config struct {
	OutputDir   string      `yaml:"output_dir"`
	Shots       int         `yaml:"shots"`
	Backend     string      `yaml:"backend"`
	Seed        uint64      `yaml:"seed"`
	Concurrency int         `yaml:"concurrency"`
	TitleSuffix string      `yaml:"title_suffix"`
	Image       ImageConfig `yaml:"image"`
}

// ImageConfig sizes the PNG artifacts, in inches.
type ImageConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:   ".",
		Shots:       1024,
		Backend:     BackendStateVector,
		Concurrency: len(Combinations),
		TitleSuffix: "GRUPO 4",
		Image: ImageConfig{
			Width:  8,
			Height: 5,
		},
	}
}

// LoadConfig loads configuration from a YAML file, then applies .env and
// QHALFADDER_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// .env is optional; variables already in the environment win.
	_ = godotenv.Load()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("QHALFADDER_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("QHALFADDER_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("QHALFADDER_TITLE_SUFFIX"); v != "" {
		c.TitleSuffix = v
	}
	if v := os.Getenv("QHALFADDER_SHOTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QHALFADDER_SHOTS: %w", err)
		}
		c.Shots = n
	}
	if v := os.Getenv("QHALFADDER_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QHALFADDER_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv("QHALFADDER_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("QHALFADDER_SEED: %w", err)
		}
		c.Seed = n
	}
	return nil
}

// ValidBackends lists every backend name NewBackend accepts.
var ValidBackends = []string{BackendStateVector, BackendClassical}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Shots <= 0 {
		return fmt.Errorf("shots must be positive, got %d", c.Shots)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if !slices.Contains(ValidBackends, c.Backend) {
		return fmt.Errorf("%w: %s (valid: %v)", ErrUnknownBackend, c.Backend, ValidBackends)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %gx%g", c.Image.Width, c.Image.Height)
	}
	return nil
}
