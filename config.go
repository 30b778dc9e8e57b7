package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Aggregation modes.
const (
	// ModeQuality sums blueprint ID × best over all blueprints.
	ModeQuality = "quality"
	// ModeProduct multiplies the best values of the first Head blueprints.
	ModeProduct = "product"
)

// Config holds run parameters. Adjust MemoLimit to trade memory for speed.
type Config struct {
	// Horizon is the number of ticks simulated per blueprint.
	Horizon int `yaml:"horizon" json:"horizon"`
	// Mode selects how per-blueprint results are combined.
	Mode string `yaml:"mode" json:"mode"`
	// Head is how many leading blueprints ModeProduct considers.
	Head int `yaml:"head" json:"head"`
	// Workers bounds concurrent blueprint searches; 0 uses GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`
	// MemoLimit caps memo entries per blueprint search; 0 is unlimited.
	MemoLimit int `yaml:"memoLimit" json:"memoLimit"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns the parameters of the reference puzzle's first part.
func DefaultConfig() Config {
	return Config{
		Horizon:   24,
		Mode:      ModeQuality,
		Head:      3,
		MemoLimit: 1 << 22,
	}
}

// LoadConfig overlays a YAML file onto DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and the aggregation mode.
func (c Config) Validate() error {
	if c.Horizon < 1 || c.Horizon > MaxHorizon {
		return fmt.Errorf("%w: horizon %d outside 1..%d", ErrInvalidConfig, c.Horizon, MaxHorizon)
	}
	switch c.Mode {
	case ModeQuality:
	case ModeProduct:
		if c.Head < 1 {
			return fmt.Errorf("%w: head %d, want >= 1", ErrInvalidConfig, c.Head)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d, want >= 0", ErrInvalidConfig, c.Workers)
	}
	if c.MemoLimit < 0 {
		return fmt.Errorf("%w: memoLimit %d, want >= 0", ErrInvalidConfig, c.MemoLimit)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) searchOptions() SearchOptions {
	return SearchOptions{MemoLimit: c.MemoLimit}
}

// logger is replaced by the CLI once flags are parsed.
var logger = zap.NewNop()

// newLogger builds the production logger, at debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}
