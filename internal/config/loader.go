package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ONTOBENCH_CONFIG is set
//  3. env (prefix ONTOBENCH_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ONTOBENCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Env keys like ONTOBENCH_QUEUE_SIZE map to flat koanf keys
	// (queue_size); underscores are preserved to match struct tags.
	envProvider := env.Provider("ONTOBENCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "ontobench_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.BinCount < 1:
		return fmt.Errorf("%w: bin_count must be positive", ErrInvalidConfig)
	case c.CoveragePoints < 1:
		return fmt.Errorf("%w: coverage_points must be positive", ErrInvalidConfig)
	case c.SignificanceThreshold <= 0 || c.SignificanceThreshold >= 1:
		return fmt.Errorf("%w: significance_threshold must be in (0,1)", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	for _, t := range c.AbstentionThresholds {
		if t < 0 || t > 1 {
			return fmt.Errorf("%w: abstention threshold %v outside [0,1]", ErrInvalidConfig, t)
		}
	}
	return nil
}
