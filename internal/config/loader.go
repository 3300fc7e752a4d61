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
//  1. defaults (New(ctx))
//  2. file (YAML) if PPTALLY_CONFIG is set
//  3. env (prefix PPTALLY_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("PPTALLY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PPTALLY_API_KEY, PPTALLY_WORKERS, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("PPTALLY_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "pptally_")
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
	if c.APIBaseURL == "" {
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	}
	if c.BeatmapBaseURL == "" {
		return fmt.Errorf("%w: beatmap_base_url must not be empty", ErrInvalidConfig)
	}
	if c.Decay <= 0 || c.Decay >= 1 {
		return fmt.Errorf("%w: decay must be in (0, 1), got %v", ErrInvalidConfig, c.Decay)
	}
	if c.MinFitSample <= 0 {
		return fmt.Errorf("%w: min_fit_sample must be positive", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.BestLimit <= 0 {
		return fmt.Errorf("%w: best_limit must be positive", ErrInvalidConfig)
	}
	if c.APITimeoutMS <= 0 {
		return fmt.Errorf("%w: api_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
