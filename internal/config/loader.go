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
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if GAMBIT_CONFIG is set
//  3. env (prefix GAMBIT_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("GAMBIT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GAMBIT_ADDR, GAMBIT_UPSTREAM_BASE_URL, ...
	// Map env keys like GAMBIT_UPSTREAM_TIMEOUT_MS -> upstream_timeout_ms.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GAMBIT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gambit_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("%w: upstream_base_url must not be empty", ErrInvalidConfig)
	}
	if cfg.UpstreamTimeoutMS <= 0 {
		return nil, fmt.Errorf("%w: upstream_timeout_ms must be positive", ErrInvalidConfig)
	}
	if cfg.MinAnalyzedRatio <= 0 || cfg.MinAnalyzedRatio > 1 {
		return nil, fmt.Errorf("%w: min_analyzed_ratio must be in (0, 1]", ErrInvalidConfig)
	}
	return &cfg, nil
}
