// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UpstreamBaseURL points at the chess server API root.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// UpstreamTimeoutMS bounds each outbound call, stream included.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// ShortMoveThreshold is the move count below which a game is short.
	ShortMoveThreshold int `koanf:"short_move_threshold"`

	// MinAnalyzedGames is the analyzed-game floor for ranking eligibility.
	MinAnalyzedGames int `koanf:"min_analyzed_games"`

	// MinAnalyzedRatio is the analyzed/played floor for ranking eligibility.
	MinAnalyzedRatio float64 `koanf:"min_analyzed_ratio"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		UpstreamBaseURL:    "https://lichess.org",
		UpstreamTimeoutMS:  10_000,
		ShortMoveThreshold: 10,
		MinAnalyzedGames:   4,
		MinAnalyzedRatio:   0.5,
	}
}
