// Package config defines tool configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// APIBaseURL is the osu! API v1 compatible endpoint.
	APIBaseURL string `koanf:"api_base_url"`

	// BeatmapBaseURL serves raw .osu files by beatmap ID.
	BeatmapBaseURL string `koanf:"beatmap_base_url"`

	// APIKey authenticates v1 API requests.
	APIKey string `koanf:"api_key"`

	// APITimeoutMS bounds each remote request.
	APITimeoutMS int `koanf:"api_timeout_ms"`

	// CachePath locates the sqlite beatmap cache file.
	CachePath string `koanf:"cache_path"`

	// Workers sets the number of concurrent per-play evaluations.
	Workers int `koanf:"workers"`

	// BestLimit caps how many best plays are fetched per profile.
	BestLimit int `koanf:"best_limit"`

	// Decay is the rank-decay factor; must stay in (0, 1).
	Decay float64 `koanf:"decay"`

	// MinFitSample is the smallest sample the curve fit runs on.
	MinFitSample int `koanf:"min_fit_sample"`

	// MetricsAddr, when set, serves Prometheus metrics on that address.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults. Context is accepted first to match
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		APIBaseURL:     "https://osu.ppy.sh/api",
		BeatmapBaseURL: "https://osu.ppy.sh/osu",
		APITimeoutMS:   30_000,
		CachePath:      "beatmaps.db",
		Workers:        runtime.NumCPU() * 2,
		BestLimit:      100,
		Decay:          0.95,
		MinFitSample:   100,
	}
}
