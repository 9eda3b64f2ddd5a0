// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults and Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Data source selectors.
const (
	SourceFixture = "fixture"
	SourceLive    = "live"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataSource selects the backing store: fixture or live.
	DataSource string `koanf:"data_source"`

	// StorePath is the SQLite database path for the live store.
	// ":memory:" keeps it in-process.
	StorePath string `koanf:"store_path"`

	// SeedFixture loads the demo catalog into an empty live store on boot.
	SeedFixture bool `koanf:"seed_fixture"`

	// EventWindowDays bounds how far back the momentum feed reads events.
	EventWindowDays int `koanf:"event_window_days"`

	// RightsEmptyPoolPolicy selects fail-open or fail-closed when rights
	// gating empties a candidate pool.
	RightsEmptyPoolPolicy string `koanf:"rights_empty_pool_policy"`

	// CacheEnabled toggles the weekly scoreboard/pack cache.
	CacheEnabled bool `koanf:"cache_enabled"`

	// CachePath is the SQLite database path for the weekly cache.
	CachePath string `koanf:"cache_path"`

	// EventQueueSize bounds the in-memory ingest queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of append workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the event-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// RateLimitRPS and RateLimitBurst shape per-client request limits.
	// A non-positive RPS disables rate limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// RateLimitCacheSize bounds the number of tracked client limiters.
	RateLimitCacheSize int `koanf:"rate_limit_cache_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		DataSource:            SourceFixture,
		StorePath:             "pulse.db",
		SeedFixture:           true,
		EventWindowDays:       14,
		RightsEmptyPoolPolicy: "fail-open",
		CacheEnabled:          true,
		CachePath:             "pulse-cache.db",
		EventQueueSize:        100_000,
		WorkerCount:           runtime.NumCPU() * 4,
		DedupeSize:            500_000,
		RateLimitRPS:          50,
		RateLimitBurst:        100,
		RateLimitCacheSize:    10_000,
	}
}
