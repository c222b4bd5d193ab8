// Package config loads and validates the SDK configuration.
//
// Values are merged from environment variables and an optional JSON file
// (last non-zero value wins), then normalised: a lower bound is enforced on
// the sync interval and sane defaults fill any remaining gaps.
package config

import (
	"time"
)

// Defaults applied by normalize when a field is left unset.
const (
	DefaultBaseURL        = "https://lists.tilbuda.io"
	DefaultRequestTimeout = 15 * time.Second
	DefaultDispatchers    = 2
	DefaultFullSyncEvery  = 3

	// MinSyncInterval is the floor on the sync loop cadence. The interval is
	// configurable upward only, to spare both the device and the server.
	MinSyncInterval = 3 * time.Second
)

// Config is the top-level configuration container for the SDK. It aggregates
// all sub-configurations and is populated by merging values from environment
// variables and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type Config struct {
	// API holds the remote endpoint address and credentials.
	API API `envPrefix:"API_"`

	// Storage holds local persistence settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds background sync loop settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds logging output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file. When
	// non-empty, the file is parsed and merged on top of the environment.
	// Env: SHOPLIST_CONFIG
	JSONFilePath string `env:"CONFIG"`
}

// API holds network settings for the outbound transport layer.
type API struct {
	// BaseURL is the root URL of the list service, scheme included.
	// Env: SHOPLIST_API_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Key identifies the application to the API.
	// Env: SHOPLIST_API_KEY
	Key string `env:"KEY"`

	// Secret is the shared secret used to sign requests
	// (X-Signature = sha256(secret + token)). Must be kept confidential.
	// Env: SHOPLIST_API_SECRET
	Secret string `env:"SECRET"`

	// RequestTimeout is the connect+read timeout for a single request.
	// Env: SHOPLIST_API_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Dispatchers is the number of worker goroutines draining the request
	// queue in parallel.
	// Env: SHOPLIST_API_DISPATCHERS
	Dispatchers int `env:"DISPATCHERS"`
}

// Storage holds settings for the local persistent store.
type Storage struct {
	// DBPath is the SQLite database file backing the local store.
	// ":memory:" keeps everything in process memory (useful for tests).
	// Env: SHOPLIST_STORAGE_DB_PATH
	DBPath string `env:"DB_PATH"`
}

// Sync holds background sync loop settings.
type Sync struct {
	// Interval is the delay between sync ticks. Values below MinSyncInterval
	// are raised to it.
	// Env: SHOPLIST_SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// FullSyncEvery selects how often a tick performs a full list refresh
	// instead of the lightweight modified probe (every Nth tick).
	// Env: SHOPLIST_SYNC_FULL_SYNC_EVERY
	FullSyncEvery int `env:"FULL_SYNC_EVERY"`
}

// Log holds logging output settings.
type Log struct {
	// File is an optional log file path; rotation is handled by the logger.
	// Empty means stderr.
	// Env: SHOPLIST_LOG_FILE
	File string `env:"FILE"`
}

// Load merges and validates the SDK configuration from all available sources
// in priority order (last non-zero source wins):
//  1. Environment variables (prefix SHOPLIST_)
//  2. JSON file (path resolved from source 1)
//
// Returns a fully populated *Config or an error if any source fails to load
// or the final config fails validation.
func Load() (*Config, error) {
	return newBuilder().
		withEnv().
		withJSON().
		build()
}

// normalize fills defaults and enforces bounds on the merged configuration.
func (cfg *Config) normalize() {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.RequestTimeout <= 0 {
		cfg.API.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.API.Dispatchers <= 0 {
		cfg.API.Dispatchers = DefaultDispatchers
	}
	if cfg.Sync.Interval < MinSyncInterval {
		cfg.Sync.Interval = MinSyncInterval
	}
	if cfg.Sync.FullSyncEvery <= 0 {
		cfg.Sync.FullSyncEvery = DefaultFullSyncEvery
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = ":memory:"
	}
}
