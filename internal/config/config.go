// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package config

import "time"

// Config is the complete service configuration. It is loaded once at
// startup and handed to constructors; nothing reads it globally.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Query    QueryConfig    `koanf:"query"`
	Cache    CacheConfig    `koanf:"cache"`
	Render   RenderConfig   `koanf:"render"`
	Prefs    PrefsConfig    `koanf:"prefs"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
	// PublicURL prefixes artifact links and module drill-down URLs. Empty
	// means links are relative.
	PublicURL string `koanf:"public_url"`
}

// QueryConfig controls time alignment and how nodes are contacted.
type QueryConfig struct {
	// Timebound is the granularity, in seconds, every window is aligned to.
	Timebound int64 `koanf:"timebound"`
	// DefaultPeriod is the window length, in seconds, used when no start is given.
	DefaultPeriod int64 `koanf:"default_period"`
	// ResolutionPoints is the number of samples a plot should contain.
	ResolutionPoints int64         `koanf:"resolution_points"`
	Timeout          time.Duration `koanf:"timeout"`
	NodeRateLimit    float64       `koanf:"node_rate_limit"`
	NodeRateBurst    int           `koanf:"node_rate_burst"`
	DefaultTopN      int           `koanf:"default_topn"`
	// NodeAllowlist restricts which nodes may be queried. Empty allows any.
	NodeAllowlist []string `koanf:"node_allowlist"`
}

// CacheConfig controls the status and artifact caches.
type CacheConfig struct {
	Dir            string        `koanf:"dir"`
	Enabled        bool          `koanf:"enabled"`
	StatusTTL      time.Duration `koanf:"status_ttl"`
	ArtifactMaxAge time.Duration `koanf:"artifact_max_age"`
	SweepInterval  time.Duration `koanf:"sweep_interval"`
}

// RenderConfig locates the external plotting tools.
type RenderConfig struct {
	Enabled bool   `koanf:"enabled"`
	Gnuplot string `koanf:"gnuplot"`
	// Convert may carry extra arguments separated by spaces.
	Convert string        `koanf:"convert"`
	Timeout time.Duration `koanf:"timeout"`
}

// PrefsConfig locates the preference store.
type PrefsConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// SecurityConfig holds inbound HTTP protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
