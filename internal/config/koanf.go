// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/comolive/config.yaml",
	"/etc/comolive/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    3860,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Query: QueryConfig{
			Timebound:        300,
			DefaultPeriod:    3600,
			ResolutionPoints: 200,
			Timeout:          30 * time.Second,
			NodeRateLimit:    10,
			NodeRateBurst:    20,
			DefaultTopN:      5,
		},
		Cache: CacheConfig{
			Dir:            "./results",
			Enabled:        true,
			StatusTTL:      600 * time.Second,
			ArtifactMaxAge: 24 * time.Hour,
			SweepInterval:  10 * time.Minute,
		},
		Render: RenderConfig{
			Enabled: true,
			Gnuplot: "/usr/bin/gnuplot",
			Convert: "/usr/bin/convert",
			Timeout: 60 * time.Second,
		},
		Prefs: PrefsConfig{
			Path: "./data/prefs",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration with precedence env > file > defaults and
// validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// RESULTS_DIR -> cache.dir, USECACHE -> cache.enabled
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
	"query.node_allowlist",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names to koanf paths. The
// uppercase names of the legacy comolive.conf keys are kept.
var envMappings = map[string]string{
	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"public_url":     "server.public_url",

	"timebound":       "query.timebound",
	"timeperiod":      "query.default_period",
	"resolution":      "query.resolution_points",
	"query_timeout":   "query.timeout",
	"node_rate_limit": "query.node_rate_limit",
	"node_rate_burst": "query.node_rate_burst",
	"default_topn":    "query.default_topn",
	"node_allowlist":  "query.node_allowlist",

	"results_dir":          "cache.dir",
	"usecache":             "cache.enabled",
	"status_ttl":           "cache.status_ttl",
	"artifact_max_age":     "cache.artifact_max_age",
	"cache_sweep_interval": "cache.sweep_interval",

	"render_enabled": "render.enabled",
	"gnuplot":        "render.gnuplot",
	"convert":        "render.convert",
	"render_timeout": "render.timeout",

	"prefs_path":      "prefs.path",
	"prefs_in_memory": "prefs.in_memory",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns "" for unmapped variables so unrelated
// environment does not leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
