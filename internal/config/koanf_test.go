// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns the documented defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Query.Timebound != 300 {
		t.Errorf("Query.Timebound = %d, want 300", cfg.Query.Timebound)
	}
	if cfg.Query.DefaultPeriod != 3600 {
		t.Errorf("Query.DefaultPeriod = %d, want 3600", cfg.Query.DefaultPeriod)
	}
	if cfg.Query.ResolutionPoints != 200 {
		t.Errorf("Query.ResolutionPoints = %d, want 200", cfg.Query.ResolutionPoints)
	}
	if cfg.Query.DefaultTopN != 5 {
		t.Errorf("Query.DefaultTopN = %d, want 5", cfg.Query.DefaultTopN)
	}
	if cfg.Cache.StatusTTL != 600*time.Second {
		t.Errorf("Cache.StatusTTL = %v, want 10m", cfg.Cache.StatusTTL)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"TIMEBOUND", "query.timebound"},
		{"TIMEPERIOD", "query.default_period"},
		{"RESOLUTION", "query.resolution_points"},
		{"RESULTS_DIR", "cache.dir"},
		{"USECACHE", "cache.enabled"},
		{"GNUPLOT", "render.gnuplot"},
		{"CONVERT", "render.convert"},
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TIMEBOUND", "60")
	t.Setenv("USECACHE", "false")
	t.Setenv("RESULTS_DIR", "/tmp/comolive-results")
	t.Setenv("STATUS_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("NODE_ALLOWLIST", "localhost:44444")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Query.Timebound != 60 {
		t.Errorf("Timebound = %d, want 60", cfg.Query.Timebound)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled")
	}
	if cfg.Cache.Dir != "/tmp/comolive-results" {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
	if cfg.Cache.StatusTTL != 5*time.Minute {
		t.Errorf("StatusTTL = %v, want 5m", cfg.Cache.StatusTTL)
	}
	want := []string{"https://a.example.org", "https://b.example.org"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if !cfg.NodeAllowed("localhost:44444") || cfg.NodeAllowed("evil.example.org:80") {
		t.Errorf("allowlist not applied: %v", cfg.Query.NodeAllowlist)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
query:
  timebound: 900
  resolution_points: 100
render:
  convert: "/usr/bin/convert -density 100"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RESOLUTION", "400")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Query.Timebound != 900 {
		t.Errorf("Timebound = %d, want 900 from file", cfg.Query.Timebound)
	}
	if cfg.Query.ResolutionPoints != 400 {
		t.Errorf("ResolutionPoints = %d, want env override 400", cfg.Query.ResolutionPoints)
	}
	if cfg.Render.Convert != "/usr/bin/convert -density 100" {
		t.Errorf("Render.Convert = %q", cfg.Render.Convert)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero timebound", func(c *Config) { c.Query.Timebound = 0 }, "TIMEBOUND"},
		{"negative period", func(c *Config) { c.Query.DefaultPeriod = -1 }, "TIMEPERIOD"},
		{"zero resolution", func(c *Config) { c.Query.ResolutionPoints = 0 }, "RESOLUTION"},
		{"empty results dir", func(c *Config) { c.Cache.Dir = " " }, "RESULTS_DIR"},
		{"missing gnuplot", func(c *Config) { c.Render.Gnuplot = "" }, "GNUPLOT"},
		{"render disabled skips tools", func(c *Config) { c.Render.Enabled = false; c.Render.Gnuplot = "" }, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"bad topn", func(c *Config) { c.Query.DefaultTopN = 0 }, "DEFAULT_TOPN"},
		{"rate limit disabled", func(c *Config) { c.Security.RateLimitDisabled = true; c.Security.RateLimitReqs = 0 }, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}
