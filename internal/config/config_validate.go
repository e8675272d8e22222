// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the configuration is usable. Tool and directory
// checks that touch the filesystem happen later, in main.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateQuery(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validatePrefs(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateQuery() error {
	if c.Query.Timebound <= 0 {
		return fmt.Errorf("TIMEBOUND must be a positive number of seconds")
	}
	if c.Query.DefaultPeriod < 0 {
		return fmt.Errorf("TIMEPERIOD must not be negative")
	}
	if c.Query.ResolutionPoints <= 0 {
		return fmt.Errorf("RESOLUTION must be positive")
	}
	if c.Query.Timeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}
	if c.Query.NodeRateLimit <= 0 || c.Query.NodeRateBurst < 1 {
		return fmt.Errorf("NODE_RATE_LIMIT must be positive and NODE_RATE_BURST at least 1")
	}
	if c.Query.DefaultTopN < 1 || c.Query.DefaultTopN > 100 {
		return fmt.Errorf("DEFAULT_TOPN must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateCache() error {
	if strings.TrimSpace(c.Cache.Dir) == "" {
		return fmt.Errorf("RESULTS_DIR is required")
	}
	if c.Cache.StatusTTL <= 0 {
		return fmt.Errorf("STATUS_TTL must be positive")
	}
	if c.Cache.ArtifactMaxAge < 0 {
		return fmt.Errorf("ARTIFACT_MAX_AGE must not be negative")
	}
	if c.Cache.SweepInterval < time.Second {
		return fmt.Errorf("CACHE_SWEEP_INTERVAL must be at least 1s")
	}
	return nil
}

func (c *Config) validateRender() error {
	if !c.Render.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Render.Gnuplot) == "" {
		return fmt.Errorf("GNUPLOT is required when RENDER_ENABLED=true")
	}
	if strings.TrimSpace(c.Render.Convert) == "" {
		return fmt.Errorf("CONVERT is required when RENDER_ENABLED=true")
	}
	if c.Render.Timeout <= 0 {
		return fmt.Errorf("RENDER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validatePrefs() error {
	if !c.Prefs.InMemory && strings.TrimSpace(c.Prefs.Path) == "" {
		return fmt.Errorf("PREFS_PATH is required unless PREFS_IN_MEMORY=true")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

// NodeAllowed reports whether addr may be queried.
func (c *Config) NodeAllowed(addr string) bool {
	if len(c.Query.NodeAllowlist) == 0 {
		return true
	}
	for _, a := range c.Query.NodeAllowlist {
		if strings.EqualFold(a, addr) {
			return true
		}
	}
	return false
}
