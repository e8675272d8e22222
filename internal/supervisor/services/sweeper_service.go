// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ArtifactSweeper removes artifacts older than maxAge.
type ArtifactSweeper interface {
	Sweep(maxAge time.Duration, now time.Time) (int, error)
}

// StatusSweeper removes expired node status files.
type StatusSweeper interface {
	SweepExpired() int
}

// Compactor reclaims space in a key-value store.
type Compactor interface {
	RunGC() error
}

// SweeperConfig configures the SweeperService.
type SweeperConfig struct {
	// Interval between sweeps. Default: 10m
	Interval time.Duration
	// ArtifactMaxAge is the age past which artifacts are removed. Zero
	// keeps artifacts and only removes abandoned temp files.
	ArtifactMaxAge time.Duration
	// SweepOnStart runs one sweep before the first tick.
	SweepOnStart bool
}

// SweeperService keeps the cache directory bounded. Artifacts, status
// and prefs may each be nil.
type SweeperService struct {
	artifacts ArtifactSweeper
	status    StatusSweeper
	prefs     Compactor
	config    SweeperConfig
	logger    zerolog.Logger
	now       func() time.Time
	name      string
}

// NewSweeperService creates a SweeperService.
//
//nolint:gocritic // zerolog.Logger is passed by value by convention
func NewSweeperService(artifacts ArtifactSweeper, status StatusSweeper, prefs Compactor, cfg SweeperConfig, logger zerolog.Logger) *SweeperService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	return &SweeperService{
		artifacts: artifacts,
		status:    status,
		prefs:     prefs,
		config:    cfg,
		logger:    logger.With().Str("service", "cache-sweeper").Logger(),
		now:       time.Now,
		name:      "cache-sweeper",
	}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Dur("artifact_max_age", s.config.ArtifactMaxAge).
		Msg("Cache sweeper starting")

	if s.config.SweepOnStart {
		s.SweepOnce()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Cache sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepResult counts what one sweep removed.
type SweepResult struct {
	Artifacts int
	Statuses  int
}

// SweepOnce runs every configured sweep. Failures are logged and do not
// stop the remaining sweeps.
func (s *SweeperService) SweepOnce() SweepResult {
	var res SweepResult
	start := s.now()

	if s.artifacts != nil {
		n, err := s.artifacts.Sweep(s.config.ArtifactMaxAge, start)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Artifact sweep incomplete")
		}
		res.Artifacts = n
	}
	if s.status != nil {
		res.Statuses = s.status.SweepExpired()
	}
	if s.prefs != nil {
		if err := s.prefs.RunGC(); err != nil {
			s.logger.Warn().Err(err).Msg("Preference store compaction failed")
		}
	}

	ev := s.logger.Debug()
	if res.Artifacts > 0 || res.Statuses > 0 {
		ev = s.logger.Info()
	}
	ev.Int("artifacts", res.Artifacts).
		Int("statuses", res.Statuses).
		Dur("duration", s.now().Sub(start)).
		Msg("Cache sweep complete")
	return res
}

// String implements fmt.Stringer.
func (s *SweeperService) String() string {
	return s.name
}
