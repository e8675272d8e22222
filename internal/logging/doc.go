// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

// Package logging provides the process-wide zerolog logger for CoMoLive.
//
// Call Init once from main, then log through the level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("node", addr).Msg("status refreshed")
//
// Request-scoped logging picks up the request and correlation IDs that the
// HTTP middleware stores in the context:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("module unavailable")
//
// Environment variables (read by internal/config):
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
//
// NewSlogLogger adapts the logger to log/slog for the suture supervisor.
package logging
