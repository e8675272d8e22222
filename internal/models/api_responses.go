// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package models

import (
	"time"
)

// APIResponse is the envelope written by every JSON endpoint.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "MODULE_UNAVAILABLE",
//	    "message": "Sorry but this module is not available on this node at the moment."
//	  },
//	  "metadata": {"timestamp": "2026-10-19T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how the response was produced.
//
// QueryTimeMS is the wall time spent in the query pipeline. Cached is set
// when the artifact came from the on-disk cache without contacting the node.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a machine-readable code and a message fit for end users.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	CacheEnabled  bool   `json:"cache_enabled"`
	CacheWritable bool   `json:"cache_writable"`
	RenderEnabled bool   `json:"render_enabled"`
	// RenderReady is set when gnuplot and convert were found at startup.
	RenderReady bool    `json:"render_ready"`
	Uptime      float64 `json:"uptime_seconds"`
}
