// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/comolive/internal/cache"
	"github.com/tomtom215/comolive/internal/middleware"
	"github.com/tomtom215/comolive/internal/models"
)

// HealthResponse is the data of GET /api/v1/health.
type HealthResponse struct {
	models.HealthStatus
	// Routes holds latency percentiles of recent API requests.
	Routes []middleware.RouteStats `json:"routes,omitempty"`
}

// cacheWritable probes the artifact directory. A disabled cache counts as
// writable since nothing is written.
func (h *Handler) cacheWritable() bool {
	if h.store == nil || !h.store.Enabled() {
		return true
	}
	return cache.EnsureWritable(h.store.Dir()) == nil
}

// Health reports service status.
//
// @Summary Service health
// @Description Version, uptime, cache state and whether plot rendering is available.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=HealthResponse}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writable := h.cacheWritable()
	renderEnabled := h.config != nil && h.config.Render.Enabled

	status := "healthy"
	if !writable || (renderEnabled && !h.renderReady) {
		status = "degraded"
	}

	respondSuccess(w, HealthResponse{
		HealthStatus: models.HealthStatus{
			Status:        status,
			Version:       h.version,
			CacheEnabled:  h.store != nil && h.store.Enabled(),
			CacheWritable: writable,
			RenderEnabled: renderEnabled,
			RenderReady:   h.renderReady,
			Uptime:        time.Since(h.startTime).Seconds(),
		},
		Routes: h.perf.Stats(),
	}, models.Metadata{})
}

// HealthLive answers 200 while the process runs.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady answers 200 only when the artifact cache can be written.
//
// @Summary Readiness probe
// @Description Returns 503 when the cache directory is not writable.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.cacheWritable() {
		respondErrorWithDetails(w, r, http.StatusServiceUnavailable, ErrCodeNotReady,
			"Cache directory is not writable",
			map[string]interface{}{"cache_dir": h.store.Dir()}, nil)
		return
	}
	respondSuccess(w, map[string]interface{}{
		"ready":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}
