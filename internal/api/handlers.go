// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/comolive/internal/cache"
	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/config"
	"github.com/tomtom215/comolive/internal/middleware"
	"github.com/tomtom215/comolive/internal/models"
	"github.com/tomtom215/comolive/internal/query"
	"github.com/tomtom215/comolive/internal/timewindow"
)

// QueryService is the part of query.Service the handlers use.
type QueryService interface {
	Handle(ctx context.Context, req query.Request) (*query.Result, error)
	Status(ctx context.Context, addr comonode.Address) (*models.NodeStatusSnapshot, error)
	Navigate(ctx context.Context, addr comonode.Address, module string, w timewindow.Window, action timewindow.Action) (*query.Navigation, error)
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_query.go: module queries
//   - handlers_nodes.go: node status, module listing and navigation
//   - handlers_artifacts.go: cached artifact downloads
//   - handlers_health.go: health probes
type Handler struct {
	config    *config.Config
	queries   QueryService
	store     *cache.Store
	perf      *middleware.PerformanceMonitor
	version   string
	startTime time.Time

	// renderReady reports whether the plotting tools were found at startup.
	renderReady bool
}

// NewHandler creates a Handler. store may be disabled but not nil.
//
// Example:
//
//	handler := api.NewHandler(cfg, svc, store, version, true)
//	router := api.NewRouter(handler)
//	http.ListenAndServe(":3860", router.SetupChi())
func NewHandler(cfg *config.Config, queries QueryService, store *cache.Store, version string, renderReady bool) *Handler {
	return &Handler{
		config:      cfg,
		queries:     queries,
		store:       store,
		perf:        middleware.NewPerformanceMonitor(1000, 0),
		version:     version,
		startTime:   time.Now(),
		renderReady: renderReady,
	}
}

// artifactURL links a cached file. PublicURL is prepended when set.
func (h *Handler) artifactURL(path string) string {
	name := path[strings.LastIndexByte(path, '/')+1:]
	return strings.TrimSuffix(h.config.Server.PublicURL, "/") + "/api/v1/artifacts/" + name
}
