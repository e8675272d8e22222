// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

// Package main provides the CoMoLive HTTP server
//
// @title CoMoLive API
// @version 1.0
// @description Query, plot and cache service for CoMo traffic monitoring nodes.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "NODE_UNREACHABLE",
// @description     "message": "Human-readable error message"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/comolive/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3860
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Query
// @tag.description Module queries, plot rendering and result caching
//
// @tag.name Nodes
// @tag.description Node status, module listing and time window navigation
//
// @tag.name Artifacts
// @tag.description Cached plot downloads
//
// @tag.name Core
// @tag.description Health checks and probes
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/tomtom215/comolive/docs" // Import generated swagger docs
	"github.com/tomtom215/comolive/internal/api"
	"github.com/tomtom215/comolive/internal/cache"
	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/config"
	"github.com/tomtom215/comolive/internal/logging"
	"github.com/tomtom215/comolive/internal/prefs"
	"github.com/tomtom215/comolive/internal/proxy"
	"github.com/tomtom215/comolive/internal/query"
	"github.com/tomtom215/comolive/internal/render"
	"github.com/tomtom215/comolive/internal/supervisor"
	"github.com/tomtom215/comolive/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("cache_dir", cfg.Cache.Dir).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Bool("render_enabled", cfg.Render.Enabled).
		Int("allowed_nodes", len(cfg.Query.NodeAllowlist)).
		Msg("Starting CoMoLive")

	store, err := cache.NewStore(cfg.Cache.Dir, cfg.Cache.Enabled)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Cache.Dir).Msg("Result directory is not usable")
	}

	tools := render.Tools{Gnuplot: cfg.Render.Gnuplot, Convert: cfg.Render.Convert}
	renderReady := false
	if cfg.Render.Enabled {
		if err := render.CheckTools(tools); err != nil {
			logging.Fatal().Err(err).Msg("Plot tools are not available")
		}
		renderReady = true
	} else {
		logging.Info().Msg("Plot rendering disabled (RENDER_ENABLED=false)")
	}

	transport := comonode.NewTransport(comonode.TransportConfig{
		Timeout:   cfg.Query.Timeout,
		RateLimit: cfg.Query.NodeRateLimit,
		RateBurst: cfg.Query.NodeRateBurst,
		// Without an allowlist node addresses come from clients.
		PerNodeMetrics: len(cfg.Query.NodeAllowlist) > 0,
	})
	statusClient := comonode.NewStatusClient(transport, cfg.Cache.Dir, cfg.Cache.StatusTTL)

	prefStore, err := prefs.Open(prefs.Config{Path: cfg.Prefs.Path, InMemory: cfg.Prefs.InMemory})
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Prefs.Path).Msg("Failed to open preference store")
	}
	defer func() {
		if err := prefStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference store")
		}
	}()

	svc := query.NewService(query.Config{
		Timebound:        cfg.Query.Timebound,
		DefaultPeriod:    cfg.Query.DefaultPeriod,
		ResolutionPoints: cfg.Query.ResolutionPoints,
		DefaultTopN:      cfg.Query.DefaultTopN,
		QueryURL:         strings.TrimSuffix(cfg.Server.PublicURL, "/") + "/api/v1/query",
		RenderEnabled:    cfg.Render.Enabled,
	}, query.Deps{
		Status:   statusClient,
		Fetcher:  proxy.New(transport),
		Renderer: render.NewRenderer(tools, cfg.Render.Timeout, ""),
		Store:    store,
		Prefs:    prefStore,
	})

	handler := api.NewHandler(cfg, svc, store, version, renderReady)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Rendering can outlast a plain read timeout.
		WriteTimeout: cfg.Server.Timeout + cfg.Render.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddMaintenanceService(services.NewSweeperService(store, statusClient, prefStore, services.SweeperConfig{
		Interval:       cfg.Cache.SweepInterval,
		ArtifactMaxAge: cfg.Cache.ArtifactMaxAge,
		SweepOnStart:   true,
	}, logging.WithComponent("sweeper")))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
		cancel()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, u := range unstopped {
			logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("CoMoLive stopped")
}
