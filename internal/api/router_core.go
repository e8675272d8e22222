// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"github.com/tomtom215/comolive/internal/config"
)

// Router wires a Handler and middleware into an http.Handler.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router whose middleware follows the handler's
// security configuration.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(middlewareConfig(handler.config)),
	}
}

func middlewareConfig(cfg *config.Config) *ChiMiddlewareConfig {
	mc := DefaultChiMiddlewareConfig()
	if cfg == nil {
		return mc
	}
	mc.CORSAllowedOrigins = cfg.Security.CORSOrigins
	if cfg.Security.RateLimitReqs > 0 {
		mc.RateLimitRequests = cfg.Security.RateLimitReqs
	}
	if cfg.Security.RateLimitWindow > 0 {
		mc.RateLimitWindow = cfg.Security.RateLimitWindow
	}
	mc.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mc
}
