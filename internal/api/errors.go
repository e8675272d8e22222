// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"net/http"

	"github.com/tomtom215/comolive/internal/query"
)

// API error codes.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNodeNotAllowed     = "NODE_NOT_ALLOWED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeNodeUnreachable    = "NODE_UNREACHABLE"
	ErrCodeModuleUnavailable  = "MODULE_UNAVAILABLE"
	ErrCodeRenderError        = "RENDER_ERROR"
	ErrCodeConfigurationError = "CONFIGURATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeNotReady           = "NOT_READY"
)

// failureStatus maps a query failure kind to an HTTP status and error code.
func failureStatus(kind query.Kind) (int, string) {
	switch kind {
	case query.KindUnreachable:
		return http.StatusServiceUnavailable, ErrCodeNodeUnreachable
	case query.KindUnavailable:
		return http.StatusBadGateway, ErrCodeModuleUnavailable
	case query.KindRenderError:
		return http.StatusInternalServerError, ErrCodeRenderError
	case query.KindConfigurationError:
		return http.StatusInternalServerError, ErrCodeConfigurationError
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// respondFailure writes err, which should be a *query.Failure.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	f, ok := query.AsFailure(err)
	if !ok {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal error", err)
		return
	}
	status, code := failureStatus(f.Kind)
	respondError(w, r, status, code, f.Message, f.Err)
}
