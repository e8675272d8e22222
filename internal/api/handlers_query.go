// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/config"
	"github.com/tomtom215/comolive/internal/logging"
	"github.com/tomtom215/comolive/internal/models"
	"github.com/tomtom215/comolive/internal/prefs"
	"github.com/tomtom215/comolive/internal/query"
	"github.com/tomtom215/comolive/internal/timewindow"
)

// ClientCookie identifies a browser for stored preferences.
const ClientCookie = "comolive_client"

const clientCookieMaxAge = 365 * 24 * 60 * 60

// QueryResponse is the data of a successful query.
type QueryResponse struct {
	Key         string            `json:"key"`
	Node        string            `json:"node"`
	Module      string            `json:"module"`
	Format      string            `json:"format"`
	ContentType string            `json:"content_type"`
	Window      timewindow.Window `json:"window"`
	Filter      string            `json:"filter,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
	Cached      bool              `json:"cached"`
	Placeholder bool              `json:"placeholder,omitempty"`
	Outcome     string            `json:"outcome"`

	// Content is the node's answer for text formats.
	Content string `json:"content,omitempty"`
	// Image and Vector link the rendered JPEG and EPS.
	Image  string `json:"image,omitempty"`
	Vector string `json:"vector,omitempty"`
	// ImageData carries the JPEG inline when the cache is disabled.
	ImageData []byte `json:"image_data,omitempty"`
}

// Query runs a module query on a node.
//
// @Summary Query a CoMo module
// @Description Fetches a module's output for a time window, rendering gnuplot output to JPEG. Results are cached by request.
// @Tags Query
// @Produce json
// @Param node query string true "Node address (host:port or port)"
// @Param module query string true "Module name"
// @Param format query string false "Output format" Enums(gnuplot, html, plain, pretty, sidebox) default(gnuplot)
// @Param start query int false "Window start (epoch seconds)"
// @Param end query int false "Window end (epoch seconds)"
// @Param filter query string false "Packet filter overriding the module's"
// @Param topn query int false "Top-N entries for top-list modules" minimum(1) maximum(100)
// @Param ip query string false "Restrict to a destination IP or prefix"
// @Param blincview query bool false "Use the BLINC view of top-list modules"
// @Param raw query bool false "Return the artifact bytes instead of JSON"
// @Success 200 {object} models.APIResponse{data=QueryResponse}
// @Success 204 "Empty plot with raw=1"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 403 {object} models.APIResponse "Node not allowed"
// @Failure 502 {object} models.APIResponse "Module unavailable"
// @Failure 503 {object} models.APIResponse "Node unreachable"
// @Router /query [get]
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	params, apiErr := parseQueryParams(r)
	if apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if apiErr := validateRequest(params); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	addr, err := comonode.ParseAddress(params.Node)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if !h.nodeAllowed(w, r, addr.String()) {
		return
	}

	req := params.toRequest(addr, h.clientID(w, r))
	res, err := h.queries.Handle(r.Context(), req)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("node", res.Query.Node).
		Str("module", res.Query.Module).
		Str("window", res.Query.Window.String()).
		Str("outcome", res.Outcome).
		Msg("Query answered")

	if params.Raw {
		h.writeRaw(w, r, res.Artifact)
		return
	}
	respondSuccess(w, h.queryResponse(res), models.Metadata{
		QueryTimeMS: time.Since(started).Milliseconds(),
		Cached:      res.Artifact.Cached,
	})
}

func (h *Handler) queryResponse(res *query.Result) *QueryResponse {
	a := res.Artifact
	resp := &QueryResponse{
		Key:         a.Key,
		Node:        res.Query.Node,
		Module:      res.Query.Module,
		Format:      a.Format,
		ContentType: a.ContentType,
		Window:      res.Query.Window,
		Filter:      res.Query.Filter,
		Extra:       res.Query.Extra,
		Cached:      a.Cached,
		Placeholder: a.Placeholder,
		Outcome:     res.Outcome,
	}
	switch {
	case a.Placeholder:
	case !models.IsPlotFormat(a.Format):
		resp.Content = string(a.Data)
	case a.Path != "":
		resp.Image = h.artifactURL(a.Path)
		if a.VectorPath != "" {
			resp.Vector = h.artifactURL(a.VectorPath)
		}
	default:
		resp.ImageData = a.Data
	}
	return resp
}

func (h *Handler) writeRaw(w http.ResponseWriter, r *http.Request, a *models.Artifact) {
	if a.Placeholder {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write artifact")
	}
}

// nodeAllowed answers 403 when addr is outside the configured allowlist.
func (h *Handler) nodeAllowed(w http.ResponseWriter, r *http.Request, addr string) bool {
	if h.config == nil || h.config.NodeAllowed(addr) {
		return true
	}
	respondErrorWithDetails(w, r, http.StatusForbidden, ErrCodeNodeNotAllowed,
		"Queries to this node are not allowed",
		map[string]interface{}{"node": addr}, nil)
	return false
}

// clientID returns the preference client ID from the request cookie,
// issuing a new one when absent or malformed.
func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(ClientCookie); err == nil && validClientID(c.Value) {
		return c.Value
	}
	id := prefs.NewClientID()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   clientCookieMaxAge,
		HttpOnly: true,
		Secure:   secureRequest(r, h.config),
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func validClientID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	return !strings.ContainsAny(id, ": ;")
}

func secureRequest(r *http.Request, cfg *config.Config) bool {
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		return true
	}
	return cfg != nil && strings.HasPrefix(cfg.Server.PublicURL, "https://")
}
