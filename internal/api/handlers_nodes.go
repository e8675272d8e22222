// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/models"
	"github.com/tomtom215/comolive/internal/timewindow"
)

// ModulesResponse lists the modules of a node.
type ModulesResponse struct {
	Node    string              `json:"node"`
	Format  string              `json:"format,omitempty"`
	Names   []string            `json:"names"`
	Modules []models.ModuleInfo `json:"modules"`
}

// nodeParam parses and authorizes the {node} URL parameter. It writes the
// error response and returns false on failure.
func (h *Handler) nodeParam(w http.ResponseWriter, r *http.Request) (comonode.Address, bool) {
	raw := chi.URLParam(r, "node")
	addr, err := comonode.ParseAddress(raw)
	if err != nil {
		respondErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidation,
			"node must be host:port or a port number",
			map[string]interface{}{"field": "node", "value": raw}, nil)
		return comonode.Address{}, false
	}
	if !h.nodeAllowed(w, r, addr.String()) {
		return comonode.Address{}, false
	}
	return addr, true
}

// NodeStatus returns the parsed status of a node.
//
// @Summary Node status
// @Description Identity, clock, load and running modules of a CoMo node.
// @Tags Nodes
// @Produce json
// @Param node path string true "Node address"
// @Success 200 {object} models.APIResponse{data=models.NodeStatusSnapshot}
// @Failure 400 {object} models.APIResponse "Invalid node"
// @Failure 503 {object} models.APIResponse "Node unreachable"
// @Router /nodes/{node}/status [get]
func (h *Handler) NodeStatus(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.nodeParam(w, r)
	if !ok {
		return
	}
	snap, err := h.queries.Status(r.Context(), addr)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondSuccess(w, snap, models.Metadata{})
}

// NodeModules lists a node's modules, optionally only those offering a
// format.
//
// @Summary Node modules
// @Tags Nodes
// @Produce json
// @Param node path string true "Node address"
// @Param format query string false "Only modules offering this format"
// @Success 200 {object} models.APIResponse{data=ModulesResponse}
// @Failure 503 {object} models.APIResponse "Node unreachable"
// @Router /nodes/{node}/modules [get]
func (h *Handler) NodeModules(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.nodeParam(w, r)
	if !ok {
		return
	}
	snap, err := h.queries.Status(r.Context(), addr)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	resp := &ModulesResponse{Node: addr.String(), Format: format, Names: []string{}, Modules: []models.ModuleInfo{}}
	for _, m := range snap.Modules {
		if format != "" && !m.Supports(format) {
			continue
		}
		resp.Names = append(resp.Names, m.Name)
		resp.Modules = append(resp.Modules, m)
	}
	respondSuccess(w, resp, models.Metadata{})
}

// NodeNavigate moves a window by one navigation step.
//
// @Summary Navigate a time window
// @Description Applies zoom_in, zoom_out, forward, backward or until_now to a window using the node's clock.
// @Tags Nodes
// @Produce json
// @Param node path string true "Node address"
// @Param action query string true "Navigation action" Enums(zoom_in, zoom_out, forward, backward, until_now)
// @Param start query int true "Window start (epoch seconds)"
// @Param end query int true "Window end (epoch seconds)"
// @Param module query string false "Bound backward moves by this module's earliest data"
// @Success 200 {object} models.APIResponse{data=query.Navigation}
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 503 {object} models.APIResponse "Node unreachable"
// @Router /nodes/{node}/navigate [get]
func (h *Handler) NodeNavigate(w http.ResponseWriter, r *http.Request) {
	p := &NavigateParams{
		Node:   chi.URLParam(r, "node"),
		Module: strings.TrimSpace(r.URL.Query().Get("module")),
		Action: strings.TrimSpace(r.URL.Query().Get("action")),
	}
	var apiErr *models.APIError
	if p.Start, apiErr = parseInt64Param(r, "start"); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if p.End, apiErr = parseInt64Param(r, "end"); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	if apiErr := validateRequest(p); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	addr, ok := h.nodeParam(w, r)
	if !ok {
		return
	}
	action, err := timewindow.ParseAction(p.Action)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	nav, err := h.queries.Navigate(r.Context(), addr, p.Module, p.window(), action)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondSuccess(w, nav, models.Metadata{})
}
