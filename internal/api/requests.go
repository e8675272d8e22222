// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/models"
	"github.com/tomtom215/comolive/internal/query"
	"github.com/tomtom215/comolive/internal/timewindow"
)

// QueryParams are the parameters of GET /api/v1/query.
type QueryParams struct {
	Node      string `query:"node" validate:"required,comonode"`
	Module    string `query:"module" validate:"required,comomodule"`
	Format    string `query:"format" validate:"oneof=gnuplot html plain pretty sidebox"`
	Start     int64  `query:"start" validate:"gte=0"`
	End       int64  `query:"end" validate:"omitempty,gtefield=Start"`
	Filter    string `query:"filter" validate:"max=1024"`
	TopN      int    `query:"topn" validate:"omitempty,min=1,max=100"`
	IP        string `query:"ip" validate:"omitempty,ipprefix"`
	Blincview bool   `query:"blincview"`
	Raw       bool   `query:"raw"`

	// Extra holds every other parameter, passed to the module as-is.
	Extra map[string]string `query:"-"`
}

// queryParamNames are the parameters QueryParams binds explicitly.
var queryParamNames = map[string]bool{
	"node": true, "module": true, "format": true, "start": true, "end": true,
	"filter": true, "topn": true, "ip": true, "blincview": true, "raw": true,
}

// parseQueryParams binds r's query string. Syntax errors are returned as an
// API error; constraint checks are left to validateRequest.
func parseQueryParams(r *http.Request) (*QueryParams, *models.APIError) {
	q := r.URL.Query()
	p := &QueryParams{
		Node:      strings.TrimSpace(q.Get("node")),
		Module:    strings.TrimSpace(q.Get("module")),
		Format:    strings.ToLower(strings.TrimSpace(q.Get("format"))),
		Filter:    q.Get("filter"),
		IP:        strings.TrimSpace(q.Get("ip")),
		Blincview: parseBoolParam(r, "blincview"),
		Raw:       parseBoolParam(r, "raw"),
	}
	if p.Format == "" {
		p.Format = models.FormatGnuplot
	}

	var apiErr *models.APIError
	if p.Start, apiErr = parseInt64Param(r, "start"); apiErr != nil {
		return nil, apiErr
	}
	if p.End, apiErr = parseInt64Param(r, "end"); apiErr != nil {
		return nil, apiErr
	}
	topN, apiErr := parseInt64Param(r, "topn")
	if apiErr != nil {
		return nil, apiErr
	}
	p.TopN = int(topN)
	if topN > 1<<20 {
		p.TopN = 1 << 20
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		if !queryParamNames[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		p.Extra = make(map[string]string, len(keys))
		for _, k := range keys {
			p.Extra[k] = q.Get(k)
		}
	}
	return p, nil
}

// toRequest converts validated params into a query.Request.
func (p *QueryParams) toRequest(addr comonode.Address, client string) query.Request {
	return query.Request{
		Node:      addr,
		Module:    p.Module,
		Format:    p.Format,
		Start:     p.Start,
		End:       p.End,
		Filter:    p.Filter,
		TopN:      p.TopN,
		IP:        p.IP,
		Blincview: p.Blincview,
		Client:    client,
		Extra:     p.Extra,
	}
}

// NavigateParams are the parameters of GET /api/v1/nodes/{node}/navigate.
type NavigateParams struct {
	Node   string `query:"node" validate:"required,comonode"`
	Module string `query:"module" validate:"omitempty,comomodule"`
	Action string `query:"action" validate:"required,oneof=zoom_in zoom_out forward backward until_now"`
	Start  int64  `query:"start" validate:"required"`
	End    int64  `query:"end" validate:"required,gtefield=Start"`
}

func (p *NavigateParams) window() timewindow.Window {
	return timewindow.Window{Start: p.Start, End: p.End}
}
