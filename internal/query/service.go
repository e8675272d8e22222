// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package query

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/comolive/internal/cache"
	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/logging"
	"github.com/tomtom215/comolive/internal/metrics"
	"github.com/tomtom215/comolive/internal/models"
	"github.com/tomtom215/comolive/internal/proxy"
	"github.com/tomtom215/comolive/internal/render"
	"github.com/tomtom215/comolive/internal/timewindow"
)

// Outcomes recorded per request.
const (
	OutcomeCacheHit    = "cache_hit"
	OutcomeFetched     = "fetched"
	OutcomeRendered    = "rendered"
	OutcomePlaceholder = "placeholder"
)

// StatusSource returns node status snapshots.
type StatusSource interface {
	GetStatus(ctx context.Context, addr comonode.Address) (*models.NodeStatusSnapshot, error)
}

// Fetcher queries a node module.
type Fetcher interface {
	Fetch(ctx context.Context, addr comonode.Address, query string) ([]byte, error)
}

// Renderer turns a gnuplot payload into images.
type Renderer interface {
	Render(ctx context.Context, payload []byte) (*render.Images, error)
}

// ArtifactStore memoizes artifacts by key.
type ArtifactStore interface {
	Enabled() bool
	Lookup(key, format string) (*models.Artifact, bool)
	Store(key string, a *models.Artifact) error
	Invalidate(key string) error
}

// Preferences stores per-client top-N counts.
type Preferences interface {
	TopN(client, module string) (int, bool, error)
	SetTopN(client, module string, n int) error
}

// Config holds the query settings. Times are in seconds.
type Config struct {
	Timebound        int64
	DefaultPeriod    int64
	ResolutionPoints int64
	DefaultTopN      int
	// QueryURL is the public query endpoint embedded in drill-down links.
	QueryURL string
	// RenderEnabled allows gnuplot output to be rendered. When false,
	// gnuplot requests fail with a configuration error.
	RenderEnabled bool
}

// Deps are the collaborators of a Service. Prefs may be nil.
type Deps struct {
	Status   StatusSource
	Fetcher  Fetcher
	Renderer Renderer
	Store    ArtifactStore
	Prefs    Preferences
}

// Request is one inbound query.
type Request struct {
	Node   comonode.Address
	Module string
	Format string
	// Start and End are epoch seconds; zero means omitted.
	Start int64
	End   int64
	// Filter overrides the module filter reported by the node.
	Filter string
	// TopN overrides the stored top-N preference when positive.
	TopN int
	// IP narrows the query to one destination address or prefix.
	IP        string
	Blincview bool
	// Client identifies the caller's preferences. May be empty.
	Client string
	// Extra holds further module arguments. They are forwarded to the node
	// and included in the cache key.
	Extra map[string]string
}

// Result is a successful query.
type Result struct {
	Artifact *models.Artifact
	Query    models.QueryRequest
	Outcome  string
}

// Service runs queries.
type Service struct {
	cfg      Config
	status   StatusSource
	fetcher  Fetcher
	renderer Renderer
	store    ArtifactStore
	prefs    Preferences
	group    singleflight.Group
}

// NewService creates a Service.
func NewService(cfg Config, deps Deps) *Service {
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = proxy.DefaultTopN
	}
	return &Service{
		cfg:      cfg,
		status:   deps.Status,
		fetcher:  deps.Fetcher,
		renderer: deps.Renderer,
		store:    deps.Store,
		prefs:    deps.Prefs,
	}
}

type flightResult struct {
	artifact *models.Artifact
	outcome  string
}

// Handle answers req. Errors are *Failure, except that ctx.Err() is
// returned when ctx ends while waiting on a fetch shared with other
// requests. The shared fetch keeps running for them.
func (s *Service) Handle(ctx context.Context, req Request) (*Result, error) {
	res, err := s.handle(ctx, req)
	if err != nil {
		if f, ok := AsFailure(err); ok {
			metrics.RecordQueryOutcome(string(f.Kind))
		}
		return nil, err
	}
	metrics.RecordQueryOutcome(res.Outcome)
	return res, nil
}

func (s *Service) handle(ctx context.Context, req Request) (*Result, error) {
	log := logging.Ctx(ctx)
	node := req.Node.String()

	snap, err := s.status.GetStatus(ctx, req.Node)
	if err != nil {
		log.Warn().Err(err).Str("node", node).Msg("Node status unavailable")
		return nil, newFailure(KindUnreachable, err)
	}

	mod, ok := snap.Module(req.Module)
	if !ok {
		return nil, newFailure(KindUnavailable, fmt.Errorf("module %q not running on %s", req.Module, node))
	}
	if len(mod.Formats) > 0 && !mod.Supports(req.Format) {
		return nil, newFailure(KindUnavailable, fmt.Errorf("module %q does not support format %q", req.Module, req.Format))
	}
	if models.IsPlotFormat(req.Format) && !s.cfg.RenderEnabled {
		return nil, newFailure(KindConfigurationError, errors.New("plot rendering is disabled"))
	}

	w := timewindow.Resolve(timewindow.Params{
		Start:          req.Start,
		End:            req.End,
		DefaultPeriod:  s.cfg.DefaultPeriod,
		Timebound:      s.cfg.Timebound,
		NodeNow:        snap.Current,
		ModuleEarliest: mod.Earliest,
	})

	qr := models.QueryRequest{
		Node:   node,
		Module: req.Module,
		Filter: s.filter(req, mod),
		Window: w,
		Format: req.Format,
		Extra:  make(map[string]string, len(req.Extra)+3),
	}
	for k, v := range req.Extra {
		if proxy.IsReserved(k) || proxy.IsLocalKey(k) || k == "topn" {
			continue
		}
		qr.Extra[k] = v
	}
	if req.IP != "" {
		qr.Extra[proxy.KeyDestIP] = req.IP
	}
	if req.Blincview {
		qr.Extra[proxy.KeyBlincview] = "1"
	}

	override := false
	topN := 0
	if proxy.UsesTopN(req.Module) {
		topN, override = s.resolveTopN(ctx, req, qr)
		qr.Extra["topn"] = strconv.Itoa(topN)
	}
	if len(qr.Extra) == 0 {
		qr.Extra = nil
	}

	key := cache.Key(&qr)
	if override {
		if err := s.store.Invalidate(key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to invalidate artifact")
		}
	} else if a, ok := s.store.Lookup(key, req.Format); ok {
		return &Result{Artifact: a, Query: qr, Outcome: OutcomeCacheHit}, nil
	}

	// The first caller's cancellation must not fail the requests sharing
	// its flight; node and render timeouts still apply.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.produce(flightCtx, req.Node, key, qr, topN, req.Blincview)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Shared {
		metrics.SingleflightShared.Inc()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	fr := res.Val.(*flightResult)
	return &Result{Artifact: fr.artifact, Query: qr, Outcome: fr.outcome}, nil
}

// filter returns the effective filter, narrowed to req.IP when set.
func (s *Service) filter(req Request, mod models.ModuleInfo) string {
	f := req.Filter
	if f == "" {
		if unescaped, err := url.QueryUnescape(mod.Filter); err == nil {
			f = unescaped
		} else {
			f = mod.Filter
		}
	}
	if req.IP == "" {
		return f
	}
	if f == "" || f == "all" {
		return "dst " + req.IP
	}
	return f + " and dst " + req.IP
}

// resolveTopN returns the top-N count for the request and whether it
// replaces a different stored preference. A replaced preference
// invalidates the artifact cached under the old count.
func (s *Service) resolveTopN(ctx context.Context, req Request, qr models.QueryRequest) (int, bool) {
	log := logging.Ctx(ctx)

	stored, found := 0, false
	if s.prefs != nil && req.Client != "" {
		n, ok, err := s.prefs.TopN(req.Client, req.Module)
		if err != nil {
			log.Warn().Err(err).Str("module", req.Module).Msg("Failed to read top-N preference")
		}
		stored, found = n, ok
	}

	if req.TopN <= 0 {
		if found {
			return stored, false
		}
		return s.cfg.DefaultTopN, false
	}

	previous := s.cfg.DefaultTopN
	if found {
		previous = stored
	}
	if req.TopN == previous {
		return req.TopN, false
	}

	old := qr
	old.Extra = make(map[string]string, len(qr.Extra)+1)
	for k, v := range qr.Extra {
		old.Extra[k] = v
	}
	old.Extra["topn"] = strconv.Itoa(previous)
	if err := s.store.Invalidate(cache.Key(&old)); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate previous top-N artifact")
	}

	if s.prefs != nil && req.Client != "" {
		if err := s.prefs.SetTopN(req.Client, req.Module, req.TopN); err != nil {
			log.Warn().Err(err).Str("module", req.Module).Msg("Failed to save top-N preference")
		}
	}
	return req.TopN, true
}

// produce fetches, renders and stores the artifact for key.
func (s *Service) produce(ctx context.Context, addr comonode.Address, key string, qr models.QueryRequest, topN int, blincview bool) (*flightResult, error) {
	params := proxy.ModuleArgs(qr.Module, proxy.ArgContext{
		Node:      qr.Node,
		Window:    qr.Window,
		TopN:      topN,
		Blincview: blincview,
		QueryURL:  s.cfg.QueryURL,
	})
	forward := make(map[string]string, len(qr.Extra))
	for k, v := range qr.Extra {
		if !proxy.IsLocalKey(k) {
			forward[k] = v
		}
	}
	params = proxy.Merge(params, forward)
	if qr.Filter != "" {
		params = append(params, proxy.Param{Key: "filter", Value: qr.Filter})
	}
	qs := proxy.BuildQueryString(qr.Module, qr.Format, qr.Window, params, s.cfg.ResolutionPoints)

	payload, err := s.fetcher.Fetch(ctx, addr, qs)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("node", qr.Node).Str("module", qr.Module).Msg("Module query failed")
		return nil, newFailure(KindUnavailable, err)
	}

	a := &models.Artifact{Key: key, Format: qr.Format}
	outcome := OutcomeFetched

	if models.IsPlotFormat(qr.Format) {
		images, err := s.renderer.Render(ctx, payload)
		switch {
		case errors.Is(err, render.ErrEmptyPlot):
			a.Placeholder = true
			return &flightResult{artifact: a, outcome: OutcomePlaceholder}, nil
		case err != nil:
			return nil, newFailure(KindRenderError, err)
		}
		a.Data = images.JPEG
		a.Vector = images.EPS
		a.ContentType = cache.ContentType(cache.ExtJPEG)
		outcome = OutcomeRendered
	} else {
		a.Data = payload
		a.ContentType = cache.ContentType(cache.PrimaryExt(qr.Format))
	}

	if err := s.store.Store(key, a); err != nil {
		return nil, newFailure(KindConfigurationError, err)
	}
	return &flightResult{artifact: a, outcome: outcome}, nil
}

// Status returns the status snapshot of a node.
func (s *Service) Status(ctx context.Context, addr comonode.Address) (*models.NodeStatusSnapshot, error) {
	snap, err := s.status.GetStatus(ctx, addr)
	if err != nil {
		return nil, newFailure(KindUnreachable, err)
	}
	return snap, nil
}
