// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package comonode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/comolive/internal/metrics"
)

// Request kinds, used as metric labels.
const (
	KindStatus = "status"
	KindQuery  = "query"
)

// StatusError is returned when a node answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("node returned status %d", e.Code)
	}
	return fmt.Sprintf("node returned status %d: %s", e.Code, e.Body)
}

// TransportConfig configures outbound node requests.
type TransportConfig struct {
	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration
	// RateLimit is the steady request rate allowed per node. Zero disables limiting.
	RateLimit float64
	RateBurst int
	// MaxBodyBytes caps payload size. Zero means 64MB.
	MaxBodyBytes int64
	// MaxNodes caps how many nodes keep a breaker and limiter. The least
	// recently used node is dropped first. Zero means 1024.
	MaxNodes int
	// NodeIdleTTL drops the state of a node not contacted for this long.
	// Zero means 30 minutes.
	NodeIdleTTL time.Duration
	// PerNodeMetrics labels node metrics with the node address. Leave it
	// off when nodes are not restricted by an allowlist, otherwise every
	// address a client sends creates new series.
	PerNodeMetrics bool
}

// otherNode is the node label used when PerNodeMetrics is off.
const otherNode = "other"

// Getter fetches ?<rawQuery> from a node. Transport implements it; tests
// substitute their own.
type Getter interface {
	Get(ctx context.Context, addr Address, rawQuery, kind string) ([]byte, error)
}

// Transport sends guarded GET requests to CoMo nodes.
type Transport struct {
	client *http.Client
	cfg    TransportConfig

	mu     sync.Mutex
	guards *ttlcache.Cache[string, *nodeGuard]
}

type nodeGuard struct {
	cb      *gobreaker.CircuitBreaker[[]byte]
	limiter *rate.Limiter
	// nodeLabel and breakerLabel are the metric labels of this node.
	nodeLabel    string
	breakerLabel string
}

// NewTransport creates a Transport.
func NewTransport(cfg TransportConfig) *Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 20
	}
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = 1024
	}
	if cfg.NodeIdleTTL <= 0 {
		cfg.NodeIdleTTL = 30 * time.Minute
	}

	guards := ttlcache.New[string, *nodeGuard](
		ttlcache.WithTTL[string, *nodeGuard](cfg.NodeIdleTTL),
		ttlcache.WithCapacity[string, *nodeGuard](uint64(cfg.MaxNodes)),
	)
	if cfg.PerNodeMetrics {
		guards.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, *nodeGuard]) {
			g := item.Value()
			metrics.ForgetNode(g.nodeLabel, g.breakerLabel)
		})
	}

	return &Transport{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		guards: guards,
	}
}

// guard returns the breaker and limiter of addr, creating them on first
// use. Getting a guard refreshes its idle TTL.
func (t *Transport) guard(addr string) *nodeGuard {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.guards.DeleteExpired()
	if item := t.guards.Get(addr); item != nil {
		return item.Value()
	}

	name := "comonode:" + addr
	g := &nodeGuard{nodeLabel: otherNode, breakerLabel: "comonode:" + otherNode}
	if t.cfg.PerNodeMetrics {
		g.nodeLabel, g.breakerLabel = addr, name
	}
	g.cb = newBreaker(name, g.breakerLabel)
	if t.cfg.RateLimit > 0 {
		burst := t.cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(t.cfg.RateLimit), burst)
	}
	t.guards.Set(addr, g, ttlcache.DefaultTTL)
	return g
}

// trackedNodes reports how many nodes currently hold transport state.
func (t *Transport) trackedNodes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.guards.DeleteExpired()
	return t.guards.Len()
}

// Get fetches http://<addr>/?<rawQuery>.
func (t *Transport) Get(ctx context.Context, addr Address, rawQuery, kind string) ([]byte, error) {
	node := addr.String()
	g := t.guard(node)
	start := time.Now()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			metrics.RecordNodeRequest(g.nodeLabel, kind, "rejected", time.Since(start))
			return nil, fmt.Errorf("rate limit wait for %s: %w", node, err)
		}
	}

	body, err := execute(g, func() ([]byte, error) {
		return t.do(ctx, node, rawQuery)
	})

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.RecordNodeRequest(g.nodeLabel, kind, outcome, time.Since(start))
	return body, err
}

func (t *Transport) do(ctx context.Context, node, rawQuery string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	reqURL := "http://" + node + "/?" + rawQuery
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CoMoLive")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", node, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: readBodyForError(resp.Body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", node, err)
	}
	if int64(len(body)) > t.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", node, t.cfg.MaxBodyBytes)
	}
	return body, nil
}

// readBodyForError reads at most 4KB of an error body for diagnostics.
func readBodyForError(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
