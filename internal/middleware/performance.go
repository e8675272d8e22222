// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/comolive/internal/logging"
)

// DefaultSlowThreshold is the latency above which a request is logged.
const DefaultSlowThreshold = 5 * time.Second

// RequestSample is one completed request.
type RequestSample struct {
	Route      string
	Method     string
	Duration   time.Duration
	StatusCode int
}

// RouteStats summarises the samples of one route.
type RouteStats struct {
	Route        string  `json:"route"`
	RequestCount int     `json:"request_count"`
	ErrorCount   int     `json:"error_count"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        int64   `json:"p50_ms"`
	P95MS        int64   `json:"p95_ms"`
	P99MS        int64   `json:"p99_ms"`
	MaxMS        int64   `json:"max_ms"`
}

// PerformanceMonitor keeps the most recent request samples in a ring and
// reports per-route latency percentiles. Renders and node round trips
// dominate query latency, so the health endpoint shows these.
type PerformanceMonitor struct {
	mu      sync.RWMutex
	samples []RequestSample
	next    int
	full    bool

	slow time.Duration
}

// NewPerformanceMonitor keeps up to capacity samples. Requests slower than
// slow are logged; zero uses DefaultSlowThreshold.
func NewPerformanceMonitor(capacity int, slow time.Duration) *PerformanceMonitor {
	if capacity <= 0 {
		capacity = 1000
	}
	if slow <= 0 {
		slow = DefaultSlowThreshold
	}
	return &PerformanceMonitor{
		samples: make([]RequestSample, capacity),
		slow:    slow,
	}
}

// Record adds a sample, overwriting the oldest when full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	pm.samples[pm.next] = s
	pm.next++
	if pm.next == len(pm.samples) {
		pm.next = 0
		pm.full = true
	}
	pm.mu.Unlock()
}

func (pm *PerformanceMonitor) snapshot() []RequestSample {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	if pm.full {
		out := make([]RequestSample, len(pm.samples))
		copy(out, pm.samples)
		return out
	}
	out := make([]RequestSample, pm.next)
	copy(out, pm.samples[:pm.next])
	return out
}

// Stats returns per-route statistics ordered by request count, busiest
// first.
func (pm *PerformanceMonitor) Stats() []RouteStats {
	byRoute := make(map[string][]RequestSample)
	for _, s := range pm.snapshot() {
		key := s.Method + " " + s.Route
		byRoute[key] = append(byRoute[key], s)
	}

	stats := make([]RouteStats, 0, len(byRoute))
	for route, samples := range byRoute {
		ms := make([]int64, len(samples))
		var sum int64
		errs := 0
		for i, s := range samples {
			ms[i] = s.Duration.Milliseconds()
			sum += ms[i]
			if s.StatusCode >= http.StatusInternalServerError {
				errs++
			}
		}
		sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
		stats = append(stats, RouteStats{
			Route:        route,
			RequestCount: len(ms),
			ErrorCount:   errs,
			AvgMS:        float64(sum) / float64(len(ms)),
			P50MS:        percentile(ms, 0.50),
			P95MS:        percentile(ms, 0.95),
			P99MS:        percentile(ms, 0.99),
			MaxMS:        ms[len(ms)-1],
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Route < stats[j].Route
	})
	return stats
}

// Middleware samples every request passing through it.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, r)

		d := time.Since(start)
		route := RoutePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			Duration:   d,
			StatusCode: sw.statusCode,
		})
		if d > pm.slow {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Int64("duration_ms", d.Milliseconds()).
				Msg("Slow request")
		}
	})
}

// percentile expects sorted input.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
