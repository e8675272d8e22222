// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache types used as the cache_type label.
const (
	CacheArtifact = "artifact"
	CacheStatus   = "status"
)

var (
	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comolive_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comolive_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comolive_cache_invalidations_total",
			Help: "Total number of artifact cache entries invalidated by parameter overrides",
		},
	)

	CacheFilesSwept = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comolive_cache_files_swept_total",
			Help: "Total number of expired cache files removed by the sweeper",
		},
		[]string{"cache_type"},
	)

	// Remote Node Metrics
	NodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comolive_node_requests_total",
			Help: "Total number of HTTP requests sent to CoMo nodes",
		},
		[]string{"node", "kind", "outcome"}, // kind: status, query; outcome: success, failure, rejected
	)

	NodeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "comolive_node_request_duration_seconds",
			Help:    "Duration of HTTP requests sent to CoMo nodes",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// Render Metrics
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "comolive_render_duration_seconds",
			Help:    "Duration of gnuplot and convert invocations for one plot",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"outcome"},
	)

	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comolive_render_failures_total",
			Help: "Total number of plot render failures",
		},
		[]string{"reason"}, // empty_plot, gnuplot, convert, timeout, io
	)

	// Query Pipeline Metrics
	QueryOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comolive_query_outcomes_total",
			Help: "Total number of query requests by terminal state",
		},
		[]string{"outcome"}, // cache_hit, fetched, rendered, placeholder, unreachable, unavailable, render_error, configuration_error
	)

	SingleflightShared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comolive_singleflight_shared_total",
			Help: "Total number of query results shared with concurrent identical requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordCacheLookup counts a hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordNodeRequest records one request to a CoMo node.
func RecordNodeRequest(node, kind, outcome string, duration time.Duration) {
	NodeRequestsTotal.WithLabelValues(node, kind, outcome).Inc()
	NodeRequestDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ForgetNode removes the per-node series of a node that is no longer
// tracked. breaker is the circuit breaker metric name of that node.
func ForgetNode(node, breaker string) {
	NodeRequestsTotal.DeletePartialMatch(prometheus.Labels{"node": node})
	CircuitBreakerState.DeleteLabelValues(breaker)
	CircuitBreakerConsecutiveFailures.DeleteLabelValues(breaker)
	CircuitBreakerRequests.DeletePartialMatch(prometheus.Labels{"name": breaker})
	CircuitBreakerTransitions.DeletePartialMatch(prometheus.Labels{"name": breaker})
}

// RecordRender records a finished render attempt. reason is empty on success.
func RecordRender(duration time.Duration, reason string) {
	if reason == "" {
		RenderDuration.WithLabelValues("success").Observe(duration.Seconds())
		return
	}
	RenderDuration.WithLabelValues("failure").Observe(duration.Seconds())
	RenderFailures.WithLabelValues(reason).Inc()
}

// RecordQueryOutcome counts a query by its terminal state.
func RecordQueryOutcome(outcome string) {
	QueryOutcomes.WithLabelValues(outcome).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
