// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package comonode

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/comolive/internal/logging"
	"github.com/tomtom215/comolive/internal/metrics"
)

// newBreaker builds the circuit breaker guarding one node. name identifies
// the node in logs; label is the breaker's metric label, shared by all
// nodes when per-node metrics are off.
//
// Configuration:
//   - 3 probe requests in half-open state
//   - counts reset every minute while closed
//   - 2 minutes open before probing again
//   - opens at >= 60% failures over at least 10 requests
func newBreaker(name, label string) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(label).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(label).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A node that answers with a client error is alive; only transport
		// errors and 5xx count against it. Callers that hang up are not the
		// node's fault either.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < 500
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(label).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(label, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(label).Set(0)
			}
		},
	})
}

// execute runs fn through the node's breaker and keeps the breaker metrics
// current.
func execute(g *nodeGuard, fn func() ([]byte, error)) ([]byte, error) {
	name, label := g.cb.Name(), g.breakerLabel
	body, err := g.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(label, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(label, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(label).Set(float64(g.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(label, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(label).Set(0)
	return body, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
