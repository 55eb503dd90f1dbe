// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/dashboarr/internal/logging"
	"github.com/tomtom215/dashboarr/internal/metrics"
)

// breakerSource wraps an adapter with a circuit breaker so a backend that
// is down or misbehaving stops consuming its full timeout budget on every
// dashboard poll. The breaker uses real time for its window and recovery
// calculations; tests exercise the wrapped adapters directly.
//
// NotConfigured short-circuits before the breaker so missing configuration
// never counts as a failure or opens the circuit.
type breakerSource struct {
	inner   Source
	display string
	cb      *gobreaker.CircuitBreaker[any]
}

// withBreaker wraps a source adapter with circuit breaker protection.
// Configuration mirrors the upstream client breakers elsewhere in the
// stack: at most 3 probes in half-open, a 1 minute measurement window,
// 30s recovery timeout, opening at a 60% failure rate over at least 10
// requests.
func withBreaker(inner Source, display string) Source {
	name := inner.Name()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().Str("source", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)
			logging.Info().Str("source", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &breakerSource{inner: inner, display: display, cb: cb}
}

// Name implements Source.
func (b *breakerSource) Name() string { return b.inner.Name() }

// Configured implements Source.
func (b *breakerSource) Configured() bool { return b.inner.Configured() }

// Fetch implements Source.
func (b *breakerSource) Fetch(ctx context.Context) (any, error) {
	if !b.Configured() {
		// Bypasses the breaker: the adapter returns its NotConfigured
		// error without any network activity.
		return b.inner.Fetch(ctx)
	}

	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.Fetch(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.Name(), "rejected").Inc()
			return nil, TransportError(b.display, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.Name(), "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.Name(), "success").Inc()
	return result, nil
}

func breakerStateString(s gobreaker.State) string {
	switch s {
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

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
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
