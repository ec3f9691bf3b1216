// Package metrics provides Prometheus collectors for the location service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "casedesk"

// Lookup outcomes.
const (
	OutcomeRemote   = "remote"
	OutcomeFallback = "fallback"
	OutcomeEmpty    = "empty"
)

// LocationLookups counts list lookups by operation (states, cities, search)
// and by where the answer came from.
var LocationLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "location_lookups_total",
	Help:      "Location list lookups by operation and outcome.",
}, []string{"op", "outcome"})

var LookupLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "location_lookup_latency_seconds",
	Help:      "Remote location API call duration in seconds.",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
}, []string{"op"})

// DedupeRejections counts requests suppressed because an identical key was
// already in flight.
var DedupeRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "dedupe_rejections_total",
	Help:      "Requests suppressed by the in-flight deduplicator.",
}, []string{"kind"})

var SearchDispatches = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "search_dispatches_total",
	Help:      "City searches issued after the debounce window elapsed.",
})

var CoordinateGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "coordinate_generations_total",
	Help:      "Generated coordinates by source.",
}, []string{"source"})

var CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "cache_requests_total",
	Help:      "List cache lookups by result (hit, miss, error).",
}, []string{"result"})

var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "location_sessions_active",
	Help:      "Number of open location sessions.",
})
