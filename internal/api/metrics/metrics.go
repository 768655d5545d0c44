// Package metrics defines the Prometheus metrics for the library client.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry at import time; the
// dev server exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library_client"

// RequestsTotal counts backend requests issued by the HTTP adapter.
// Labels:
//   - endpoint: logical operation name (e.g. "list_books", "login")
//   - outcome: "ok", "rejected" (backend non-2xx) or "transport" (no response)
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of backend requests, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// RequestDuration measures wall time per backend request.
// Label:
//   - endpoint: logical operation name
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of backend requests from send to decoded response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"endpoint"},
)

// StaleCompletionsTotal counts slice completions discarded by the
// generation check.
// Label:
//   - slice: slice name ("auth", "books", "users", "borrow")
var StaleCompletionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_completions_total",
		Help:      "Total number of request completions superseded by a newer request.",
	},
	[]string{"slice"},
)
