// Package metrics exposes prometheus collectors for costing, matching, LLM
// calls and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backbar"

// Registry holds every collector in this package plus the Go runtime
// collectors.
var Registry = prometheus.NewRegistry()

var (
	costLines = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "costing",
			Name:      "lines_total",
			Help:      "Recipe lines priced, by outcome (free, costed, unresolved).",
		},
		[]string{"outcome"},
	)

	matchConfidence = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "top_confidence",
			Help:      "Confidence of the best candidate per match request.",
			Buckets:   []float64{0, 20, 40, 60, 70, 80, 90, 100},
		},
	)

	batchItems = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "batch_items_total",
			Help:      "Items processed by batch catalog operations.",
		},
		[]string{"operation", "outcome"},
	)

	llmRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "LLM invocations by operation and result (ok, error, cache_hit).",
		},
		[]string{"operation", "result"},
	)

	llmDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "request_duration_seconds",
			Help:      "Latency of LLM invocations that reached the provider.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"operation"},
	)

	httpRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		},
		[]string{"method", "code"},
	)

	httpDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func ObserveCostLine(outcome string) {
	costLines.WithLabelValues(outcome).Inc()
}

func ObserveMatch(topConfidence float64) {
	matchConfidence.Observe(topConfidence)
}

func ObserveBatchItem(operation, outcome string) {
	batchItems.WithLabelValues(operation, outcome).Inc()
}

// ObserveLLM records one LLM call. A zero duration is not observed, so cache
// hits only count.
func ObserveLLM(operation, result string, duration time.Duration) {
	llmRequests.WithLabelValues(operation, result).Inc()
	if duration > 0 {
		llmDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

func ObserveHTTP(method string, code int, duration time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
