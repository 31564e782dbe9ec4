// Package metrics exposes Prometheus instrumentation for the proxy.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts chat completion requests by mode and outcome.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nimproxy",
		Name:      "requests_total",
		Help:      "Chat completion requests handled, by mode and outcome.",
	}, []string{"mode", "outcome"})

	// StreamSessions counts streaming sessions started.
	StreamSessions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nimproxy",
		Name:      "stream_sessions_total",
		Help:      "Streaming translation sessions started.",
	})

	// ReasoningBlocks counts synthesized reasoning blocks emitted to clients.
	ReasoningBlocks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nimproxy",
		Name:      "reasoning_blocks_total",
		Help:      "Delimited reasoning blocks emitted downstream.",
	})

	// UpstreamErrors counts upstream failures by class.
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nimproxy",
		Name:      "upstream_errors_total",
		Help:      "Upstream failures, by class (rejection, failure, transport).",
	}, []string{"class"})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
