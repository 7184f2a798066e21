// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests counts outbound calls by provider, endpoint and outcome.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_mood_provider_requests_total",
			Help: "Outbound provider requests by provider, endpoint and outcome",
		},
		[]string{"provider", "endpoint", "outcome"}, // outcome: "success", "failure", "skipped"
	)

	// ProviderDuration observes outbound call latency.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_mood_provider_request_duration_seconds",
			Help:    "Outbound provider request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "endpoint"},
	)

	// MoodResolutions counts resolved mood profiles.
	MoodResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_mood_resolutions_total",
			Help: "Mood inputs resolved per profile key",
		},
		[]string{"profile"},
	)

	// NarrativeFallbacks counts narratives served from the local template, by reason.
	NarrativeFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_mood_narrative_fallbacks_total",
			Help: "Narratives served from the deterministic fallback",
		},
		[]string{"reason"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movie_mood_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_mood_http_requests_total",
			Help: "Inbound HTTP requests by route pattern, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movie_mood_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// ObserveProvider records one outbound call.
func ObserveProvider(provider, endpoint string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	ProviderRequests.WithLabelValues(provider, endpoint, outcome).Inc()
	ProviderDuration.WithLabelValues(provider, endpoint).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one inbound request.
func ObserveHTTP(route, method string, status int, start time.Time) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}
