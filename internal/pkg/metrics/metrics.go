// Package metrics holds the prometheus collectors shared by the services and the API.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// TransfersSubmitted counts submit attempts by result (submitted, rejected, invalid, not_connected).
	TransfersSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alphdash",
		Name:      "transfers_submitted_total",
		Help:      "Transfer submit attempts by result.",
	}, []string{"result"})

	// TransfersFinalized counts records reaching a terminal state.
	TransfersFinalized = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alphdash",
		Name:      "transfers_finalized_total",
		Help:      "Tracked transfers reaching a terminal status.",
	}, []string{"status"})

	// PollTicks counts status poll ticks by outcome (pending, confirmed, not_found, transient, stale).
	PollTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alphdash",
		Name:      "poll_ticks_total",
		Help:      "Transaction status poll ticks by outcome.",
	}, []string{"outcome"})

	// NodeRequestDuration observes node REST latency per endpoint.
	NodeRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "alphdash",
		Name:      "node_request_duration_seconds",
		Help:      "Latency of requests to the Alephium node.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "code"})

	// Notifications counts user notifications by severity.
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alphdash",
		Name:      "notifications_total",
		Help:      "User notifications emitted by severity.",
	}, []string{"severity"})

	// HTTPRequestDuration observes API latency per route.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "alphdash",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of REST API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})

	registerOnce sync.Once
)

// MustRegister registers all collectors with the default registry. Safe to call more than once.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			TransfersSubmitted,
			TransfersFinalized,
			PollTicks,
			NodeRequestDuration,
			Notifications,
			HTTPRequestDuration,
		)
	})
}

// ObserveHTTPRequest records one API request.
func ObserveHTTPRequest(method, route string, status int, latency time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(latency.Seconds())
}
