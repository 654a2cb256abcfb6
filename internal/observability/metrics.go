package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce     sync.Once
	apiRequestsTotal *prometheus.CounterVec
	apiLatencySecs   *prometheus.HistogramVec
	apiErrorsTotal   *prometheus.CounterVec

	dashboardCacheHits   *prometheus.CounterVec
	discussionConnsTotal prometheus.Counter
	discussionMsgsSent   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathlight_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySecs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathlight_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathlight_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		dashboardCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathlight_dashboard_cache_total",
			Help: "Dashboard cache lookups by outcome.",
		}, []string{"outcome"})

		discussionConnsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathlight_discussion_connections_total",
			Help: "Total websocket connections accepted by the discussion hub.",
		})

		discussionMsgsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathlight_discussion_messages_total",
			Help: "Discussion messages delivered by type.",
		}, []string{"type"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySecs,
			apiErrorsTotal,
			dashboardCacheHits,
			discussionConnsTotal,
			discussionMsgsSent,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySecs
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// DashboardCache exposes the dashboard cache outcome counter.
func DashboardCache() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheHits
}

// DiscussionConnectionsTotal exposes the websocket connection counter.
func DiscussionConnectionsTotal() prometheus.Counter {
	RegisterMetrics()
	return discussionConnsTotal
}

// DiscussionMessagesSent exposes the delivered message counter.
func DiscussionMessagesSent() *prometheus.CounterVec {
	RegisterMetrics()
	return discussionMsgsSent
}
