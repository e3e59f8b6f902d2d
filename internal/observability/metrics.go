package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
	rosterOpsTotal        *prometheus.CounterVec
	cacheLookupsTotal     *prometheus.CounterVec
	rosterEventsTotal     *prometheus.CounterVec
	feedClientsActive     prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activities_http_requests_total",
			Help: "Total number of activity API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "activities_http_latency_seconds",
			Help:    "Latency distribution for activity API requests.",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		rosterOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_operations_total",
			Help: "Total roster operations grouped by operation and outcome.",
		}, []string{"operation", "result"})

		cacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activities_cache_lookups_total",
			Help: "Activity list cache lookups grouped by outcome.",
		}, []string{"status"})

		rosterEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_events_published_total",
			Help: "Total roster events fanned out to feed subscribers.",
		}, []string{"type"})

		feedClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roster_feed_clients_active",
			Help: "Number of websocket clients subscribed to the roster feed.",
		})

		prometheus.MustRegister(requestsTotal, requestLatencySeconds, rosterOpsTotal, cacheLookupsTotal, rosterEventsTotal, feedClientsActive)
	})
}

// Requests exposes the counter for served HTTP requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram for HTTP requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// RosterOps exposes the counter for roster store operations.
func RosterOps() *prometheus.CounterVec {
	RegisterMetrics()
	return rosterOpsTotal
}

// CacheLookups exposes the counter for activity list cache lookups.
func CacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return cacheLookupsTotal
}

// RosterEvents exposes the counter for published roster events.
func RosterEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return rosterEventsTotal
}

// FeedClients exposes the gauge tracking active feed subscribers.
func FeedClients() prometheus.Gauge {
	RegisterMetrics()
	return feedClientsActive
}
