package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medpages_http_requests_total",
			Help: "Count of HTTP requests by method, path and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medpages_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OutboxDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medpages_outbox_dispatched_total",
			Help: "Outbox events handled successfully by event type.",
		},
		[]string{"event_type"},
	)

	OutboxFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medpages_outbox_failures_total",
			Help: "Outbox event handling failures by event type.",
		},
		[]string{"event_type"},
	)

	PagesPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "medpages_pages_published_total",
			Help: "Landing pages moved to published status.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		OutboxDispatchedTotal,
		OutboxFailuresTotal,
		PagesPublishedTotal,
	)
}
