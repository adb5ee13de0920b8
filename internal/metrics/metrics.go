package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks handled requests by route and outcome
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks request latency by route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vigil_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// MonitorsCreated tracks monitor creations
	MonitorsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_monitors_created_total",
			Help: "Total number of monitors created",
		},
	)

	// MonitorsDeleted tracks monitor deletions
	MonitorsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_monitors_deleted_total",
			Help: "Total number of monitors deleted",
		},
	)

	// StatusesRecorded tracks appended statuses per state
	StatusesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_statuses_recorded_total",
			Help: "Total number of status records appended",
		},
		[]string{"state"},
	)
)
