package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayledger",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AvailabilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayledger",
			Name:      "availability_checks_total",
			Help:      "Room availability checks by outcome (available, conflict).",
		},
		[]string{"outcome"},
	)

	LookupCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayledger",
			Name:      "lookup_cache_total",
			Help:      "Typeahead lookup cache hits and misses by entity.",
		},
		[]string{"entity", "result"},
	)

	InvoicesArchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stayledger",
			Name:      "invoices_archived_total",
			Help:      "Invoice PDFs uploaded to document storage.",
		},
	)
)
