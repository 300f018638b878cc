// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics registers the Prometheus instruments exported by the
// search server on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paperrank_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes request latency per path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paperrank_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	// SearchResults observes the result-set size per search.
	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "paperrank_search_results",
		Help:    "Number of papers returned per search",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
	})
)
