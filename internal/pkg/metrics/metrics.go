// Package metrics provides Prometheus metrics definitions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "parkinggarden"

var (
	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status_code"},
	)

	// DBPoolConnections tracks database connection pool state.
	DBPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "Number of database connections by state",
		},
		[]string{"state"},
	)

	// StatisticsQueryDuration tracks the latency of each aggregate query.
	StatisticsQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "statistics",
			Name:      "query_duration_seconds",
			Help:      "Statistics aggregate query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"query", "result"},
	)

	// AccountStatusTransitions counts block/unblock operations.
	AccountStatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "status_transitions_total",
			Help:      "Account status transitions by target status",
		},
		[]string{"status"},
	)

	// IntegrityAnomalies counts data-integrity conditions that were tolerated.
	IntegrityAnomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "integrity_anomalies_total",
			Help:      "Tolerated data-integrity anomalies by kind",
		},
		[]string{"kind"},
	)
)

// ObserveStatisticsQuery records how long an aggregate query took and whether it failed.
func ObserveStatisticsQuery(query string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StatisticsQueryDuration.WithLabelValues(query, result).Observe(time.Since(start).Seconds())
}
