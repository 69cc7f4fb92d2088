// Package metrics holds Prometheus instruments that are used across the
// resolver.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveWebspaces = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_webspaces",
			Help: "Number of webspaces currently loaded in memory.",
		})

	WebspaceLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webspace_load_total",
			Help: "Cumulative number of webspaces successfully loaded.",
		})

	WebspaceLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webspace_load_errors_total",
			Help: "Cumulative number of webspace load errors.",
		})

	WebspaceEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webspace_evict_total",
			Help: "Cumulative number of webspaces evicted from the cache.",
		})

	ResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolve_total",
			Help: "Route resolutions by outcome (active, redirect, custom_url, miss).",
		},
		[]string{"outcome"})

	RouteConflictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "route_conflict_total",
			Help: "Cumulative number of duplicate-key races hit while installing routes.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveWebspaces,
		WebspaceLoadTotal,
		WebspaceLoadErrorsTotal,
		WebspaceEvictTotal,
		ResolveTotal,
		RouteConflictTotal,
	)
}
