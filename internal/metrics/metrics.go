package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perutelemetry_provider_calls_total",
			Help: "Total Meteoblue API calls",
		},
		[]string{"location", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perutelemetry_provider_latency_seconds",
			Help:    "Meteoblue API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"location"},
	)

	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perutelemetry_cache_hits_total",
			Help: "Forecast cache hits",
		},
		[]string{"location"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perutelemetry_cache_misses_total",
			Help: "Forecast cache misses",
		},
		[]string{"location"},
	)

	RefreshFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perutelemetry_refresh_failures_total",
			Help: "Background cache refresh attempts that gave up",
		},
		[]string{"location"},
	)
)
