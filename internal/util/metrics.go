package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrderLinesInsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_lines_inserted_total",
		Help: "Total number of order lines written",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order submissions",
	}, []string{"reason"})

	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "status_transitions_total",
		Help: "Total number of order status transitions",
	}, []string{"status"})

	TableStatusCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_status_cache_hits_total",
		Help: "Table status polls answered from the cache",
	})

	TableStatusCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "table_status_cache_misses_total",
		Help: "Table status polls that went to the database",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
