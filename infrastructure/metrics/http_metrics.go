package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facegate_http_requests_total",
		Help: "HTTP requests handled, by route and status code",
	}, []string{"route", "status"})
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "facegate_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"route"})
)
