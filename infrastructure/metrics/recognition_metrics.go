package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecognitionOutcomesTotal is labelled by operation (check or enroll) and
	// outcome (no_face, duplicate, unique or saved).
	RecognitionOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facegate_recognition_outcomes_total",
			Help: "Recognition outcomes by operation and kind",
		},
		[]string{"operation", "outcome"},
	)

	ExtractDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "facegate_extract_duration_seconds",
			Help:    "Time spent computing a face descriptor",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	StoreRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facegate_store_records",
			Help: "Number of enrolled labels held in memory",
		},
	)

	StorePersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "facegate_store_persist_failures_total",
			Help: "Snapshot writes that failed and were not committed",
		},
	)
)
