package hashgraph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hashgraph",
		Subsystem: "rpc",
		Name:      "attempts_total",
		Help:      "Node round trips by method and returned status.",
	}, []string{"method", "status"})

	metricRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hashgraph",
		Subsystem: "rpc",
		Name:      "retries_total",
		Help:      "Attempts that rotated to the next node.",
	}, []string{"method"})

	metricDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hashgraph",
		Subsystem: "rpc",
		Name:      "duration_seconds",
		Help:      "Latency of a single node round trip.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)
