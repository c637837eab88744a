package workers

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sky-uk/chunks/util/metrics"
)

var once sync.Once
var chunksStarted *prometheus.CounterVec
var chunksFailed *prometheus.CounterVec
var chunksInFlight *prometheus.GaugeVec
var chunkDuration *prometheus.HistogramVec

func initMetrics() {
	once.Do(func() {
		chunksStarted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   metrics.PrometheusNamespace,
				Subsystem:   metrics.PrometheusWorkersSubsystem,
				Name:        "chunks_started_total",
				Help:        "The number of chunks handed to a worker.",
				ConstLabels: metrics.ConstLabels(),
			}, []string{"job"})
		chunksFailed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   metrics.PrometheusNamespace,
				Subsystem:   metrics.PrometheusWorkersSubsystem,
				Name:        "chunks_failed_total",
				Help:        "The number of chunks whose worker returned an error or panicked.",
				ConstLabels: metrics.ConstLabels(),
			}, []string{"job"})
		chunksInFlight = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   metrics.PrometheusNamespace,
				Subsystem:   metrics.PrometheusWorkersSubsystem,
				Name:        "chunks_in_flight",
				Help:        "The number of chunks currently being processed.",
				ConstLabels: metrics.ConstLabels(),
			}, []string{"job"})
		chunkDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   metrics.PrometheusNamespace,
				Subsystem:   metrics.PrometheusWorkersSubsystem,
				Name:        "chunk_duration_seconds",
				Help:        "The time taken to process a single chunk.",
				Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 10),
				ConstLabels: metrics.ConstLabels(),
			}, []string{"job"})
		prometheus.MustRegister(chunksStarted, chunksFailed, chunksInFlight, chunkDuration)
	})
}
