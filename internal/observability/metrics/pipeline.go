package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

// PipelineMetrics tracks the hybrid pipeline on a private registry so tests
// and multiple instances never collide on the global one.
type PipelineMetrics struct {
	registry *prometheus.Registry

	extractionTotal *prometheus.CounterVec
	summaryTotal    *prometheus.CounterVec
	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	queueLag        prometheus.Histogram
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	extractionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "paperlab",
			Name:        "extraction_total",
			Help:        "Extraction attempts by method and outcome.",
			ConstLabels: constLabels,
		},
		[]string{"method", "status"},
	)
	summaryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "paperlab",
			Name:        "summary_total",
			Help:        "Summary attempts by backend and outcome.",
			ConstLabels: constLabels,
		},
		[]string{"backend", "status"},
	)
	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "paperlab",
			Name:        "document_process_total",
			Help:        "Finished document runs by terminal status.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "paperlab",
			Name:        "document_process_duration_seconds",
			Help:        "Document processing duration in seconds by terminal status.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   "paperlab",
			Name:        "documents_in_flight",
			Help:        "Documents currently being processed.",
			ConstLabels: constLabels,
		},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "paperlab",
			Name:        "queue_lag_seconds",
			Help:        "Delay between document submission and processing start.",
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			ConstLabels: constLabels,
		},
	)

	registry.MustRegister(extractionTotal, summaryTotal, processTotal, processDuration, inFlight, queueLag)

	return &PipelineMetrics{
		registry:        registry,
		extractionTotal: extractionTotal,
		summaryTotal:    summaryTotal,
		processTotal:    processTotal,
		processDuration: processDuration,
		inFlight:        inFlight,
		queueLag:        queueLag,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) ExtractionAttempted(method domain.ExtractionMethod, ok bool) {
	m.extractionTotal.WithLabelValues(string(method), outcome(ok)).Inc()
}

func (m *PipelineMetrics) SummaryProduced(backend string, ok bool) {
	m.summaryTotal.WithLabelValues(backend, outcome(ok)).Inc()
}

func (m *PipelineMetrics) DocumentStarted() {
	m.inFlight.Inc()
}

func (m *PipelineMetrics) DocumentFinished(status string, elapsed time.Duration) {
	m.inFlight.Dec()
	m.processTotal.WithLabelValues(status).Inc()
	m.processDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (m *PipelineMetrics) QueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
