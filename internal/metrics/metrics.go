// Package metrics provides Prometheus metrics for the summarization pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minutes"

// Metrics holds all collectors, registered on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	// Transcript metrics
	TranscriptsTotal   *prometheus.CounterVec
	TranscriptDuration prometheus.Histogram
	InFlight           prometheus.Gauge

	// Chunk metrics
	ChunksTotal  prometheus.Counter
	ChunksFailed prometheus.Counter

	// Provider metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec

	// Quality metrics
	QualityScore  prometheus.Histogram
	LowConfidence prometheus.Counter

	// Event publish metrics
	EventsPublished *prometheus.CounterVec
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		TranscriptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_total",
			Help:      "Transcripts handled, by final status",
		}, []string{"status"}),
		TranscriptDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcript_duration_seconds",
			Help:      "Time to summarize one transcript",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transcripts_in_flight",
			Help:      "Transcripts currently being summarized",
		}),

		ChunksTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Chunks summarized",
		}),
		ChunksFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_failed_total",
			Help:      "Chunks that failed on every provider",
		}),

		ProviderRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Provider attempts by outcome",
		}, []string{"provider", "stage", "outcome"}),
		ProviderLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Provider attempt latency",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"provider", "stage"}),

		QualityScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quality_score",
			Help:      "Quality score of final documents",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		LowConfidence: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "low_confidence_total",
			Help:      "Documents accepted below the quality threshold",
		}),

		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Completion events by type and result",
		}, []string{"type", "result"}),
	}
}

// ObserveProviderRequest records one provider attempt.
func (m *Metrics) ObserveProviderRequest(provider, stage, outcome string, seconds float64) {
	m.ProviderRequests.WithLabelValues(provider, stage, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider, stage).Observe(seconds)
}

// RecordTranscript records the end of one transcript run.
func (m *Metrics) RecordTranscript(status string, seconds float64) {
	m.TranscriptsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		m.TranscriptDuration.Observe(seconds)
	}
}

// RecordDocument records chunk counts and quality of a finished document.
func (m *Metrics) RecordDocument(chunks, failed int, score float64, lowConfidence bool) {
	m.ChunksTotal.Add(float64(chunks))
	m.ChunksFailed.Add(float64(failed))
	m.QualityScore.Observe(score)
	if lowConfidence {
		m.LowConfidence.Inc()
	}
}

// RecordEvent records one publish attempt.
func (m *Metrics) RecordEvent(eventType string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
