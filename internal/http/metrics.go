package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"yamusic/pkg/musiclink"
)

var _ musiclink.Recorder = (*Metrics)(nil)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ResolvesTotal    *prometheus.CounterVec
	ResolveDuration  *prometheus.HistogramVec
	StreamsTotal     *prometheus.CounterVec
	RequestsTotal    *prometheus.CounterVec
	RateLimitedTotal prometheus.Counter
	QueueLength      prometheus.Gauge
}

func NewMetrics() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		ResolvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yamusic_resolves_total",
				Help: "Total number of link resolutions",
			},
			[]string{"kind", "status"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yamusic_resolve_duration_seconds",
				Help:    "Time spent resolving a link including stream lookups",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		StreamsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yamusic_stream_lookups_total",
				Help: "Total number of stream location lookups",
			},
			[]string{"status"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yamusic_http_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"route", "code"},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "yamusic_rate_limited_total",
				Help: "Total number of requests rejected by the flood gate",
			},
		),
		QueueLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "yamusic_queue_length",
				Help: "Current number of songs in the play queue",
			},
		),
	}

	metrics.registry.MustRegister(
		metrics.ResolvesTotal,
		metrics.ResolveDuration,
		metrics.StreamsTotal,
		metrics.RequestsTotal,
		metrics.RateLimitedTotal,
		metrics.QueueLength,
	)

	return metrics
}

// RecordResolve implements musiclink.Recorder.
func (m *Metrics) RecordResolve(kind, status string, duration time.Duration) {
	m.ResolvesTotal.WithLabelValues(kind, status).Inc()
	m.ResolveDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordStream implements musiclink.Recorder.
func (m *Metrics) RecordStream(status string) {
	m.StreamsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gather exposes the registry for tests and debugging.
func (m *Metrics) Gather() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(families))
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				totals[family.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				totals[family.GetName()] += metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				totals[family.GetName()] += float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return totals, nil
}
