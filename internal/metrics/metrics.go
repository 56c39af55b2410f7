// Package metrics provides Prometheus metrics for feed refreshes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "czytaj"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	CommandsTotal  *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	EntriesSkipped *prometheus.CounterVec
	ArticlesStored *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of engine commands by outcome",
			},
			[]string{"command", "result"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of feed document fetches in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		EntriesSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entries_skipped_total",
				Help:      "Feed entries that did not become articles",
			},
			[]string{"reason"},
		),
		ArticlesStored: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "articles_per_refresh",
				Help:      "Distribution of article counts written per refresh",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"command"},
		),
	}
}

func (m *Metrics) ObserveCommand(command, result string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command, result).Inc()
}

func (m *Metrics) ObserveFetch(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) AddSkipped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EntriesSkipped.WithLabelValues(reason).Add(float64(n))
}

func (m *Metrics) ObserveStored(command string, n int) {
	if m == nil {
		return
	}
	m.ArticlesStored.WithLabelValues(command).Observe(float64(n))
}
