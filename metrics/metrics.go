// Package metrics holds the prometheus collectors of the custody node.
//
// All methods are safe on a nil *Metrics, so components can be built
// without instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "custody"

// Metrics provides observability for transaction processing and event
// publishing.
type Metrics struct {
	// Processed transactions by phase (check, deliver), message path and
	// result (ok or the abci code).
	Txs *prometheus.CounterVec

	// Handler latency by phase.
	TxDuration *prometheus.HistogramVec

	// Events handed to a publisher, by kind.
	EventsPublished *prometheus.CounterVec

	// Failed publish calls, by publisher.
	PublishFailures *prometheus.CounterVec

	// Height of the last committed block.
	Height prometheus.Gauge
}

// New creates the collectors and registers them with reg. Use
// prometheus.DefaultRegisterer for the process wide registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Txs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_total",
			Help:      "Total number of processed transactions by phase, path and result",
		}, []string{"phase", "path", "result"}),

		TxDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tx_duration_seconds",
			Help:      "Duration of transaction processing by phase",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"phase"}),

		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of events handed to the publisher by kind",
		}, []string{"kind"}),

		PublishFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Total number of failed event publications by publisher",
		}, []string{"publisher"}),

		Height: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "block_height",
			Help:      "Height of the last committed block",
		}),
	}
}

// ObserveTx records one processed transaction.
func (m *Metrics) ObserveTx(phase, path, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Txs.WithLabelValues(phase, path, result).Inc()
	m.TxDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// IncPublished counts an event of the given kind as published.
func (m *Metrics) IncPublished(kind string) {
	if m != nil {
		m.EventsPublished.WithLabelValues(kind).Inc()
	}
}

// IncPublishFailure counts a failed publish call.
func (m *Metrics) IncPublishFailure(publisher string) {
	if m != nil {
		m.PublishFailures.WithLabelValues(publisher).Inc()
	}
}

// SetHeight records the last committed height.
func (m *Metrics) SetHeight(height int64) {
	if m != nil {
		m.Height.Set(float64(height))
	}
}
