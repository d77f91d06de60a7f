// Package metrics exposes Prometheus instrumentation for the ingestion pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the prefix shared by every price tracker metric.
	Namespace = "pricetracker"

	subsystemIngest = "ingest"
)

// Observation outcomes recorded on the observations counter.
const (
	OutcomeAccepted     = "accepted"
	OutcomeInvalid      = "invalid"
	OutcomeDuplicate    = "duplicate"
	OutcomeInconsistent = "inconsistent"
	OutcomeFailed       = "failed"
)

// Ingestion holds the counters updated by the reconciler.
type Ingestion struct {
	ObservationsTotal    *prometheus.CounterVec
	PriceHistoryAppended prometheus.Counter
	PriceChanges         prometheus.Counter
	BatchesTotal         prometheus.Counter
	BatchDuration        prometheus.Histogram
}

// NewIngestion creates and registers the ingestion metrics. A nil registerer
// falls back to the default Prometheus registry.
func NewIngestion(reg prometheus.Registerer) *Ingestion {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Ingestion{
		ObservationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: subsystemIngest,
				Name:      "observations_total",
				Help:      "Scraped observations processed, by outcome",
			},
			[]string{"outcome"},
		),
		PriceHistoryAppended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "price_history_appended_total",
			Help:      "Price history rows appended",
		}),
		PriceChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "listing_price_changes_total",
			Help:      "Listing current price updates",
		}),
		BatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystemIngest,
			Name:      "batches_total",
			Help:      "Ingestion batches received",
		}),
		BatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: subsystemIngest,
			Name:      "batch_duration_seconds",
			Help:      "Time spent reconciling one ingestion batch",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}

// Observe increments the observation counter for outcome. Safe on a nil receiver.
func (m *Ingestion) Observe(outcome string) {
	if m == nil {
		return
	}
	m.ObservationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Ingestion) HistoryAppended() {
	if m == nil {
		return
	}
	m.PriceHistoryAppended.Inc()
}

func (m *Ingestion) PriceChanged() {
	if m == nil {
		return
	}
	m.PriceChanges.Inc()
}

// BatchDone records one finished batch that started at start.
func (m *Ingestion) BatchDone(start time.Time) {
	if m == nil {
		return
	}
	m.BatchesTotal.Inc()
	m.BatchDuration.Observe(time.Since(start).Seconds())
}
