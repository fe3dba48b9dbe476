package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/espalier/pkg/ports"
)

// Resolution outcomes, used as the "outcome" label value.
const (
	OutcomeResolved = "resolved"
	OutcomeNotReady = "not-ready"
	OutcomeFailed   = "failed"
)

// Metrics bundles the instruments of one consumer of the pairing layer.
type Metrics struct {
	resolutions   *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	fetchKeys     prometheus.Summary
}

// NewMetrics creates the instruments and registers them on reg. Registration
// panics on collision, so one registry gets at most one Metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_resolutions_total",
				Help: "Total number of node resolutions by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "espalier_fetch_duration_seconds",
				Help: "Duration of batched environment fetches",
			},
		),
		fetchKeys: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name: "espalier_fetch_keys",
				Help: "Number of keys per batched environment fetch",
			},
		),
	}
	reg.MustRegister(m.resolutions, m.fetchDuration, m.fetchKeys)
	return m
}

// ObserveResolution counts one resolution under its outcome.
func (m *Metrics) ObserveResolution(outcome string) {
	m.resolutions.WithLabelValues(outcome).Inc()
}

// InstrumentEnvironment wraps env so that every Fetch records its duration
// and batch size.
func (m *Metrics) InstrumentEnvironment(env ports.Environment) ports.Environment {
	return &instrumentedEnvironment{metrics: m, next: env}
}

type instrumentedEnvironment struct {
	metrics *Metrics
	next    ports.Environment
}

func (e *instrumentedEnvironment) Fetch(ctx context.Context, keys []ports.Key) (ports.Result, error) {
	start := time.Now()
	result, err := e.next.Fetch(ctx, keys)
	e.metrics.fetchDuration.Observe(time.Since(start).Seconds())
	e.metrics.fetchKeys.Observe(float64(len(keys)))
	return result, err
}
