// Package inspect resolves a set of graph nodes against an environment and
// reports, per node, whether its pairing could be assembled. It is the
// downstream consumer the espalier tooling ships: the CLI and the HTTP API
// both render its reports.
package inspect

import (
	"context"
	"log/slog"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/driver"
	"github.com/aretw0/espalier/pkg/observability"
	"github.com/aretw0/espalier/pkg/ports"
)

// Status classifies one resolution attempt.
type Status string

const (
	// StatusResolved: the pairing was assembled and checked.
	StatusResolved Status = "resolved"
	// StatusNotReady: at least one graph value has not been computed yet.
	StatusNotReady Status = "not-ready"
	// StatusFailed: the resolution hit a fatal error.
	StatusFailed Status = "failed"
)

// Report is the outcome of resolving one node.
type Report struct {
	Label         string `json:"label"`
	Status        Status `json:"status"`
	Kind          string `json:"kind,omitempty"`
	Configuration string `json:"configuration,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Summary aggregates one inspection run.
type Summary struct {
	Resolved int `json:"resolved"`
	NotReady int `json:"not_ready"`
	Failed   int `json:"failed"`
}

// Total returns the number of inspected nodes.
func (s Summary) Total() int { return s.Resolved + s.NotReady + s.Failed }

// Service resolves nodes and builds reports.
type Service struct {
	env     ports.Environment
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for per-resolution debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics records resolution outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds a service resolving against env.
func New(env ports.Environment, opts ...Option) *Service {
	s := &Service{env: env, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Node resolves one node into a report. Resolution errors end up in the
// report, never in a return value; inspection is a read-only survey and one
// broken node must not hide the rest.
func (s *Service) Node(ctx context.Context, node domain.Node) Report {
	report := Report{Label: node.Label().String()}
	if key, ok := node.ConfigurationKey(); ok {
		report.Configuration = string(key)
	}

	pairing, ready, err := espalier.ResolveNode(ctx, s.env, node)
	switch {
	case err != nil:
		report.Status = StatusFailed
		report.Error = err.Error()
		s.observe(observability.OutcomeFailed)
		s.logger.Debug("resolution failed", "node", report.Label, "error", err)
	case !ready:
		report.Status = StatusNotReady
		s.observe(observability.OutcomeNotReady)
		s.logger.Debug("resolution not ready", "node", report.Label)
	default:
		report.Status = StatusResolved
		report.Kind = pairing.Declaration().Kind()
		s.observe(observability.OutcomeResolved)
		s.logger.Debug("resolution ready", "node", report.Label, "kind", report.Kind)
	}
	return report
}

// All resolves every node in order and aggregates the summary.
func (s *Service) All(ctx context.Context, nodes []domain.Node) ([]Report, Summary) {
	reports := make([]Report, 0, len(nodes))
	for _, node := range nodes {
		reports = append(reports, s.Node(ctx, node))
	}
	return reports, Summarize(reports)
}

// FromOutcome converts a driver outcome into a report, so commands that
// wait for resolution render results the same way one-shot inspection does.
func FromOutcome(o driver.Outcome) Report {
	report := Report{Label: o.Node.Label().String()}
	if key, ok := o.Node.ConfigurationKey(); ok {
		report.Configuration = string(key)
	}
	switch {
	case o.Err != nil:
		report.Status = StatusFailed
		report.Error = o.Err.Error()
	case o.Ready():
		report.Status = StatusResolved
		report.Kind = o.Pairing.Declaration().Kind()
	default:
		report.Status = StatusNotReady
	}
	return report
}

// Summarize tallies reports by status.
func Summarize(reports []Report) Summary {
	var sum Summary
	for _, report := range reports {
		switch report.Status {
		case StatusResolved:
			sum.Resolved++
		case StatusNotReady:
			sum.NotReady++
		case StatusFailed:
			sum.Failed++
		}
	}
	return sum
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveResolution(outcome)
	}
}
