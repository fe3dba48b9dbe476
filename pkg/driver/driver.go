// Package driver retries graph resolution until nodes settle. A host engine
// re-runs pairing whenever its evaluation makes progress; the driver stands
// in for that loop by polling the environment at a fixed interval, so tools
// and tests can wait for values that are still being computed.
package driver

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Outcome is the terminal result of driving one node. A nil Pairing with a
// nil Err means the node never became ready before the driver gave up.
type Outcome struct {
	Node    domain.Node
	Pairing *espalier.Pairing
	Err     error
	// Rounds is the round the node settled in, or the last round attempted
	// when it never settled.
	Rounds int
}

// Ready reports whether the node settled with a pairing.
func (o Outcome) Ready() bool { return o.Pairing != nil }

// Driver re-resolves a set of nodes round by round. A node is settled once
// it yields a pairing or a resolution error; not-ready nodes are retried
// next round until MaxRounds is exhausted.
type Driver struct {
	env       ports.Environment
	interval  time.Duration
	maxRounds int
	logger    *slog.Logger
}

// New creates a Driver polling env.
func New(env ports.Environment, opts ...Option) *Driver {
	d := &Driver{
		env:       env,
		interval:  DefaultInterval,
		maxRounds: DefaultMaxRounds,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxRounds < 1 {
		d.maxRounds = 1
	}
	return d
}

// Run drives every node until it settles or the round budget runs out. The
// returned slice is ordered like nodes. On context cancellation Run returns
// the outcomes gathered so far together with the context's error.
func (d *Driver) Run(ctx context.Context, nodes []domain.Node) ([]Outcome, error) {
	outcomes := make([]Outcome, len(nodes))
	pending := make([]int, len(nodes))
	for i, node := range nodes {
		outcomes[i] = Outcome{Node: node}
		pending[i] = i
	}

	for round := 1; round <= d.maxRounds && len(pending) > 0; round++ {
		if round > 1 {
			if err := d.wait(ctx); err != nil {
				return outcomes, err
			}
		}

		next := pending[:0]
		for _, i := range pending {
			if err := ctx.Err(); err != nil {
				return outcomes, err
			}

			node := nodes[i]
			outcomes[i].Rounds = round

			pairing, ready, err := espalier.ResolveNode(ctx, d.env, node)
			switch {
			case err != nil:
				outcomes[i].Err = err
				d.logger.Debug("node settled with error",
					"label", node.Label(), "round", round, "error", err)
			case ready:
				outcomes[i].Pairing = pairing
				d.logger.Debug("node resolved",
					"label", node.Label(), "round", round)
			default:
				next = append(next, i)
			}
		}
		pending = next
	}

	if len(pending) > 0 {
		d.logger.Debug("giving up on unsettled nodes",
			"count", len(pending), "rounds", d.maxRounds)
	}
	return outcomes, nil
}

func (d *Driver) wait(ctx context.Context) error {
	timer := time.NewTimer(d.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
