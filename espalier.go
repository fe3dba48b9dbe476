package espalier

import (
	"slices"

	"github.com/aretw0/espalier/pkg/domain"
)

// Pairing binds one graph node to the source declaration it was instantiated
// from and, for configurable nodes, to the configuration it is built under,
// plus the ordered transition keys that led to that configuration.
//
// A Pairing is immutable and short-lived: it is assembled for one evaluation
// step, handed to consumers that need the members together, and dropped. It
// owns its slots but not the referenced objects (the loader owns the
// declaration, the configuration machinery owns the configuration), and it is
// never stored in the evaluation graph itself.
type Pairing struct {
	node          domain.Node
	declaration   domain.Declaration
	configuration *domain.Configuration
	transitions   []string
}

// New pairs node with declaration and configuration after checking that the
// members are mutually consistent: the labels must agree, a configurable node
// must carry exactly the configuration its key names, and a non-configurable
// node must carry none. configuration is nil for non-configurable nodes.
//
// transitionKeys records the configuration transitions that produced the
// node, in application order; nil means unknown, an empty non-nil slice means
// known to be none. The slice is copied.
//
// On failure the returned error is an *InvariantError wrapping
// ErrInconsistent. A failed check means a bug in the calling engine, not bad
// user input, so callers propagate it rather than retry.
func New(node domain.Node, declaration domain.Declaration, configuration *domain.Configuration, transitionKeys []string) (*Pairing, error) {
	if err := checkConsistency(node, declaration, configuration); err != nil {
		return nil, err
	}
	return newUnchecked(node, declaration, configuration, slices.Clone(transitionKeys)), nil
}

// newUnchecked assembles the pairing without validation and takes ownership
// of transitions. It is reachable from outside only through RebindUnchecked.
func newUnchecked(node domain.Node, declaration domain.Declaration, configuration *domain.Configuration, transitions []string) *Pairing {
	return &Pairing{
		node:          node,
		declaration:   declaration,
		configuration: configuration,
		transitions:   transitions,
	}
}

func checkConsistency(node domain.Node, declaration domain.Declaration, configuration *domain.Configuration) error {
	fail := func(v Violation) error {
		return &InvariantError{
			Violation:     v,
			Node:          node,
			Declaration:   declaration,
			Configuration: configuration,
		}
	}
	if node.Label() != declaration.Label() {
		return fail(ViolationLabelMismatch)
	}
	key, configurable := node.ConfigurationKey()
	switch {
	case !configurable && configuration != nil:
		return fail(ViolationUnexpectedConfiguration)
	case configurable && configuration == nil:
		return fail(ViolationMissingConfiguration)
	case configurable && configuration.Key() != key:
		return fail(ViolationConfigurationKeyMismatch)
	}
	return nil
}

// Node returns the paired graph node.
func (p *Pairing) Node() domain.Node { return p.node }

// Declaration returns the source declaration the node was instantiated from.
func (p *Pairing) Declaration() domain.Declaration { return p.declaration }

// Configuration returns the paired configuration, reporting false for
// non-configurable nodes.
func (p *Pairing) Configuration() (*domain.Configuration, bool) {
	return p.configuration, p.configuration != nil
}

// TransitionKeys returns a copy of the transition keys in application order.
// It is nil when provenance was not recorded, as on pairings built by
// ResolveNode.
func (p *Pairing) TransitionKeys() []string {
	return slices.Clone(p.transitions)
}

// Rebind returns a pairing with the node replaced and every other member
// carried over, re-running the consistency checks. Rebinding to the node the
// pairing already holds returns the receiver unchanged.
//
// This is the path for engines that substitute an enriched or merged node
// for the one originally resolved.
func (p *Pairing) Rebind(node domain.Node) (*Pairing, error) {
	if node == p.node {
		return p, nil
	}
	return New(node, p.declaration, p.configuration, p.transitions)
}

// RebindUnchecked is Rebind without the consistency checks. It exists for
// configuration trimming, where the replacement node intentionally carries a
// different configuration key than the configuration already paired.
// Rebinding to the node the pairing already holds returns the receiver.
func (p *Pairing) RebindUnchecked(node domain.Node) *Pairing {
	if node == p.node {
		return p
	}
	return newUnchecked(node, p.declaration, p.configuration, p.transitions)
}
