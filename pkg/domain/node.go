package domain

import "github.com/aretw0/espalier/pkg/label"

// ConfigKey identifies one configuration. Keys are opaque to this layer;
// the engine derives them from its configuration trimming scheme.
type ConfigKey string

// String returns the raw key.
func (k ConfigKey) String() string { return string(k) }

// Node is a vertex of the evaluation graph: one declaration instantiated,
// optionally, under one configuration. The engine owns richer node kinds
// (merged views, virtual vertices); this layer only reads the two properties
// below.
//
// Implementations must be comparable with ==. Rebinding relies on node
// identity to avoid re-validating an unchanged pairing, so two values that
// compare equal must be interchangeable.
type Node interface {
	// Label addresses the declaration this node was instantiated from.
	Label() label.Label

	// ConfigurationKey returns the key of the configuration the node is
	// built under. It reports false for non-configurable nodes, which by
	// contract are never paired with a configuration.
	ConfigurationKey() (ConfigKey, bool)
}

// Handle is the minimal comparable Node implementation. Engines embed or
// replace it; fixtures and tests use it directly.
type Handle struct {
	label     label.Label
	config    ConfigKey
	hasConfig bool
}

var _ Node = Handle{}

// NewHandle returns a non-configurable node for l.
func NewHandle(l label.Label) Handle {
	return Handle{label: l}
}

// NewConfiguredHandle returns a node for l built under the configuration
// identified by key.
func NewConfiguredHandle(l label.Label, key ConfigKey) Handle {
	return Handle{label: l, config: key, hasConfig: true}
}

// Label implements Node.
func (h Handle) Label() label.Label { return h.label }

// ConfigurationKey implements Node.
func (h Handle) ConfigurationKey() (ConfigKey, bool) {
	return h.config, h.hasConfig
}

// String renders the handle for logs, e.g. "//lib:core@host" or "//lib:core".
func (h Handle) String() string {
	if !h.hasConfig {
		return h.label.String()
	}
	return h.label.String() + "@" + string(h.config)
}
