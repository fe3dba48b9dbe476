package espalier

import (
	"errors"
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

var (
	// ErrInconsistent tags every failed pairing consistency check. Match it
	// with errors.Is; the concrete *InvariantError carries the details.
	ErrInconsistent = errors.New("inconsistent pairing")

	// ErrInternal tags broken engine-side contracts, such as a declaration
	// missing from a package the graph reported as computed. These failures
	// are fatal and never retried.
	ErrInternal = errors.New("internal contract violated")
)

// Violation identifies which consistency rule a pairing broke.
type Violation int

const (
	// ViolationLabelMismatch: node and declaration disagree on the label.
	ViolationLabelMismatch Violation = iota + 1
	// ViolationUnexpectedConfiguration: a non-configurable node was paired
	// with a configuration.
	ViolationUnexpectedConfiguration
	// ViolationMissingConfiguration: a configurable node was paired without
	// its configuration.
	ViolationMissingConfiguration
	// ViolationConfigurationKeyMismatch: the paired configuration is keyed
	// differently than the node expects.
	ViolationConfigurationKeyMismatch
)

// String returns the human-readable rule name.
func (v Violation) String() string {
	switch v {
	case ViolationLabelMismatch:
		return "label mismatch"
	case ViolationUnexpectedConfiguration:
		return "unexpected configuration"
	case ViolationMissingConfiguration:
		return "missing configuration"
	case ViolationConfigurationKeyMismatch:
		return "configuration key mismatch"
	default:
		return fmt.Sprintf("violation(%d)", int(v))
	}
}

// InvariantError reports a failed consistency check with the offending
// members attached. Construction callers treat it as fatal.
type InvariantError struct {
	Violation     Violation
	Node          domain.Node
	Declaration   domain.Declaration
	Configuration *domain.Configuration
}

func (e *InvariantError) Error() string {
	switch e.Violation {
	case ViolationLabelMismatch:
		return fmt.Sprintf("%s: %s: node %s, declaration %s",
			ErrInconsistent, e.Violation, e.Node.Label(), e.Declaration.Label())
	case ViolationUnexpectedConfiguration:
		return fmt.Sprintf("%s: %s: node %s carries no configuration key but was paired with configuration %q",
			ErrInconsistent, e.Violation, e.Node.Label(), e.Configuration.Key())
	case ViolationMissingConfiguration:
		key, _ := e.Node.ConfigurationKey()
		return fmt.Sprintf("%s: %s: node %s expects configuration %q",
			ErrInconsistent, e.Violation, e.Node.Label(), key)
	case ViolationConfigurationKeyMismatch:
		key, _ := e.Node.ConfigurationKey()
		return fmt.Sprintf("%s: %s: node %s expects configuration %q, got %q",
			ErrInconsistent, e.Violation, e.Node.Label(), key, e.Configuration.Key())
	default:
		return fmt.Sprintf("%s: %s", ErrInconsistent, e.Violation)
	}
}

func (e *InvariantError) Unwrap() error { return ErrInconsistent }

// InternalError reports a broken engine-side contract encountered while
// resolving node. It unwraps to both ErrInternal and the underlying cause.
type InternalError struct {
	Node  domain.Node
	Cause error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: resolving %s: %v", ErrInternal, e.Node.Label(), e.Cause)
}

func (e *InternalError) Unwrap() []error { return []error{ErrInternal, e.Cause} }
