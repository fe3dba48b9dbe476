package espalier

import (
	"context"
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// ResolveNode assembles the checked pairing for node from the evaluation
// graph behind env: the package owning the node's label and, for
// configurable nodes, the configuration its key names, fetched in a single
// batch.
//
// The boolean reports readiness. A (nil, false, nil) return means at least
// one required value has not been computed this round; the caller comes back
// after the engine has scheduled the missing work. Fetch errors pass through
// unchanged. An *InternalError means the graph broke its own contract, for
// example a computed package that does not contain the node's declaration;
// that is fatal and must not be retried.
//
// Pairings built here carry nil transition keys. Provenance is only known to
// callers that applied the transitions themselves; they attach it via New.
func ResolveNode(ctx context.Context, env ports.Environment, node domain.Node) (*Pairing, bool, error) {
	packageKey := ports.PackageKey(node.Label().PackageID())
	keys := []ports.Key{packageKey}

	configKey, configurable := node.ConfigurationKey()
	var configurationKey ports.Key
	if configurable {
		configurationKey = ports.ConfigurationKey(configKey)
		keys = append(keys, configurationKey)
	}

	result, err := env.Fetch(ctx, keys)
	if err != nil {
		return nil, false, err
	}

	rawPkg, ok := result.Lookup(packageKey)
	if !ok {
		// The package may be missing because of work scheduled before this
		// call, so absence is not inspected further; the configuration
		// result is never consulted on this path.
		return nil, false, nil
	}
	pkg, ok := rawPkg.(*domain.Package)
	if !ok {
		return nil, false, &InternalError{
			Node:  node,
			Cause: fmt.Errorf("graph value %s has type %T, want *domain.Package", packageKey, rawPkg),
		}
	}

	var configuration *domain.Configuration
	if configurable {
		rawCfg, ok := result.Lookup(configurationKey)
		if !ok {
			return nil, false, nil
		}
		configuration, ok = rawCfg.(*domain.Configuration)
		if !ok {
			return nil, false, &InternalError{
				Node:  node,
				Cause: fmt.Errorf("graph value %s has type %T, want *domain.Configuration", configurationKey, rawCfg),
			}
		}
	}

	// A package the graph reports as computed must contain the declaration
	// its own nodes were instantiated from.
	declaration, err := pkg.Declaration(node.Label().Name())
	if err != nil {
		return nil, false, &InternalError{Node: node, Cause: err}
	}

	pairing, err := New(node, declaration, configuration, nil)
	if err != nil {
		return nil, false, err
	}
	return pairing, true, nil
}
