package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
)

// Kind discriminates the families of graph keys this layer requests.
type Kind string

const (
	// KindPackage keys the loaded declaration set of one package.
	KindPackage Kind = "package"
	// KindConfiguration keys one computed configuration.
	KindConfiguration Kind = "configuration"
)

// Key addresses one computed value in the evaluation graph.
type Key struct {
	Kind Kind
	ID   string
}

// PackageKey returns the graph key of a package value.
func PackageKey(id label.PackageID) Key {
	return Key{Kind: KindPackage, ID: string(id)}
}

// ConfigurationKey returns the graph key of a configuration value.
func ConfigurationKey(key domain.ConfigKey) Key {
	return Key{Kind: KindConfiguration, ID: string(key)}
}

// String renders "kind:id", the form adapters use for storage keys and logs.
func (k Key) String() string { return string(k.Kind) + ":" + k.ID }

// Value is one computed graph value. The dynamic type depends on the key
// kind: *domain.Package under KindPackage, *domain.Configuration under
// KindConfiguration.
type Value any

// Result is the per-key view over one batched fetch.
type Result interface {
	// Lookup returns the value fetched for key. It reports false when the
	// value has not been computed yet; callers treat that as "retry next
	// round", never as failure.
	Lookup(key Key) (Value, bool)
}

// MapResult is the ready-made Result over a plain map. A nil map is a valid
// empty result.
type MapResult map[Key]Value

var _ Result = MapResult(nil)

// Lookup implements Result.
func (m MapResult) Lookup(key Key) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// Environment is the engine-side dependency surface of the pairing layer.
type Environment interface {
	// Fetch retrieves the values for keys in one batch. Values not yet
	// computed are simply absent from the result; the error return is
	// reserved for host interruption (typically ctx.Err()) and backend
	// failure.
	Fetch(ctx context.Context, keys []Key) (Result, error)
}

// Publisher is the seeding side most environments also offer: the host
// engine, or tooling standing in for it, pushes computed values into the
// backing store.
type Publisher interface {
	// Publish stores the given values under their natural keys.
	Publish(ctx context.Context, values ...Value) error
}

// Store combines both sides for backends that can be seeded and queried.
type Store interface {
	Environment
	Publisher
}
