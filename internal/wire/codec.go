// Package wire is the serialized form of graph values shared by the
// byte-backed stores (Redis, SQLite, filesystem snapshot). Values travel as
// a JSON envelope {kind, payload} so a store can hold both value families in
// one keyspace and reads fail loudly on kinds this build does not know.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
	"github.com/aretw0/espalier/pkg/ports"
)

type envelope struct {
	Kind    ports.Kind      `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type packagePayload struct {
	ID           string               `json:"id"`
	Declarations []declarationPayload `json:"declarations"`
}

type declarationPayload struct {
	Label string `json:"label"`
	Kind  string `json:"kind,omitempty"`
}

type configurationPayload struct {
	Key       string                    `json:"key"`
	Fragments map[string]map[string]any `json:"fragments,omitempty"`
}

// KeyOf derives the natural graph key of a value: the package key for
// packages, the configuration key for configurations. Values of any other
// type have no place in the graph and are rejected.
func KeyOf(v ports.Value) (ports.Key, error) {
	switch value := v.(type) {
	case *domain.Package:
		return ports.PackageKey(value.ID()), nil
	case *domain.Configuration:
		return ports.ConfigurationKey(value.Key()), nil
	default:
		return ports.Key{}, fmt.Errorf("wire: unsupported graph value type %T", v)
	}
}

// Marshal encodes a graph value into its envelope form. Declarations are
// captured at the Declaration interface (label and kind); richer engine-side
// declaration types come back as plain domain.Decl values on the way out.
func Marshal(v ports.Value) ([]byte, error) {
	var (
		kind    ports.Kind
		payload any
	)
	switch value := v.(type) {
	case *domain.Package:
		decls := value.Declarations()
		p := packagePayload{ID: string(value.ID()), Declarations: make([]declarationPayload, 0, len(decls))}
		for _, d := range decls {
			p.Declarations = append(p.Declarations, declarationPayload{
				Label: d.Label().String(),
				Kind:  d.Kind(),
			})
		}
		kind, payload = ports.KindPackage, p
	case *domain.Configuration:
		p := configurationPayload{Key: string(value.Key())}
		if names := value.FragmentNames(); len(names) > 0 {
			p.Fragments = make(map[string]map[string]any, len(names))
			for _, name := range names {
				frag, _ := value.Fragment(name)
				p.Fragments[name] = frag
			}
		}
		kind, payload = ports.KindConfiguration, p
	default:
		return nil, fmt.Errorf("wire: unsupported graph value type %T", v)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wire: encode %s payload: %w", kind, err)
	}
	return json.Marshal(envelope{Kind: kind, Payload: raw})
}

// Unmarshal decodes an envelope back into the graph value it carries.
func Unmarshal(data []byte) (ports.Value, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wire: decode envelope: %w", err)
	}

	switch env.Kind {
	case ports.KindPackage:
		var p packagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("wire: decode package payload: %w", err)
		}
		decls := make([]domain.Declaration, 0, len(p.Declarations))
		for _, d := range p.Declarations {
			l, err := label.Parse(d.Label)
			if err != nil {
				return nil, fmt.Errorf("wire: package %q: %w", p.ID, err)
			}
			decls = append(decls, domain.NewDecl(l, d.Kind))
		}
		pkg, err := domain.NewPackage(label.PackageID(p.ID), decls...)
		if err != nil {
			return nil, fmt.Errorf("wire: %w", err)
		}
		return pkg, nil
	case ports.KindConfiguration:
		var p configurationPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("wire: decode configuration payload: %w", err)
		}
		return domain.NewConfiguration(domain.ConfigKey(p.Key), p.Fragments), nil
	default:
		return nil, fmt.Errorf("wire: unknown graph value kind %q", env.Kind)
	}
}
