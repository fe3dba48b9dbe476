package domain

import (
	"fmt"
	"sort"

	"github.com/aretw0/espalier/pkg/label"
)

// Declaration is the source-level unit a node is instantiated from. The
// loader that produced it keeps ownership; pairings only reference it.
type Declaration interface {
	// Label addresses the declaration inside its package.
	Label() label.Label
	// Kind names the declaration class, e.g. "library" or "binary".
	Kind() string
}

// Decl is the concrete Declaration used by loaders, fixtures and tests.
type Decl struct {
	label label.Label
	kind  string
}

var _ Declaration = Decl{}

// NewDecl builds a declaration of the given kind at l.
func NewDecl(l label.Label, kind string) Decl {
	return Decl{label: l, kind: kind}
}

// Label implements Declaration.
func (d Decl) Label() label.Label { return d.label }

// Kind implements Declaration.
func (d Decl) Kind() string { return d.kind }

// Package is the loaded declaration set for one package identifier. It is
// the unit the loader computes and the graph stores; declarations are looked
// up in it by simple name.
type Package struct {
	id    label.PackageID
	decls map[string]Declaration
}

// NewPackage assembles a package from its declarations. Every declaration
// must belong to id, and names must be unique within the package.
func NewPackage(id label.PackageID, decls ...Declaration) (*Package, error) {
	byName := make(map[string]Declaration, len(decls))
	for _, d := range decls {
		l := d.Label()
		if l.PackageID() != id {
			return nil, fmt.Errorf("package %q: declaration %s belongs to another package", id, l)
		}
		if _, dup := byName[l.Name()]; dup {
			return nil, fmt.Errorf("package %q: duplicate declaration %q", id, l.Name())
		}
		byName[l.Name()] = d
	}
	return &Package{id: id, decls: byName}, nil
}

// ID returns the package identifier.
func (p *Package) ID() label.PackageID { return p.id }

// Declaration looks up a declaration by its simple name. The returned error
// wraps ErrDeclarationNotFound when the name is absent.
func (p *Package) Declaration(name string) (Declaration, error) {
	d, ok := p.decls[name]
	if !ok {
		return nil, fmt.Errorf("package %q: %q: %w", p.id, name, ErrDeclarationNotFound)
	}
	return d, nil
}

// Declarations returns all declarations sorted by name.
func (p *Package) Declarations() []Declaration {
	names := make([]string, 0, len(p.decls))
	for name := range p.decls {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	out := make([]Declaration, len(names))
	for i, name := range names {
		out[i] = p.decls[name]
	}
	return out
}
