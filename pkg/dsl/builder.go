package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
	"github.com/aretw0/espalier/pkg/ports"
)

// Builder accumulates packages, configurations, and node handles for a
// fixture graph. Construction errors (bad labels, duplicate declarations)
// are deferred to Build so call sites can chain without checking each step.
type Builder struct {
	packages       map[label.PackageID]*PackageBuilder
	packageOrder   []label.PackageID
	configurations map[domain.ConfigKey]*ConfigurationBuilder
	configOrder    []domain.ConfigKey
	nodes          []*NodeBuilder
}

// New creates an empty fixture builder.
func New() *Builder {
	return &Builder{
		packages:       make(map[label.PackageID]*PackageBuilder),
		configurations: make(map[domain.ConfigKey]*ConfigurationBuilder),
	}
}

// Package declares a package in the fixture.
// If the package was already declared, it returns the existing builder.
func (b *Builder) Package(id string) *PackageBuilder {
	pid := label.PackageID(id)
	if pb, ok := b.packages[pid]; ok {
		return pb
	}
	pb := &PackageBuilder{id: pid}
	b.packages[pid] = pb
	b.packageOrder = append(b.packageOrder, pid)
	return pb
}

// Configuration declares a configuration in the fixture.
// If the key was already declared, it returns the existing builder.
func (b *Builder) Configuration(key string) *ConfigurationBuilder {
	ck := domain.ConfigKey(key)
	if cb, ok := b.configurations[ck]; ok {
		return cb
	}
	cb := &ConfigurationBuilder{key: ck, fragments: make(map[string]map[string]any)}
	b.configurations[ck] = cb
	b.configOrder = append(b.configOrder, ck)
	return cb
}

// Node adds a node handle for the given label string ("//pkg:name").
func (b *Builder) Node(l string) *NodeBuilder {
	nb := &NodeBuilder{raw: l}
	b.nodes = append(b.nodes, nb)
	return nb
}

// Build compiles the accumulated definitions into a publishable fixture,
// in declaration order with packages before configurations.
func (b *Builder) Build() (*Fixture, error) {
	fx := &Fixture{}

	for _, id := range b.packageOrder {
		pb := b.packages[id]
		decls := make([]domain.Declaration, 0, len(pb.decls))
		for _, d := range pb.decls {
			l, err := label.New(id, d.name)
			if err != nil {
				return nil, fmt.Errorf("package %q: %w", id, err)
			}
			decls = append(decls, domain.NewDecl(l, d.kind))
		}
		pkg, err := domain.NewPackage(id, decls...)
		if err != nil {
			return nil, err
		}
		fx.Values = append(fx.Values, pkg)
	}

	for _, key := range b.configOrder {
		cb := b.configurations[key]
		fx.Values = append(fx.Values, domain.NewConfiguration(key, cb.fragments))
	}

	for _, nb := range b.nodes {
		l, err := label.Parse(nb.raw)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nb.raw, err)
		}
		if nb.config == "" {
			fx.Nodes = append(fx.Nodes, domain.NewHandle(l))
		} else {
			fx.Nodes = append(fx.Nodes, domain.NewConfiguredHandle(l, nb.config))
		}
	}

	return fx, nil
}

// Fixture is a built graph: values ready to publish and the node handles to
// resolve against them.
type Fixture struct {
	Values []ports.Value
	Nodes  []domain.Node
}

// Publish writes every fixture value to the publisher.
func (f *Fixture) Publish(ctx context.Context, pub ports.Publisher) error {
	return pub.Publish(ctx, f.Values...)
}
