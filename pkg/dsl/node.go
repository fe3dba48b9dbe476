package dsl

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
)

// PackageBuilder collects the declarations of one package.
type PackageBuilder struct {
	id    label.PackageID
	decls []declaration
}

type declaration struct {
	name string
	kind string
}

// Declaration adds a named declaration of the given kind.
func (p *PackageBuilder) Declaration(name, kind string) *PackageBuilder {
	p.decls = append(p.decls, declaration{name: name, kind: kind})
	return p
}

// ConfigurationBuilder collects the option fragments of one configuration.
type ConfigurationBuilder struct {
	key       domain.ConfigKey
	fragments map[string]map[string]any
}

// Fragment sets one named option fragment, replacing any previous value.
func (c *ConfigurationBuilder) Fragment(name string, options map[string]any) *ConfigurationBuilder {
	c.fragments[name] = options
	return c
}

// NodeBuilder configures one node handle.
type NodeBuilder struct {
	raw    string
	config domain.ConfigKey
}

// Under pins the node to a configuration key, making it a configured handle.
func (n *NodeBuilder) Under(key string) *NodeBuilder {
	n.config = domain.ConfigKey(key)
	return n
}
