// Package workspace loads the YAML fixture document that stands in for a
// host engine's loader and configuration machinery: the packages it would
// have loaded, the configurations it would have computed, and the node set
// the tooling should inspect.
package workspace

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/schema"
)

// DefaultFile is the workspace file name looked up in the working directory
// when no explicit path is given.
const DefaultFile = "espalier.yaml"

type document struct {
	Packages       []packageDoc                 `yaml:"packages"`
	Configurations []configurationDoc           `yaml:"configurations"`
	Nodes          []nodeDoc                    `yaml:"nodes"`
	Schemas        map[string]map[string]string `yaml:"schemas"`
}

type packageDoc struct {
	ID           string           `yaml:"id"`
	Declarations []declarationDoc `yaml:"declarations"`
}

type declarationDoc struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type configurationDoc struct {
	Key       string                    `yaml:"key"`
	Fragments map[string]map[string]any `yaml:"fragments"`
}

type nodeDoc struct {
	Label         string `yaml:"label"`
	Configuration string `yaml:"configuration"`
}

// Workspace is the loaded fixture set. Nodes may reference packages or
// configurations the document does not declare; that is how a fixture
// demonstrates values the engine has not computed yet.
type Workspace struct {
	Packages       []*domain.Package
	Configurations []*domain.Configuration
	Nodes          []domain.Node

	// Schemas maps a fragment name to the option types its instances must
	// carry. Fragments without a schema entry are accepted as-is.
	Schemas map[string]schema.Schema
}

// Load reads and parses the workspace document at path.
func Load(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace: %w", err)
	}
	ws, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("workspace %s: %w", path, err)
	}
	return ws, nil
}

// Parse decodes a workspace document and builds the domain values.
func Parse(data []byte) (*Workspace, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse workspace: %w", err)
	}

	ws := &Workspace{}

	seenPackages := make(map[string]bool, len(doc.Packages))
	for _, p := range doc.Packages {
		if seenPackages[p.ID] {
			return nil, fmt.Errorf("duplicate package %q", p.ID)
		}
		seenPackages[p.ID] = true

		decls := make([]domain.Declaration, 0, len(p.Declarations))
		for _, d := range p.Declarations {
			l, err := label.New(label.PackageID(p.ID), d.Name)
			if err != nil {
				return nil, fmt.Errorf("package %q: %w", p.ID, err)
			}
			if d.Kind == "" {
				return nil, fmt.Errorf("package %q: declaration %q: missing kind", p.ID, d.Name)
			}
			decls = append(decls, domain.NewDecl(l, d.Kind))
		}
		pkg, err := domain.NewPackage(label.PackageID(p.ID), decls...)
		if err != nil {
			return nil, err
		}
		ws.Packages = append(ws.Packages, pkg)
	}

	seenConfigurations := make(map[string]bool, len(doc.Configurations))
	for _, c := range doc.Configurations {
		if c.Key == "" {
			return nil, fmt.Errorf("configuration with empty key")
		}
		if seenConfigurations[c.Key] {
			return nil, fmt.Errorf("duplicate configuration %q", c.Key)
		}
		seenConfigurations[c.Key] = true
		ws.Configurations = append(ws.Configurations,
			domain.NewConfiguration(domain.ConfigKey(c.Key), c.Fragments))
	}

	for _, n := range doc.Nodes {
		l, err := label.Parse(n.Label)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Label, err)
		}
		if n.Configuration == "" {
			ws.Nodes = append(ws.Nodes, domain.NewHandle(l))
		} else {
			ws.Nodes = append(ws.Nodes, domain.NewConfiguredHandle(l, domain.ConfigKey(n.Configuration)))
		}
	}

	if len(doc.Schemas) > 0 {
		ws.Schemas = make(map[string]schema.Schema, len(doc.Schemas))
		for fragment, types := range doc.Schemas {
			s, err := schema.ParseTypeMap(types)
			if err != nil {
				return nil, fmt.Errorf("schema for fragment %q: %w", fragment, err)
			}
			ws.Schemas[fragment] = s
		}
	}

	return ws, nil
}

// Values returns every declared package and configuration as publishable
// graph values, packages first.
func (w *Workspace) Values() []ports.Value {
	values := make([]ports.Value, 0, len(w.Packages)+len(w.Configurations))
	for _, pkg := range w.Packages {
		values = append(values, pkg)
	}
	for _, cfg := range w.Configurations {
		values = append(values, cfg)
	}
	return values
}

// Node returns the first workspace node with the given label.
func (w *Workspace) Node(l label.Label) (domain.Node, bool) {
	for _, n := range w.Nodes {
		if n.Label() == l {
			return n, true
		}
	}
	return nil, false
}
