// Package validator cross-checks a workspace document before it is
// published: every node must point at a declared package and declaration,
// every configured node at a declared configuration, and every fragment
// must satisfy its schema when the document declares one.
package validator

import (
	"fmt"

	"github.com/aretw0/espalier/internal/workspace"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
	"github.com/aretw0/espalier/pkg/schema"
)

// Kind classifies a validation issue.
type Kind string

const (
	KindMissingPackage       Kind = "missing-package"
	KindMissingDeclaration   Kind = "missing-declaration"
	KindMissingConfiguration Kind = "missing-configuration"
	KindInvalidFragment      Kind = "invalid-fragment"
)

// Issue is one workspace inconsistency. Subject names the node label or
// configuration fragment the issue is about.
type Issue struct {
	Kind    Kind
	Subject string
	Detail  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.Subject, i.Detail)
}

// Validate walks the workspace and collects every issue it finds. A node
// referencing values the document does not declare is reported even though
// resolution would merely report it as not ready; a workspace is supposed
// to be self-contained.
func Validate(ws *workspace.Workspace) []Issue {
	var issues []Issue

	packages := make(map[label.PackageID]*domain.Package, len(ws.Packages))
	for _, pkg := range ws.Packages {
		packages[pkg.ID()] = pkg
	}
	configurations := make(map[domain.ConfigKey]bool, len(ws.Configurations))
	for _, cfg := range ws.Configurations {
		configurations[cfg.Key()] = true
	}

	for _, node := range ws.Nodes {
		l := node.Label()
		pkg, ok := packages[l.PackageID()]
		if !ok {
			issues = append(issues, Issue{
				Kind:    KindMissingPackage,
				Subject: l.String(),
				Detail:  fmt.Sprintf("package %q is not declared", l.PackageID()),
			})
		} else if _, err := pkg.Declaration(l.Name()); err != nil {
			issues = append(issues, Issue{
				Kind:    KindMissingDeclaration,
				Subject: l.String(),
				Detail:  fmt.Sprintf("package %q has no declaration %q", l.PackageID(), l.Name()),
			})
		}

		if key, configured := node.ConfigurationKey(); configured && !configurations[key] {
			issues = append(issues, Issue{
				Kind:    KindMissingConfiguration,
				Subject: l.String(),
				Detail:  fmt.Sprintf("configuration %q is not declared", key),
			})
		}
	}

	for _, cfg := range ws.Configurations {
		for _, name := range cfg.FragmentNames() {
			s, ok := ws.Schemas[name]
			if !ok {
				continue
			}
			fragment, _ := cfg.Fragment(name)
			err := schema.Validate(s, fragment)
			if err == nil {
				continue
			}
			subject := fmt.Sprintf("%s/%s", cfg.Key(), name)
			for _, ve := range schema.ValidationErrors(err) {
				issues = append(issues, Issue{
					Kind:    KindInvalidFragment,
					Subject: subject,
					Detail:  ve.Error(),
				})
			}
		}
	}

	return issues
}
