// Package label defines the canonical addressing scheme for declarations:
// a label "//pkg/path:name" names the declaration "name" inside the package
// "pkg/path". Labels are small comparable values, safe as map keys.
package label

import (
	"fmt"
	"strings"
)

// PackageID identifies one package (one loadable unit of declarations)
// within the workspace, e.g. "tools/compiler".
type PackageID string

// String returns the raw package path.
func (p PackageID) String() string { return string(p) }

// Label is the canonical address of a declaration.
type Label struct {
	pkg  PackageID
	name string
}

// New builds a label from its parts without going through the string form.
func New(pkg PackageID, name string) (Label, error) {
	if name == "" {
		return Label{}, fmt.Errorf("label: empty declaration name in package %q", pkg)
	}
	if strings.ContainsAny(string(pkg), ":") {
		return Label{}, fmt.Errorf("label: package %q contains ':'", pkg)
	}
	if strings.ContainsAny(name, ":/") {
		return Label{}, fmt.Errorf("label: name %q contains ':' or '/'", name)
	}
	return Label{pkg: pkg, name: name}, nil
}

// Parse parses the canonical form "//pkg/path:name". The package part may be
// empty (root package); the name part may not.
func Parse(s string) (Label, error) {
	rest, ok := strings.CutPrefix(s, "//")
	if !ok {
		return Label{}, fmt.Errorf("label %q: missing %q prefix", s, "//")
	}
	pkg, name, ok := strings.Cut(rest, ":")
	if !ok {
		return Label{}, fmt.Errorf("label %q: missing ':' separator", s)
	}
	l, err := New(PackageID(pkg), name)
	if err != nil {
		return Label{}, fmt.Errorf("label %q: %w", s, err)
	}
	return l, nil
}

// MustParse is Parse for trusted, typically constant, input.
func MustParse(s string) Label {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// PackageID returns the package part of the label.
func (l Label) PackageID() PackageID { return l.pkg }

// Name returns the declaration name within its package.
func (l Label) Name() string { return l.name }

// String renders the canonical "//pkg:name" form.
func (l Label) String() string {
	return "//" + string(l.pkg) + ":" + l.name
}

// IsZero reports whether l is the zero label, which never names anything.
func (l Label) IsZero() bool { return l == Label{} }
