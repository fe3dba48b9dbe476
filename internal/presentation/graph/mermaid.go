// Package graph renders the dependency view of a node set as Mermaid
// flowchart syntax, ready to paste into any Mermaid-aware viewer.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart for the given nodes:
// - Node: [Rectangle], labeled "//pkg:name@key" for configured nodes
// - Package: [[Subroutine]]
// - Configuration: ((Circle))
// Each node points at its package with a solid edge and at its configuration,
// if any, with a dotted edge. Vertices shared between nodes are emitted once.
func GenerateMermaid(nodes []domain.Node) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[string]bool)
	emit := func(line string) {
		if !seen[line] {
			seen[line] = true
			sb.WriteString(line)
		}
	}

	for _, node := range nodes {
		display := nodeDisplay(node)
		nodeID := "n_" + sanitizeMermaidID(display)
		emit(fmt.Sprintf("    %s[\"%s\"]\n", nodeID, display))

		pkg := node.Label().PackageID()
		pkgID := "p_" + sanitizeMermaidID(string(pkg))
		emit(fmt.Sprintf("    %s[[\"%s\"]]\n", pkgID, pkg))
		emit(fmt.Sprintf("    %s --> %s\n", nodeID, pkgID))

		if key, ok := node.ConfigurationKey(); ok {
			cfgID := "c_" + sanitizeMermaidID(string(key))
			emit(fmt.Sprintf("    %s((\"%s\"))\n", cfgID, key))
			emit(fmt.Sprintf("    %s -.-> %s\n", nodeID, cfgID))
		}
	}

	return sb.String()
}

func nodeDisplay(node domain.Node) string {
	if key, ok := node.ConfigurationKey(); ok {
		return node.Label().String() + "@" + string(key)
	}
	return node.Label().String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "@", "_")
	return s
}
