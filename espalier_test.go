package espalier_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
)

// mergedNode is a second comparable Node implementation, standing in for the
// synthesized nodes an engine substitutes during analysis.
type mergedNode struct {
	lbl   label.Label
	key   domain.ConfigKey
	parts int
}

func (m mergedNode) Label() label.Label { return m.lbl }

func (m mergedNode) ConfigurationKey() (domain.ConfigKey, bool) { return m.key, true }

func TestNew_Configured(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewConfiguredHandle(lbl, "host")
	decl := domain.NewDecl(lbl, "library")
	cfg := domain.NewConfiguration("host", nil)

	pairing, err := espalier.New(node, decl, cfg, []string{"split", "exec"})
	require.NoError(t, err)

	assert.Equal(t, node, pairing.Node())
	assert.Equal(t, decl, pairing.Declaration())

	gotCfg, ok := pairing.Configuration()
	require.True(t, ok)
	assert.Same(t, cfg, gotCfg)

	assert.Equal(t, []string{"split", "exec"}, pairing.TransitionKeys())
}

func TestNew_NonConfigurable(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewHandle(lbl)
	decl := domain.NewDecl(lbl, "library")

	pairing, err := espalier.New(node, decl, nil, nil)
	require.NoError(t, err)

	gotCfg, ok := pairing.Configuration()
	assert.False(t, ok)
	assert.Nil(t, gotCfg)
	assert.Nil(t, pairing.TransitionKeys())
}

func TestNew_TransitionKeysAreIsolated(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewHandle(lbl)
	decl := domain.NewDecl(lbl, "library")

	keys := []string{"split"}
	pairing, err := espalier.New(node, decl, nil, keys)
	require.NoError(t, err)

	// Mutating the caller's slice must not reach the pairing.
	keys[0] = "mutated"
	assert.Equal(t, []string{"split"}, pairing.TransitionKeys())

	// Mutating the accessor's copy must not reach the pairing either.
	got := pairing.TransitionKeys()
	got[0] = "mutated"
	assert.Equal(t, []string{"split"}, pairing.TransitionKeys())
}

func TestNew_LabelMismatch(t *testing.T) {
	node := domain.NewHandle(label.MustParse("//lib:core"))
	decl := domain.NewDecl(label.MustParse("//lib:other"), "library")

	_, err := espalier.New(node, decl, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, espalier.ErrInconsistent)

	var invariant *espalier.InvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Equal(t, espalier.ViolationLabelMismatch, invariant.Violation)
	assert.Contains(t, err.Error(), "//lib:core")
	assert.Contains(t, err.Error(), "//lib:other")
}

func TestNew_UnexpectedConfiguration(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewHandle(lbl)
	decl := domain.NewDecl(lbl, "library")
	cfg := domain.NewConfiguration("host", nil)

	_, err := espalier.New(node, decl, cfg, nil)
	require.Error(t, err)

	var invariant *espalier.InvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Equal(t, espalier.ViolationUnexpectedConfiguration, invariant.Violation)
}

func TestNew_MissingConfiguration(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewConfiguredHandle(lbl, "host")
	decl := domain.NewDecl(lbl, "library")

	_, err := espalier.New(node, decl, nil, nil)
	require.Error(t, err)

	var invariant *espalier.InvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Equal(t, espalier.ViolationMissingConfiguration, invariant.Violation)
	assert.Contains(t, err.Error(), "host")
}

func TestNew_ConfigurationKeyMismatch(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewConfiguredHandle(lbl, "host")
	decl := domain.NewDecl(lbl, "library")
	cfg := domain.NewConfiguration("target-arm64", nil)

	_, err := espalier.New(node, decl, cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, espalier.ErrInconsistent)

	var invariant *espalier.InvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Equal(t, espalier.ViolationConfigurationKeyMismatch, invariant.Violation)
	assert.Contains(t, err.Error(), "host")
	assert.Contains(t, err.Error(), "target-arm64")
}

func TestRebind_SameNodeReturnsReceiver(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewConfiguredHandle(lbl, "host")
	decl := domain.NewDecl(lbl, "library")
	cfg := domain.NewConfiguration("host", nil)

	pairing, err := espalier.New(node, decl, cfg, []string{"split"})
	require.NoError(t, err)

	// Equal handle values count as the same node.
	rebound, err := pairing.Rebind(domain.NewConfiguredHandle(lbl, "host"))
	require.NoError(t, err)
	assert.Same(t, pairing, rebound)

	assert.Same(t, pairing, pairing.RebindUnchecked(domain.NewConfiguredHandle(lbl, "host")))
}

func TestRebind_MergedNode(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewConfiguredHandle(lbl, "host")
	decl := domain.NewDecl(lbl, "library")
	cfg := domain.NewConfiguration("host", nil)

	pairing, err := espalier.New(node, decl, cfg, []string{"split"})
	require.NoError(t, err)

	merged := mergedNode{lbl: lbl, key: "host", parts: 3}
	rebound, err := pairing.Rebind(merged)
	require.NoError(t, err)
	assert.NotSame(t, pairing, rebound)

	assert.Equal(t, domain.Node(merged), rebound.Node())
	assert.Equal(t, decl, rebound.Declaration())
	gotCfg, ok := rebound.Configuration()
	require.True(t, ok)
	assert.Same(t, cfg, gotCfg)
	assert.Equal(t, []string{"split"}, rebound.TransitionKeys())
}

func TestRebind_RejectsInconsistentNode(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewConfiguredHandle(lbl, "host")
	decl := domain.NewDecl(lbl, "library")
	cfg := domain.NewConfiguration("host", nil)

	pairing, err := espalier.New(node, decl, cfg, nil)
	require.NoError(t, err)

	_, err = pairing.Rebind(domain.NewHandle(label.MustParse("//lib:other")))
	assert.True(t, errors.Is(err, espalier.ErrInconsistent))
}

func TestRebindUnchecked_AllowsTrimmedConfiguration(t *testing.T) {
	lbl := label.MustParse("//lib:core")
	node := domain.NewConfiguredHandle(lbl, "host")
	decl := domain.NewDecl(lbl, "library")
	cfg := domain.NewConfiguration("host", nil)

	pairing, err := espalier.New(node, decl, cfg, []string{"trim"})
	require.NoError(t, err)

	// The trimmed node dropped its configuration key; the checked path must
	// refuse, the unchecked path is exactly for this divergence.
	trimmed := domain.NewHandle(lbl)

	_, err = pairing.Rebind(trimmed)
	var invariant *espalier.InvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Equal(t, espalier.ViolationUnexpectedConfiguration, invariant.Violation)

	rebound := pairing.RebindUnchecked(trimmed)
	assert.NotSame(t, pairing, rebound)
	assert.Equal(t, domain.Node(trimmed), rebound.Node())

	// The diverged pairing still carries the original configuration and
	// provenance; only the node changed.
	gotCfg, ok := rebound.Configuration()
	require.True(t, ok)
	assert.Same(t, cfg, gotCfg)
	assert.Equal(t, []string{"trim"}, rebound.TransitionKeys())
}

func TestViolationString(t *testing.T) {
	assert.Equal(t, "label mismatch", espalier.ViolationLabelMismatch.String())
	assert.Equal(t, "violation(99)", espalier.Violation(99).String())
}
