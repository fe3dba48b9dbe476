package espalier_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
	"github.com/aretw0/espalier/pkg/ports"
)

// recordingResult remembers which keys were looked up, so tests can assert
// exactly what the resolver consulted.
type recordingResult struct {
	values  ports.MapResult
	lookups []ports.Key
}

func (r *recordingResult) Lookup(key ports.Key) (ports.Value, bool) {
	r.lookups = append(r.lookups, key)
	return r.values.Lookup(key)
}

// stubEnvironment serves canned values and records every Fetch batch.
type stubEnvironment struct {
	values  ports.MapResult
	err     error
	fetches [][]ports.Key
	result  *recordingResult
}

func (e *stubEnvironment) Fetch(_ context.Context, keys []ports.Key) (ports.Result, error) {
	e.fetches = append(e.fetches, slices.Clone(keys))
	if e.err != nil {
		return nil, e.err
	}
	e.result = &recordingResult{values: e.values}
	return e.result, nil
}

func libPackage(t *testing.T) *domain.Package {
	t.Helper()
	pkg, err := domain.NewPackage("lib",
		domain.NewDecl(label.MustParse("//lib:core"), "library"),
		domain.NewDecl(label.MustParse("//lib:cli"), "binary"),
	)
	require.NoError(t, err)
	return pkg
}

func TestResolveNode_Unconfigured(t *testing.T) {
	env := &stubEnvironment{values: ports.MapResult{
		ports.PackageKey("lib"): libPackage(t),
	}}
	node := domain.NewHandle(label.MustParse("//lib:core"))

	pairing, ready, err := espalier.ResolveNode(context.Background(), env, node)
	require.NoError(t, err)
	require.True(t, ready)

	assert.Equal(t, domain.Node(node), pairing.Node())
	assert.Equal(t, "library", pairing.Declaration().Kind())
	_, hasCfg := pairing.Configuration()
	assert.False(t, hasCfg)
	assert.Nil(t, pairing.TransitionKeys())

	// Exactly one batch, containing only the package key.
	require.Len(t, env.fetches, 1)
	assert.Equal(t, []ports.Key{ports.PackageKey("lib")}, env.fetches[0])
}

func TestResolveNode_Configured(t *testing.T) {
	cfg := domain.NewConfiguration("host", map[string]map[string]any{
		"build": {"opt_level": 2},
	})
	env := &stubEnvironment{values: ports.MapResult{
		ports.PackageKey("lib"):        libPackage(t),
		ports.ConfigurationKey("host"): cfg,
	}}
	node := domain.NewConfiguredHandle(label.MustParse("//lib:core"), "host")

	pairing, ready, err := espalier.ResolveNode(context.Background(), env, node)
	require.NoError(t, err)
	require.True(t, ready)

	gotCfg, ok := pairing.Configuration()
	require.True(t, ok)
	assert.Same(t, cfg, gotCfg)

	// Both keys travel in the same batch.
	require.Len(t, env.fetches, 1)
	assert.ElementsMatch(t,
		[]ports.Key{ports.PackageKey("lib"), ports.ConfigurationKey("host")},
		env.fetches[0])
}

func TestResolveNode_ConfigurationNotReady(t *testing.T) {
	env := &stubEnvironment{values: ports.MapResult{
		ports.PackageKey("lib"): libPackage(t),
	}}
	node := domain.NewConfiguredHandle(label.MustParse("//lib:core"), "host")

	pairing, ready, err := espalier.ResolveNode(context.Background(), env, node)
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Nil(t, pairing)
}

func TestResolveNode_PackageNotReady(t *testing.T) {
	env := &stubEnvironment{values: ports.MapResult{
		// The configuration is already computed; only the package is missing.
		ports.ConfigurationKey("host"): domain.NewConfiguration("host", nil),
	}}
	node := domain.NewConfiguredHandle(label.MustParse("//lib:core"), "host")

	pairing, ready, err := espalier.ResolveNode(context.Background(), env, node)
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Nil(t, pairing)

	// Both keys were requested in the batch, but once the package came back
	// absent the configuration slot was never consulted.
	require.Len(t, env.fetches, 1)
	assert.Len(t, env.fetches[0], 2)
	assert.Equal(t, []ports.Key{ports.PackageKey("lib")}, env.result.lookups)
}

func TestResolveNode_MissingDeclaration(t *testing.T) {
	env := &stubEnvironment{values: ports.MapResult{
		ports.PackageKey("lib"): libPackage(t),
	}}
	node := domain.NewHandle(label.MustParse("//lib:nonexistent"))

	pairing, ready, err := espalier.ResolveNode(context.Background(), env, node)
	assert.Nil(t, pairing)
	assert.False(t, ready)

	require.Error(t, err)
	assert.ErrorIs(t, err, espalier.ErrInternal)
	assert.ErrorIs(t, err, domain.ErrDeclarationNotFound)

	var internal *espalier.InternalError
	require.ErrorAs(t, err, &internal)
	assert.Equal(t, domain.Node(node), internal.Node)
}

func TestResolveNode_FetchErrorPassesThrough(t *testing.T) {
	boom := errors.New("backend unavailable")
	env := &stubEnvironment{err: boom}
	node := domain.NewHandle(label.MustParse("//lib:core"))

	pairing, ready, err := espalier.ResolveNode(context.Background(), env, node)
	assert.Nil(t, pairing)
	assert.False(t, ready)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, espalier.ErrInternal)
}

func TestResolveNode_WrongPackageType(t *testing.T) {
	env := &stubEnvironment{values: ports.MapResult{
		ports.PackageKey("lib"): "not a package",
	}}
	node := domain.NewHandle(label.MustParse("//lib:core"))

	_, ready, err := espalier.ResolveNode(context.Background(), env, node)
	assert.False(t, ready)
	require.Error(t, err)
	assert.ErrorIs(t, err, espalier.ErrInternal)
	assert.Contains(t, err.Error(), "*domain.Package")
}

func TestResolveNode_WrongConfigurationType(t *testing.T) {
	env := &stubEnvironment{values: ports.MapResult{
		ports.PackageKey("lib"):        libPackage(t),
		ports.ConfigurationKey("host"): 42,
	}}
	node := domain.NewConfiguredHandle(label.MustParse("//lib:core"), "host")

	_, ready, err := espalier.ResolveNode(context.Background(), env, node)
	assert.False(t, ready)
	require.Error(t, err)
	assert.ErrorIs(t, err, espalier.ErrInternal)
	assert.Contains(t, err.Error(), "*domain.Configuration")
}
