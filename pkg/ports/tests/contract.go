package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
	"github.com/aretw0/espalier/pkg/ports"
)

// RunStoreContract verifies that a ports.Store implementation honors the
// environment contract the resolver depends on: batched fetches, absence as
// an ordinary outcome, and faithful value round trips.
func RunStoreContract(t *testing.T, store ports.Store) {
	t.Helper()
	ctx := context.Background()

	pkg, err := domain.NewPackage("contract/lib",
		domain.NewDecl(label.MustParse("//contract/lib:core"), "library"),
		domain.NewDecl(label.MustParse("//contract/lib:cli"), "binary"),
	)
	require.NoError(t, err)

	cfg := domain.NewConfiguration("contract-host", map[string]map[string]any{
		"platform": {"os": "linux", "hermetic": true, "cpu_count": 8},
	})

	pkgKey := ports.PackageKey(pkg.ID())
	cfgKey := ports.ConfigurationKey(cfg.Key())

	t.Run("Publish and Fetch", func(t *testing.T) {
		require.NoError(t, store.Publish(ctx, pkg, cfg))

		result, err := store.Fetch(ctx, []ports.Key{pkgKey, cfgKey})
		require.NoError(t, err)

		rawPkg, ok := result.Lookup(pkgKey)
		require.True(t, ok, "package value should be present after Publish")
		gotPkg, ok := rawPkg.(*domain.Package)
		require.True(t, ok, "package value should come back as *domain.Package, got %T", rawPkg)
		assert.Equal(t, label.PackageID("contract/lib"), gotPkg.ID())

		rawCfg, ok := result.Lookup(cfgKey)
		require.True(t, ok, "configuration value should be present after Publish")
		gotCfg, ok := rawCfg.(*domain.Configuration)
		require.True(t, ok, "configuration value should come back as *domain.Configuration, got %T", rawCfg)
		assert.Equal(t, domain.ConfigKey("contract-host"), gotCfg.Key())
	})

	t.Run("Values Survive Round Trip", func(t *testing.T) {
		result, err := store.Fetch(ctx, []ports.Key{pkgKey, cfgKey})
		require.NoError(t, err)

		rawPkg, ok := result.Lookup(pkgKey)
		require.True(t, ok)
		gotPkg := rawPkg.(*domain.Package)

		core, err := gotPkg.Declaration("core")
		require.NoError(t, err)
		assert.Equal(t, "library", core.Kind())
		assert.Equal(t, label.MustParse("//contract/lib:core"), core.Label())

		_, err = gotPkg.Declaration("missing")
		assert.ErrorIs(t, err, domain.ErrDeclarationNotFound)

		rawCfg, ok := result.Lookup(cfgKey)
		require.True(t, ok)
		gotCfg := rawCfg.(*domain.Configuration)

		frag, ok := gotCfg.Fragment("platform")
		require.True(t, ok)
		assert.Equal(t, "linux", frag["os"])
		assert.Equal(t, true, frag["hermetic"])
		// Byte-backed stores round-trip through JSON, which widens integers;
		// only presence is portable across implementations.
		assert.NotNil(t, frag["cpu_count"])
	})

	t.Run("Missing Keys Are Absent", func(t *testing.T) {
		unknown := ports.PackageKey("contract/never-published")

		result, err := store.Fetch(ctx, []ports.Key{pkgKey, unknown})
		require.NoError(t, err, "missing values are informative, not an error")

		_, ok := result.Lookup(pkgKey)
		assert.True(t, ok)
		_, ok = result.Lookup(unknown)
		assert.False(t, ok)
	})

	t.Run("Empty Batch", func(t *testing.T) {
		result, err := store.Fetch(ctx, nil)
		require.NoError(t, err)

		_, ok := result.Lookup(pkgKey)
		assert.False(t, ok)
	})

	t.Run("Publish Overwrites", func(t *testing.T) {
		replacement, err := domain.NewPackage("contract/lib",
			domain.NewDecl(label.MustParse("//contract/lib:core"), "shared_library"),
		)
		require.NoError(t, err)
		require.NoError(t, store.Publish(ctx, replacement))

		result, err := store.Fetch(ctx, []ports.Key{pkgKey})
		require.NoError(t, err)

		raw, ok := result.Lookup(pkgKey)
		require.True(t, ok)
		core, err := raw.(*domain.Package).Declaration("core")
		require.NoError(t, err)
		assert.Equal(t, "shared_library", core.Kind())

		// Restore the original so later subtests see consistent data.
		require.NoError(t, store.Publish(ctx, pkg))
	})

	t.Run("Publish Rejects Unknown Values", func(t *testing.T) {
		err := store.Publish(ctx, struct{ X int }{X: 1})
		assert.Error(t, err)
	})

	t.Run("Canceled Context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Fetch(canceled, []ports.Key{pkgKey})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
