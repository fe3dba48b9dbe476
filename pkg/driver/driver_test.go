package driver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/driver"
	"github.com/aretw0/espalier/pkg/dsl"
	"github.com/aretw0/espalier/pkg/ports"
)

// stagedEnv counts fetches and lets a test publish values at a chosen
// fetch, simulating an engine that makes progress between rounds.
type stagedEnv struct {
	store   *memory.Store
	fetches int
	onFetch func(fetches int, store *memory.Store)
}

var _ ports.Environment = (*stagedEnv)(nil)

func (s *stagedEnv) Fetch(ctx context.Context, keys []ports.Key) (ports.Result, error) {
	s.fetches++
	if s.onFetch != nil {
		s.onFetch(s.fetches, s.store)
	}
	return s.store.Fetch(ctx, keys)
}

func fixture(t *testing.T) *dsl.Fixture {
	t.Helper()
	b := dsl.New()
	b.Package("lib").Declaration("core", "library")
	b.Configuration("host").Fragment("build", map[string]any{"opt_level": 2})
	b.Node("//lib:core").Under("host")
	fx, err := b.Build()
	require.NoError(t, err)
	return fx
}

func TestDriver_ResolvesReadyNodesInOneRound(t *testing.T) {
	fx := fixture(t)
	store := memory.New()
	require.NoError(t, fx.Publish(context.Background(), store))

	d := driver.New(store, driver.WithInterval(time.Millisecond))
	outcomes, err := d.Run(context.Background(), fx.Nodes)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].Ready())
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, 1, outcomes[0].Rounds)
}

func TestDriver_RetriesUntilReady(t *testing.T) {
	fx := fixture(t)
	env := &stagedEnv{store: memory.New()}
	env.onFetch = func(fetches int, store *memory.Store) {
		if fetches == 3 {
			require.NoError(t, fx.Publish(context.Background(), store))
		}
	}

	d := driver.New(env, driver.WithInterval(time.Millisecond), driver.WithMaxRounds(10))
	outcomes, err := d.Run(context.Background(), fx.Nodes)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].Ready())
	assert.Equal(t, 3, outcomes[0].Rounds)
}

func TestDriver_GivesUpAfterMaxRounds(t *testing.T) {
	fx := fixture(t)
	store := memory.New() // never published

	d := driver.New(store, driver.WithInterval(time.Millisecond), driver.WithMaxRounds(3))
	outcomes, err := d.Run(context.Background(), fx.Nodes)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.False(t, outcomes[0].Ready())
	assert.Nil(t, outcomes[0].Pairing)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, 3, outcomes[0].Rounds)
}

func TestDriver_SettlesFatalErrorsImmediately(t *testing.T) {
	// The package is published but misses the declaration the node names,
	// which is a consistency failure and must not be retried.
	b := dsl.New()
	b.Package("lib").Declaration("other", "library")
	b.Node("//lib:core")
	fx, err := b.Build()
	require.NoError(t, err)

	store := memory.New()
	require.NoError(t, fx.Publish(context.Background(), store))

	d := driver.New(store, driver.WithInterval(time.Millisecond), driver.WithMaxRounds(5))
	outcomes, err := d.Run(context.Background(), fx.Nodes)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.False(t, outcomes[0].Ready())
	assert.ErrorIs(t, outcomes[0].Err, espalier.ErrInternal)
	assert.Equal(t, 1, outcomes[0].Rounds)
}

func TestDriver_MixedSettlement(t *testing.T) {
	b := dsl.New()
	b.Package("lib").Declaration("core", "library")
	b.Node("//lib:core")
	b.Node("//ghost:thing")
	fx, err := b.Build()
	require.NoError(t, err)

	store := memory.New()
	require.NoError(t, fx.Publish(context.Background(), store))

	d := driver.New(store, driver.WithInterval(time.Millisecond), driver.WithMaxRounds(2))
	outcomes, err := d.Run(context.Background(), fx.Nodes)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.True(t, outcomes[0].Ready())
	assert.Equal(t, 1, outcomes[0].Rounds)

	assert.False(t, outcomes[1].Ready())
	assert.NoError(t, outcomes[1].Err)
	assert.Equal(t, 2, outcomes[1].Rounds)
}

func TestDriver_ContextCancellation(t *testing.T) {
	fx := fixture(t)
	store := memory.New() // never published, so the driver keeps waiting

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(5*time.Millisecond, cancel)

	d := driver.New(store, driver.WithInterval(time.Second), driver.WithMaxRounds(100))
	outcomes, err := d.Run(ctx, fx.Nodes)

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Ready())
	assert.Equal(t, 1, outcomes[0].Rounds)
}

func TestOutcome_ZeroValue(t *testing.T) {
	var o driver.Outcome
	assert.False(t, o.Ready())
	assert.Equal(t, 0, o.Rounds)
}
