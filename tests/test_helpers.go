package tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/workspace"
	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/adapters/sqlite"
	"github.com/aretw0/espalier/pkg/ports"
)

// sampleWorkspace is the document the end-to-end tests run against. It
// covers every resolution outcome: //lib:core and //lib:cli resolve,
// //lib:core@absent and //tools/extra:gen wait on missing values, and
// //lib:ghost names a declaration its package does not contain.
const sampleWorkspace = `
packages:
  - id: lib
    declarations:
      - name: core
        kind: library
      - name: cli
        kind: binary
configurations:
  - key: host
    fragments:
      build:
        opt_level: 2
        debug: false
      platform:
        os: linux
        cpu_count: 8
nodes:
  - label: //lib:core
    configuration: host
  - label: //lib:cli
  - label: //lib:core
    configuration: absent
  - label: //tools/extra:gen
  - label: //lib:ghost
schemas:
  build:
    opt_level: int
    debug: bool
`

func loadWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Parse([]byte(sampleWorkspace))
	require.NoError(t, err)
	return ws
}

func publishWorkspace(t *testing.T, store ports.Store, ws *workspace.Workspace) {
	t.Helper()
	require.NoError(t, store.Publish(context.Background(), ws.Values()...))
}

// storeBackend opens one store implementation for a test, wiring cleanup.
type storeBackend struct {
	name string
	open func(t *testing.T) ports.Store
}

// backends enumerates every store implementation the module ships. Each
// open call yields a fresh, empty store.
func backends() []storeBackend {
	return []storeBackend{
		{
			name: "memory",
			open: func(t *testing.T) ports.Store {
				return memory.New()
			},
		},
		{
			name: "file",
			open: func(t *testing.T) ports.Store {
				return file.New(t.TempDir())
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) ports.Store {
				store, err := sqlite.Open(filepath.Join(t.TempDir(), "graph.db"))
				require.NoError(t, err)
				t.Cleanup(func() { _ = store.Close() })
				return store
			},
		},
		{
			name: "redis",
			open: func(t *testing.T) ports.Store {
				mr, err := miniredis.Run()
				require.NoError(t, err)
				t.Cleanup(mr.Close)

				client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
				store := redis.NewFromClient(client)
				t.Cleanup(func() { _ = store.Close() })
				return store
			},
		},
	}
}
