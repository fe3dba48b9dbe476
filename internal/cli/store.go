package cli

import (
	"fmt"
	"strings"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/adapters/redis"
	"github.com/aretw0/espalier/pkg/adapters/sqlite"
	"github.com/aretw0/espalier/pkg/ports"
)

// OpenStore builds the graph store for a DSN:
//
//	""                     in-memory, per process
//	mem://                 in-memory, per process
//	redis://host:6379/0    redis
//	sqlite://graph.db      sqlite database file
//	file://.espalier/graph JSON snapshot directory
//
// The returned closer releases backend resources and is non-nil even for
// backends with nothing to close.
func OpenStore(dsn string) (ports.Store, func() error, error) {
	if dsn == "" || dsn == "mem://" {
		return memory.New(), noClose, nil
	}

	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return nil, nil, fmt.Errorf("store %q: missing scheme, want mem://, redis://, sqlite:// or file://", dsn)
	}

	switch scheme {
	case "mem":
		return memory.New(), noClose, nil
	case "redis":
		options, err := backend.ParseURL(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("store %q: %w", dsn, err)
		}
		store := redis.NewFromClient(backend.NewClient(options))
		return store, store.Close, nil
	case "sqlite":
		store, err := sqlite.Open(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("store %q: %w", dsn, err)
		}
		return store, store.Close, nil
	case "file":
		return file.New(rest), noClose, nil
	default:
		return nil, nil, fmt.Errorf("store %q: unknown scheme %q", dsn, scheme)
	}
}

func noClose() error { return nil }
