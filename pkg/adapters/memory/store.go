// Package memory implements the graph environment over a process-local map.
// It is the default backend for tests, examples and the CLI: no
// serialization, no external service, just published values handed back by
// key.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/espalier/internal/wire"
	"github.com/aretw0/espalier/pkg/ports"
)

// Store implements ports.Store in memory.
// Safe for concurrent use; fetches may run in parallel with publishes.
type Store struct {
	data map[ports.Key]ports.Value
	mu   sync.RWMutex
}

var _ ports.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[ports.Key]ports.Value)}
}

// Publish stores the values under their natural keys. Values are held by
// reference; the environment contract makes them read-only on both sides.
func (s *Store) Publish(ctx context.Context, values ...ports.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		key, err := wire.KeyOf(v)
		if err != nil {
			return err
		}
		s.data[key] = v
	}
	return nil
}

// Fetch returns the published values for keys. Keys never published are
// simply absent from the result.
func (s *Store) Fetch(ctx context.Context, keys []ports.Key) (ports.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(ports.MapResult, len(keys))
	for _, key := range keys {
		if v, ok := s.data[key]; ok {
			result[key] = v
		}
	}
	return result, nil
}

// Delete removes the value under key, turning later fetches for it into
// "not computed". Tooling uses it to stage partial environments.
func (s *Store) Delete(ctx context.Context, key ports.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len reports how many values the store currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
