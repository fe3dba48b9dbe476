// Package redis implements the graph environment on Redis, for tooling that
// shares one published workspace across processes.
package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/espalier/internal/wire"
	"github.com/aretw0/espalier/pkg/ports"
)

// Store implements ports.Store using Redis. A whole fetch batch is served by
// one MGET, so a resolution costs a single round trip however many keys it
// needs.
type Store struct {
	client *backend.Client
	prefix string
}

var _ ports.Store = (*Store)(nil)

type Option func(*Store)

// WithPrefix sets the storage key prefix, isolating several graphs on one
// Redis instance.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "espalier:graph:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) storageKey(key ports.Key) string {
	return s.prefix + key.String()
}

// Publish stores the values under their natural keys. Values are written in
// one pipeline and carry no TTL: the host engine owns invalidation, not the
// store.
func (s *Store) Publish(ctx context.Context, values ...ports.Value) error {
	if len(values) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, v := range values {
		key, err := wire.KeyOf(v)
		if err != nil {
			return err
		}
		data, err := wire.Marshal(v)
		if err != nil {
			return err
		}
		pipe.Set(ctx, s.storageKey(key), data, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: publish %d values: %w", len(values), err)
	}
	return nil
}

// Fetch retrieves the values for keys with a single MGET. Nil replies mark
// keys that were never published; they are left out of the result.
func (s *Store) Fetch(ctx context.Context, keys []ports.Key) (ports.Result, error) {
	if len(keys) == 0 {
		return ports.MapResult(nil), nil
	}

	storageKeys := make([]string, len(keys))
	for i, key := range keys {
		storageKeys[i] = s.storageKey(key)
	}

	replies, err := s.client.MGet(ctx, storageKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: fetch %d keys: %w", len(keys), err)
	}

	result := make(ports.MapResult, len(keys))
	for i, reply := range replies {
		if reply == nil {
			continue
		}
		payload, ok := reply.(string)
		if !ok {
			return nil, fmt.Errorf("redis: key %s: unexpected reply type %T", keys[i], reply)
		}
		value, err := wire.Unmarshal([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("redis: key %s: %w", keys[i], err)
		}
		result[keys[i]] = value
	}
	return result, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
