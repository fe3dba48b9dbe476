// Package file implements the graph environment as a directory of JSON
// files, one per key. It exists for offline debugging: publish a workspace
// once, then poke at the values with nothing but a text editor.
package file

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/aretw0/espalier/internal/wire"
	"github.com/aretw0/espalier/pkg/ports"
)

// Store implements ports.Store over a snapshot directory.
type Store struct {
	BasePath string
}

var _ ports.Store = (*Store)(nil)

// New creates a Store rooted at basePath. If basePath is empty, it defaults
// to ".espalier/graph".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".espalier", "graph")
	}
	return &Store{BasePath: basePath}
}

// fileName escapes the canonical key so package paths with slashes stay
// inside the snapshot directory.
func fileName(key ports.Key) string {
	return url.QueryEscape(key.String()) + ".json"
}

// Publish writes one JSON envelope file per value, creating the snapshot
// directory on first use.
func (s *Store) Publish(ctx context.Context, values ...ports.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("file: ensure snapshot directory: %w", err)
	}

	for _, v := range values {
		key, err := wire.KeyOf(v)
		if err != nil {
			return err
		}
		data, err := wire.Marshal(v)
		if err != nil {
			return err
		}
		path := filepath.Join(s.BasePath, fileName(key))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("file: write %s: %w", key, err)
		}
	}
	return nil
}

// Fetch reads the file for each key. Missing files mark values never
// published and are left out of the result.
func (s *Store) Fetch(ctx context.Context, keys []ports.Key) (ports.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(ports.MapResult, len(keys))
	for _, key := range keys {
		data, err := os.ReadFile(filepath.Join(s.BasePath, fileName(key)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("file: read %s: %w", key, err)
		}
		value, err := wire.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("file: key %s: %w", key, err)
		}
		result[key] = value
	}
	return result, nil
}
