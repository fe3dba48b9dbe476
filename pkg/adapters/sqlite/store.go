// Package sqlite implements the graph environment on a local SQLite
// database, giving published workspaces durability without a server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/espalier/internal/wire"
	"github.com/aretw0/espalier/pkg/ports"
)

//go:embed schema.sql
var schemaSQL string

// Store implements ports.Store on SQLite. A fetch batch is served by one
// SELECT ... IN query; publishes run in a single transaction.
type Store struct {
	db *sql.DB
}

var _ ports.Store = (*Store)(nil)

// Open creates or opens the database at path, applying pragmas and schema.
// Safe to call repeatedly on the same file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: connect %s: %w", path, err)
	}

	// SQLite allows one writer at a time; a single pooled connection avoids
	// SQLITE_BUSY under concurrent publishes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Publish stores the values under their natural keys, replacing earlier
// rows, in one transaction.
func (s *Store) Publish(ctx context.Context, values ...ports.Value) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin publish: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO graph_values (storage_key, payload) VALUES (?, ?)
		 ON CONFLICT(storage_key) DO UPDATE SET payload = excluded.payload`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare publish: %w", err)
	}
	defer stmt.Close()

	for _, v := range values {
		key, err := wire.KeyOf(v)
		if err != nil {
			return err
		}
		data, err := wire.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, key.String(), data); err != nil {
			return fmt.Errorf("sqlite: publish %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit publish: %w", err)
	}
	return nil
}

// Fetch retrieves the values for keys with one SELECT. Keys without a row
// are absent from the result.
func (s *Store) Fetch(ctx context.Context, keys []ports.Key) (ports.Result, error) {
	if len(keys) == 0 {
		return ports.MapResult(nil), nil
	}

	requested := make(map[string]ports.Key, len(keys))
	args := make([]any, len(keys))
	for i, key := range keys {
		requested[key.String()] = key
		args[i] = key.String()
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	rows, err := s.db.QueryContext(ctx,
		`SELECT storage_key, payload FROM graph_values WHERE storage_key IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch %d keys: %w", len(keys), err)
	}
	defer rows.Close()

	result := make(ports.MapResult, len(keys))
	for rows.Next() {
		var (
			storageKey string
			payload    []byte
		)
		if err := rows.Scan(&storageKey, &payload); err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		key, ok := requested[storageKey]
		if !ok {
			continue
		}
		value, err := wire.Unmarshal(payload)
		if err != nil {
			return nil, fmt.Errorf("sqlite: key %s: %w", key, err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: fetch rows: %w", err)
	}
	return result, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
