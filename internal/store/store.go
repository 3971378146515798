// Package store provides the durable key/value store used to persist
// companion state, with SQLite, Badger, JSON file, Postgres and in-memory
// backends.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// KV is a string-keyed durable store.
type KV interface {
	// Get returns the value for key. A missing key is ok=false with a nil error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// SetMany stores all entries, atomically where the backend allows it.
	SetMany(ctx context.Context, entries map[string]string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backends lists every backend name in display order.
var Backends = []string{BackendSQLite, BackendBadger, BackendFile, BackendPostgres, BackendMemory}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Path    string // file or directory for sqlite, badger and file
	DSN     string // connection string for postgres
}

// Open opens the backend named in opts.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return NewSQLite(opts.Path)
	case BackendBadger:
		return NewBadger(opts.Path)
	case BackendFile:
		return NewFile(opts.Path)
	case BackendPostgres:
		return NewPostgres(ctx, opts.DSN)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: %v)", opts.Backend, Backends)
	}
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}

// sortedKeys gives SetMany a stable write order.
func sortedKeys(entries map[string]string) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
