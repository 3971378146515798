package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Badger implements KV on a BadgerDB directory.
type Badger struct {
	db  *badger.DB
	dir string
}

// NewBadger opens or creates a BadgerDB at dir.
func NewBadger(dir string) (*Badger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db, dir: dir}, nil
}

func (b *Badger) Get(ctx context.Context, key string) (string, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(value), true, nil
}

func (b *Badger) Set(ctx context.Context, key, value string) error {
	return b.SetMany(ctx, map[string]string{key: value})
}

func (b *Badger) SetMany(ctx context.Context, entries map[string]string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, k := range sortedKeys(entries) {
			if err := txn.Set([]byte(k), []byte(entries[k])); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		return nil
	})
}

func (b *Badger) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (b *Badger) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
