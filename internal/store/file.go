package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/keshon/datastore"
)

// FileSaveInterval is how often the file backend flushes to disk. Writes
// made since the last flush are lost if the process dies before Close.
const FileSaveInterval = time.Second

// File implements KV on a JSON file. Writes land in memory and reach disk on
// the next autosave tick or on Close.
type File struct {
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

// NewFile opens or creates the JSON datastore at path.
func NewFile(path string) (*File, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	ds, err := datastore.New(ctx, path,
		datastore.WithSaveInterval(FileSaveInterval),
		datastore.WithLogger(slog.Default()),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open datastore: %w", err)
	}
	return &File{ds: ds, cancel: cancel}, nil
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	var s string
	found, err := f.ds.Get(key, &s)
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return s, found, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	return f.SetMany(ctx, map[string]string{key: value})
}

func (f *File) SetMany(ctx context.Context, entries map[string]string) error {
	for _, k := range sortedKeys(entries) {
		if err := f.ds.Set(k, entries[k]); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := f.ds.Delete(key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close stops the autosave loop and writes the final state.
func (f *File) Close() error {
	f.cancel()
	return f.ds.Close()
}
