package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	Backend     string     `json:"backend"`
	DBPath      string     `json:"db_path,omitempty"`
	DBSizeBytes int64      `json:"db_size_bytes,omitempty"`
	TotalKeys   int        `json:"total_keys"`
	Keys        []KeyStats `json:"keys"`
}

// KeyStats holds per-key sizes.
type KeyStats struct {
	Key       string `json:"key"`
	Bytes     int    `json:"bytes"`
	UpdatedAt string `json:"updated_at"`
}

// Stats returns database statistics.
func (s *SQLite) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Backend: BackendSQLite, DBPath: s.path}

	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&st.TotalKeys)

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, LENGTH(value), updated_at
		FROM kv ORDER BY key`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ks KeyStats
		rows.Scan(&ks.Key, &ks.Bytes, &ks.UpdatedAt)
		st.Keys = append(st.Keys, ks)
	}
	return st, rows.Err()
}
