package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/carolinamerca/vetsyn/series"
)

// Store keeps named series snapshots in a single SQLite table as JSON
// payload blobs. Save overwrites the previous snapshot of the same name,
// so the store always holds the current container per name.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the snapshot store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshot (
		name     TEXT PRIMARY KEY,
		payload  BLOB NOT NULL,
		saved_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	slog.Info("snapshot store opened", "path", path)
	return &Store{db: db, path: path}, nil
}

// Save encodes s and upserts it under name.
func (st *Store) Save(ctx context.Context, name string, s *series.Series) error {
	payload, err := Encode(s)
	if err != nil {
		return err
	}
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO snapshot (name, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		name, payload, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	rows, cols := s.Dim()
	slog.Info("snapshot saved", "name", name, "rows", rows, "cols", cols)
	return nil
}

// Load decodes the snapshot stored under name.
// Errors: ErrUnknownSnapshot for a missing name, ErrCorruptSnapshot for
// an undecodable payload.
func (st *Store) Load(ctx context.Context, name string) (*series.Series, error) {
	var payload []byte
	err := st.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshot WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	s, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	slog.Info("snapshot loaded", "name", name)
	return s, nil
}

// Names lists the stored snapshot names in lexicographic order.
func (st *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT name FROM snapshot ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Delete removes the snapshot stored under name, if any.
func (st *Store) Delete(ctx context.Context, name string) error {
	if _, err := st.db.ExecContext(ctx, `DELETE FROM snapshot WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (st *Store) Close() error {
	return st.db.Close()
}
