package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tmengine/internal/tmdoc"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes a stored document.
type Snapshot struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
	Seq  int64  `json:"seq"`
}

// SaveSnapshot stores doc under name as canonical JSON. Saving under an
// existing name replaces the previous document and moves the snapshot to
// the end of the listing order.
func (s *Store) SaveSnapshot(ctx context.Context, name string, doc *tmdoc.Document) (Snapshot, error) {
	if name == "" {
		return Snapshot{}, fmt.Errorf("save snapshot: name is required")
	}
	data, err := tmdoc.Canonical(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}
	hash, err := tmdoc.Hash(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}
	defer tx.Rollback()

	// Logical clock: snapshots are ordered by seq, never by wall time.
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(created_seq), 0) + 1 FROM snapshots`).Scan(&seq); err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: next seq: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (name, hash, document, created_seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			hash = excluded.hash,
			document = excluded.document,
			created_seq = excluded.created_seq
	`, name, hash, string(data), seq)
	if err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("save snapshot %q: commit: %w", name, err)
	}
	return Snapshot{Name: name, Hash: hash, Seq: seq}, nil
}

// LoadSnapshot returns the document stored under name. The stored hash is
// recomputed; a mismatch is reported as corruption.
func (s *Store) LoadSnapshot(ctx context.Context, name string) (*tmdoc.Document, error) {
	var hash, data string
	err := s.db.QueryRowContext(ctx, `
		SELECT hash, document FROM snapshots WHERE name = ?
	`, name).Scan(&hash, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load snapshot %q: %w", name, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}

	doc, err := tmdoc.Parse([]byte(data), tmdoc.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	got, err := tmdoc.Hash(doc)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	if got != hash {
		return nil, fmt.Errorf("load snapshot %q: hash mismatch: stored %s, computed %s", name, hash, got)
	}
	return doc, nil
}

// ListSnapshots returns every snapshot ordered by seq.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	return s.querySnapshots(ctx, `
		SELECT name, hash, created_seq FROM snapshots
		ORDER BY created_seq ASC, name COLLATE BINARY ASC
	`)
}

// SnapshotsByHash returns the snapshots whose document hashes to hash.
func (s *Store) SnapshotsByHash(ctx context.Context, hash string) ([]Snapshot, error) {
	return s.querySnapshots(ctx, `
		SELECT name, hash, created_seq FROM snapshots
		WHERE hash = ?
		ORDER BY created_seq ASC, name COLLATE BINARY ASC
	`, hash)
}

// DeleteSnapshot removes the snapshot stored under name.
func (s *Store) DeleteSnapshot(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete snapshot %q: %w", name, ErrSnapshotNotFound)
	}
	return nil
}

func (s *Store) querySnapshots(ctx context.Context, query string, args ...any) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.Name, &snap.Hash, &snap.Seq); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}
