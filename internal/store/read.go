package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/loadout/internal/domain"
)

// List returns up to limit entries, newest first. A limit <= 0 returns
// every entry.
//
// Returns an empty slice (not nil) if the ledger is empty.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, seq, loadout, fingerprint, outcome, paths, recorded_at
		FROM activations
		ORDER BY seq DESC, id COLLATE BINARY ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ListForLoadout returns the entries for one loadout, newest first.
func (s *Store) ListForLoadout(ctx context.Context, loadout string, limit int) ([]Entry, error) {
	query := `
		SELECT id, seq, loadout, fingerprint, outcome, paths, recorded_at
		FROM activations
		WHERE loadout = ?
		ORDER BY seq DESC, id COLLATE BINARY ASC
	`
	args := []any{loadout}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activations: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activations: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e          Entry
		outcome    string
		pathsJSON  string
		recordedAt int64
	)
	if err := rows.Scan(&e.ID, &e.Seq, &e.Loadout, &e.Fingerprint, &outcome, &pathsJSON, &recordedAt); err != nil {
		return Entry{}, fmt.Errorf("scan activation: %w", err)
	}
	paths, err := unmarshalPaths(pathsJSON)
	if err != nil {
		return Entry{}, fmt.Errorf("scan activation %s: %w", e.ID, err)
	}
	e.Outcome = domain.WriteOutcome(outcome)
	e.Paths = paths
	e.RecordedAt = time.UnixMilli(recordedAt).UTC()
	return e, nil
}
