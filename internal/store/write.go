package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/loadout/internal/domain"
)

// Entry is one ledger row.
type Entry struct {
	ID          string              `json:"id"`
	Seq         int64               `json:"seq"`
	Loadout     string              `json:"loadout"`
	Fingerprint string              `json:"fingerprint"`
	Outcome     domain.WriteOutcome `json:"outcome"`
	Paths       []string            `json:"paths"`
	RecordedAt  time.Time           `json:"recorded_at"`
}

// Append inserts e and returns it with ID and Seq filled in.
//
// An empty ID gets a fresh UUIDv7. Seq is always assigned here as one past
// the current maximum, inside the same transaction as the insert.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.Loadout == "" || e.Fingerprint == "" {
		return Entry{}, errors.New("append activation: loadout and fingerprint are required")
	}
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Entry{}, fmt.Errorf("append activation: generate id: %w", err)
		}
		e.ID = id.String()
	}

	pathsJSON, err := marshalPaths(e.Paths)
	if err != nil {
		return Entry{}, fmt.Errorf("append activation: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("append activation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM activations`).Scan(&e.Seq); err != nil {
		return Entry{}, fmt.Errorf("append activation: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO activations
		(id, seq, loadout, fingerprint, outcome, paths, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Seq,
		e.Loadout,
		e.Fingerprint,
		string(e.Outcome),
		pathsJSON,
		e.RecordedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("append activation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("append activation: commit: %w", err)
	}

	e.RecordedAt = time.UnixMilli(e.RecordedAt.UTC().UnixMilli()).UTC()
	if e.Paths == nil {
		e.Paths = []string{}
	}
	return e, nil
}
