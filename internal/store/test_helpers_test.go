package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/loadout/internal/domain"
)

var testTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEntry creates an entry with minimal required fields.
func createTestEntry(loadout, fingerprint string, at time.Time) Entry {
	return Entry{
		Loadout:     loadout,
		Fingerprint: fingerprint,
		Outcome:     domain.OutcomeOverwritten,
		Paths:       []string{"CLAUDE.md", "AGENTS.md"},
		RecordedAt:  at,
	}
}
