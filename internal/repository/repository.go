package repository

import "github.com/roach88/loadout/internal/domain"

// FragmentStore resolves fragment references to content. Read-only.
type FragmentStore interface {
	// Find returns the fragment without its content, or nil when the
	// reference does not resolve.
	Find(ref string) (*domain.Fragment, error)

	// ListAll enumerates every available fragment, sorted by reference.
	ListAll() ([]domain.Fragment, error)

	// LoadContent reads the raw content. Absent fragments are a NotFound failure.
	LoadContent(ref string) (string, error)
}

// FragmentWriter is implemented by fragment stores that can create
// fragments.
type FragmentWriter interface {
	// WriteFragment creates or replaces the fragment behind ref.
	WriteFragment(ref, content string) error
}

// LoadoutStore persists Loadout records keyed by name.
type LoadoutStore interface {
	// ListAll returns every loadout sorted by name.
	ListAll() ([]domain.Loadout, error)

	// FindByName returns the loadout, or nil when no loadout has that name.
	FindByName(name string) (*domain.Loadout, error)

	// Save creates or replaces the record for l.Name.
	Save(l domain.Loadout) error

	// Delete removes the record. Absent names are a NotFound failure.
	Delete(name string) error

	// Exists reports whether a record for name is present.
	Exists(name string) bool
}

// StateStore persists the singleton AppState.
type StateStore interface {
	// Load returns the stored state, or the zero AppState when none was saved.
	Load() (domain.AppState, error)

	// Save replaces the stored state.
	Save(state domain.AppState) error
}

// FileWriter writes generated output files.
type FileWriter interface {
	WriteFile(path string, data []byte) error
}
