package filestore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
	"github.com/roach88/loadout/internal/schema"
)

var _ repository.StateStore = (*StateFile)(nil)

// StateFile is the filesystem StateStore: a single JSON record.
type StateFile struct {
	path      string
	validator *schema.Validator
}

// NewStateFile creates a store over the record at path.
func NewStateFile(path string, validator *schema.Validator) *StateFile {
	return &StateFile{path: path, validator: validator}
}

// Load returns the stored state. A missing file is the zero state; an
// unreadable or unparseable one is a CONFIGURATION failure.
func (s *StateFile) Load() (domain.AppState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.AppState{}, nil
	}
	if err != nil {
		return domain.AppState{}, domain.ConfigurationError("failed to read state file "+s.path, err)
	}
	if err := s.validator.ValidateState(s.path, data); err != nil {
		return domain.AppState{}, domain.ConfigurationError("failed to parse state file "+s.path, err)
	}
	var st domain.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.AppState{}, domain.ConfigurationError("failed to parse state file "+s.path, err)
	}
	return st, nil
}

// Save replaces the stored state atomically.
func (s *StateFile) Save(st domain.AppState) error {
	if err := st.Validate(); err != nil {
		return err
	}
	data, err := marshalRecord(st)
	if err != nil {
		return domain.SerializationError("state record", err)
	}
	if err := writeFileAtomic(s.path, data, filePerm); err != nil {
		return domain.FileSystemError("write state", s.path, err)
	}
	return nil
}
