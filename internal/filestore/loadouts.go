package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
	"github.com/roach88/loadout/internal/schema"
)

// LoadoutExt is the extension of loadout record files.
const LoadoutExt = ".json"

var _ repository.LoadoutStore = (*Loadouts)(nil)

// Loadouts is the filesystem LoadoutStore: one JSON record per loadout in
// dir, named <name>.json.
type Loadouts struct {
	dir       string
	validator *schema.Validator
}

// NewLoadouts creates a store over dir. The directory is created on the
// first Save.
func NewLoadouts(dir string, validator *schema.Validator) *Loadouts {
	return &Loadouts{dir: dir, validator: validator}
}

func (s *Loadouts) path(name string) string {
	return filepath.Join(s.dir, name+LoadoutExt)
}

// ListAll decodes every record in the directory, sorted by name. A single
// malformed record fails the whole listing.
func (s *Loadouts) ListAll() ([]domain.Loadout, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Loadout{}, nil
	}
	if err != nil {
		return nil, domain.FileSystemError("list loadouts", s.dir, err)
	}

	out := make([]domain.Loadout, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), LoadoutExt) {
			continue
		}
		l, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByName returns the named loadout, or nil when no record exists.
func (s *Loadouts) FindByName(name string) (*domain.Loadout, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	p := s.path(name)
	if !fileExists(p) {
		return nil, nil
	}
	l, err := s.read(p)
	if err != nil {
		return nil, err
	}
	if l.Name != name {
		return nil, domain.SerializationError("loadout record",
			fmt.Errorf("%s holds loadout %q", filepath.Base(p), l.Name))
	}
	return &l, nil
}

// Save validates l and writes its record atomically.
func (s *Loadouts) Save(l domain.Loadout) error {
	if err := l.Check(); err != nil {
		return err
	}
	data, err := marshalRecord(l)
	if err != nil {
		return domain.SerializationError("loadout record", err)
	}
	p := s.path(l.Name)
	if err := writeFileAtomic(p, data, filePerm); err != nil {
		return domain.FileSystemError("write loadout", p, err)
	}
	return nil
}

func (s *Loadouts) Delete(name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.LoadoutNotFound(name)
	}
	if err != nil {
		return domain.FileSystemError("delete loadout", s.path(name), err)
	}
	return nil
}

func (s *Loadouts) Exists(name string) bool {
	if domain.ValidateName(name) != nil {
		return false
	}
	return fileExists(s.path(name))
}

func (s *Loadouts) read(p string) (domain.Loadout, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return domain.Loadout{}, domain.FileSystemError("read loadout", p, err)
	}
	if err := s.validator.ValidateLoadout(filepath.Base(p), data); err != nil {
		return domain.Loadout{}, fmt.Errorf("%s: %w", p, err)
	}
	var l domain.Loadout
	if err := json.Unmarshal(data, &l); err != nil {
		return domain.Loadout{}, domain.SerializationError("loadout record", err)
	}
	if l.Fragments == nil {
		l.Fragments = []string{}
	}
	if l.Metadata.Version == "" {
		l.Metadata.Version = domain.DefaultVersion
	}
	return l, nil
}
