package service

import (
	"fmt"
	"strings"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
)

// Create validates and saves a new loadout.
func (s *Service) Create(name, description string, refs []string) (domain.Loadout, error) {
	if err := domain.ValidateName(name); err != nil {
		return domain.Loadout{}, err
	}
	if s.loadouts.Exists(name) {
		return domain.Loadout{}, domain.LoadoutExists(name)
	}

	l := domain.NewLoadout(name, description, refs, s.env.Now())
	if err := l.Check(); err != nil {
		return domain.Loadout{}, err
	}
	if err := s.loadouts.Save(l); err != nil {
		return domain.Loadout{}, fmt.Errorf("create loadout %q: %w", name, err)
	}
	return l, nil
}

// Clone creates name from the fragments of from plus extra. An empty
// description inherits the source's.
func (s *Service) Clone(name, from, description string, extra []string) (domain.Loadout, error) {
	src, err := s.Get(from)
	if err != nil {
		return domain.Loadout{}, err
	}
	if strings.TrimSpace(description) == "" {
		description = src.Description
	}
	refs := append(append([]string(nil), src.Fragments...), extra...)
	return s.Create(name, description, refs)
}

// Get returns the named loadout or a NOT_FOUND failure.
func (s *Service) Get(name string) (domain.Loadout, error) {
	l, err := s.loadouts.FindByName(name)
	if err != nil {
		return domain.Loadout{}, err
	}
	if l == nil {
		return domain.Loadout{}, domain.LoadoutNotFound(name)
	}
	return *l, nil
}

// List returns every loadout sorted by name.
func (s *Service) List() ([]domain.Loadout, error) {
	return s.loadouts.ListAll()
}

// Update replaces an existing loadout.
func (s *Service) Update(l domain.Loadout) (domain.Loadout, error) {
	if !s.loadouts.Exists(l.Name) {
		return domain.Loadout{}, domain.LoadoutNotFound(l.Name)
	}
	if err := l.Check(); err != nil {
		return domain.Loadout{}, err
	}
	if err := s.loadouts.Save(l); err != nil {
		return domain.Loadout{}, fmt.Errorf("update loadout %q: %w", l.Name, err)
	}
	return l, nil
}

// Delete removes a loadout. The application state is left untouched, so
// deleting the active loadout shows up as "not synchronized" afterwards.
func (s *Service) Delete(name string) error {
	return s.loadouts.Delete(name)
}

// AddFragment inserts ref after the reference after, or appends it.
// Adding a reference that is already present leaves the order unchanged.
func (s *Service) AddFragment(name, ref, after string) (domain.Loadout, error) {
	if domain.NormalizeReference(ref) == "" {
		return domain.Loadout{}, domain.InvalidInput("fragment", "fragment reference cannot be blank")
	}
	l, err := s.Get(name)
	if err != nil {
		return domain.Loadout{}, err
	}
	return s.Update(l.AddFragment(ref, after, s.env.Now()))
}

// RemoveFragment drops ref from the loadout.
func (s *Service) RemoveFragment(name, ref string) (domain.Loadout, error) {
	l, err := s.Get(name)
	if err != nil {
		return domain.Loadout{}, err
	}
	if !l.Contains(ref) {
		return domain.Loadout{}, notInLoadout(name, ref)
	}
	return s.Update(l.RemoveFragment(ref, s.env.Now()))
}

// MoveFragment relocates ref directly after the reference after, or to the
// end when after is empty.
func (s *Service) MoveFragment(name, ref, after string) (domain.Loadout, error) {
	l, err := s.Get(name)
	if err != nil {
		return domain.Loadout{}, err
	}
	if !l.Contains(ref) {
		return domain.Loadout{}, notInLoadout(name, ref)
	}
	if strings.TrimSpace(after) != "" && !l.Contains(after) {
		return domain.Loadout{}, notInLoadout(name, after)
	}
	return s.Update(l.MoveFragment(ref, after, s.env.Now()))
}

// Fragments lists every available fragment.
func (s *Service) Fragments() ([]domain.Fragment, error) {
	return s.fragments.ListAll()
}

// FindFragment returns the fragment behind ref, or nil when it does not exist.
func (s *Service) FindFragment(ref string) (*domain.Fragment, error) {
	return s.fragments.Find(ref)
}

// WriteFragment creates or replaces a fragment. The fragment store must
// implement repository.FragmentWriter.
func (s *Service) WriteFragment(ref, content string) error {
	w, ok := s.fragments.(repository.FragmentWriter)
	if !ok {
		return domain.InvalidInput("fragment", "fragment store is read-only")
	}
	if domain.NormalizeReference(ref) == "" {
		return domain.InvalidInput("fragment", "fragment reference cannot be blank")
	}
	return w.WriteFragment(ref, content)
}

// Validate returns the references of the named loadout that do not
// resolve to a fragment.
func (s *Service) Validate(name string) ([]string, error) {
	l, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	if err := l.Check(); err != nil {
		return nil, err
	}
	return s.composer.ValidateFragments(l)
}

// Preview composes the named loadout without writing anything.
func (s *Service) Preview(name string) (domain.Composition, error) {
	l, err := s.Get(name)
	if err != nil {
		return domain.Composition{}, err
	}
	return s.composer.Compose(l)
}

func notInLoadout(name, ref string) *domain.Error {
	return &domain.Error{
		Kind:    domain.KindNotFound,
		Message: fmt.Sprintf("fragment is not part of loadout %q", name),
		Ref:     domain.NormalizeReference(ref),
	}
}
