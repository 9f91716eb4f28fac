package repository

import (
	"errors"
	"sort"
	"sync"

	"github.com/roach88/loadout/internal/domain"
)

var (
	_ FragmentStore  = (*MemoryFragmentStore)(nil)
	_ FragmentWriter = (*MemoryFragmentStore)(nil)
	_ LoadoutStore   = (*MemoryLoadoutStore)(nil)
	_ StateStore     = (*MemoryStateStore)(nil)
	_ FileWriter     = (*MemoryFileWriter)(nil)
)

// MemoryFragmentStore is an in-memory FragmentStore.
//
// Put and Remove simulate edits on disk; Fail makes LoadContent and Find
// return an error for a specific reference.
type MemoryFragmentStore struct {
	mu       sync.Mutex
	contents map[string]string
	failures map[string]error
	loads    []string
}

// NewMemoryFragmentStore creates a store seeded with ref -> content pairs.
func NewMemoryFragmentStore(contents map[string]string) *MemoryFragmentStore {
	s := &MemoryFragmentStore{
		contents: make(map[string]string, len(contents)),
		failures: make(map[string]error),
	}
	for ref, c := range contents {
		s.contents[domain.NormalizeReference(ref)] = c
	}
	return s
}

// Put creates or replaces a fragment.
func (s *MemoryFragmentStore) Put(ref, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[domain.NormalizeReference(ref)] = content
}

// WriteFragment is Put with an error return.
func (s *MemoryFragmentStore) WriteFragment(ref, content string) error {
	s.Put(ref, content)
	return nil
}

// Remove deletes a fragment.
func (s *MemoryFragmentStore) Remove(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contents, domain.NormalizeReference(ref))
}

// Fail makes every read of ref return err.
func (s *MemoryFragmentStore) Fail(ref string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[domain.NormalizeReference(ref)] = err
}

// Loads returns the references passed to LoadContent, in call order.
func (s *MemoryFragmentStore) Loads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
}

func (s *MemoryFragmentStore) Find(ref string) (*domain.Fragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref = domain.NormalizeReference(ref)
	if err := s.failures[ref]; err != nil {
		return nil, err
	}
	if _, ok := s.contents[ref]; !ok {
		return nil, nil
	}
	return &domain.Fragment{Ref: ref, Name: domain.FragmentName(ref)}, nil
}

func (s *MemoryFragmentStore) ListAll() ([]domain.Fragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Fragment, 0, len(s.contents))
	for ref := range s.contents {
		out = append(out, domain.Fragment{Ref: ref, Name: domain.FragmentName(ref)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out, nil
}

func (s *MemoryFragmentStore) LoadContent(ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref = domain.NormalizeReference(ref)
	s.loads = append(s.loads, ref)
	if err := s.failures[ref]; err != nil {
		return "", err
	}
	c, ok := s.contents[ref]
	if !ok {
		return "", domain.FragmentNotFound(ref)
	}
	return c, nil
}

// MemoryLoadoutStore is an in-memory LoadoutStore. Records are deep-copied
// on the way in and out.
type MemoryLoadoutStore struct {
	mu       sync.Mutex
	loadouts map[string]domain.Loadout
	SaveErr  error
}

// NewMemoryLoadoutStore creates a store seeded with the given loadouts.
func NewMemoryLoadoutStore(seed ...domain.Loadout) *MemoryLoadoutStore {
	s := &MemoryLoadoutStore{loadouts: make(map[string]domain.Loadout, len(seed))}
	for _, l := range seed {
		s.loadouts[l.Name] = l.Clone()
	}
	return s
}

func (s *MemoryLoadoutStore) ListAll() ([]domain.Loadout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Loadout, 0, len(s.loadouts))
	for _, l := range s.loadouts {
		out = append(out, l.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryLoadoutStore) FindByName(name string) (*domain.Loadout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loadouts[name]
	if !ok {
		return nil, nil
	}
	c := l.Clone()
	return &c, nil
}

func (s *MemoryLoadoutStore) Save(l domain.Loadout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.loadouts[l.Name] = l.Clone()
	return nil
}

func (s *MemoryLoadoutStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loadouts[name]; !ok {
		return domain.LoadoutNotFound(name)
	}
	delete(s.loadouts, name)
	return nil
}

func (s *MemoryLoadoutStore) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.loadouts[name]
	return ok
}

// MemoryStateStore is an in-memory StateStore.
// LoadErr and SaveErr inject failures; Saves counts successful saves.
type MemoryStateStore struct {
	mu      sync.Mutex
	state   domain.AppState
	saves   int
	LoadErr error
	SaveErr error
}

// NewMemoryStateStore creates a store holding st.
func NewMemoryStateStore(st domain.AppState) *MemoryStateStore {
	return &MemoryStateStore{state: copyState(st)}
}

func (s *MemoryStateStore) Load() (domain.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return domain.AppState{}, s.LoadErr
	}
	return copyState(s.state), nil
}

func (s *MemoryStateStore) Save(st domain.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.state = copyState(st)
	s.saves++
	return nil
}

// Saves returns the number of successful Save calls.
func (s *MemoryStateStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func copyState(st domain.AppState) domain.AppState {
	var out domain.AppState
	if st.ActiveLoadout != nil {
		v := *st.ActiveLoadout
		out.ActiveLoadout = &v
	}
	if st.LastFingerprint != nil {
		v := *st.LastFingerprint
		out.LastFingerprint = &v
	}
	return out
}

// FileWrite is one call recorded by MemoryFileWriter.
type FileWrite struct {
	Path string
	Data []byte
}

// ErrInjected is returned by MemoryFileWriter for paths registered with FailOn.
var ErrInjected = errors.New("injected write failure")

// MemoryFileWriter is an in-memory FileWriter that records every write.
type MemoryFileWriter struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes []FileWrite
	failOn map[string]bool
}

// NewMemoryFileWriter creates an empty writer.
func NewMemoryFileWriter() *MemoryFileWriter {
	return &MemoryFileWriter{files: make(map[string][]byte), failOn: make(map[string]bool)}
}

// FailOn makes writes to path return ErrInjected.
func (w *MemoryFileWriter) FailOn(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failOn[path] = true
}

func (w *MemoryFileWriter) WriteFile(path string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failOn[path] {
		return ErrInjected
	}
	buf := append([]byte(nil), data...)
	w.files[path] = buf
	w.writes = append(w.writes, FileWrite{Path: path, Data: buf})
	return nil
}

// File returns the current content of path and whether it was ever written.
func (w *MemoryFileWriter) File(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.files[path]
	return b, ok
}

// Writes returns every recorded write in call order.
func (w *MemoryFileWriter) Writes() []FileWrite {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]FileWrite(nil), w.writes...)
}
