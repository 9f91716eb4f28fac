package filestore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
)

// FragmentExt is the extension of fragment files.
const FragmentExt = ".md"

var (
	_ repository.FragmentStore  = (*Fragments)(nil)
	_ repository.FragmentWriter = (*Fragments)(nil)
)

// Fragments is the filesystem FragmentStore.
//
// A reference is a slash-separated path relative to the project root, an
// absolute path, or a "~/" path resolved against the home directory.
type Fragments struct {
	root    string
	project string
	global  string
	env     domain.Environment
}

// NewFragments creates a store rooted at root. project is the project
// fragment directory (relative to root or absolute); global is the global
// fragment directory and may be empty or start with "~/".
func NewFragments(root, project, global string, env domain.Environment) *Fragments {
	return &Fragments{root: root, project: project, global: global, env: env}
}

// Resolve maps a reference to a filesystem path.
func (s *Fragments) Resolve(ref string) (string, error) {
	ref = domain.NormalizeReference(ref)
	switch {
	case ref == "":
		return "", domain.InvalidInput("fragment", "fragment reference cannot be blank")
	case ref == "~" || strings.HasPrefix(ref, "~/"):
		home, err := s.env.HomeDir()
		if err != nil {
			return "", domain.FileSystemError("resolve home directory", ref, err)
		}
		return filepath.Join(home, filepath.FromSlash(strings.TrimPrefix(ref, "~"))), nil
	case filepath.IsAbs(filepath.FromSlash(ref)):
		return filepath.FromSlash(ref), nil
	default:
		return filepath.Join(s.root, filepath.FromSlash(ref)), nil
	}
}

// Find stats the file behind ref. Content is not loaded and the file is
// never opened.
func (s *Fragments) Find(ref string) (*domain.Fragment, error) {
	p, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.FileSystemError("stat fragment", ref, err)
	}
	ref = domain.NormalizeReference(ref)
	return &domain.Fragment{
		Ref:       ref,
		Name:      domain.FragmentName(ref),
		CreatedAt: info.ModTime().UTC(),
		UpdatedAt: info.ModTime().UTC(),
	}, nil
}

func (s *Fragments) LoadContent(ref string) (string, error) {
	p, err := s.Resolve(ref)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return "", domain.FragmentNotFound(domain.NormalizeReference(ref))
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.FragmentNotFound(domain.NormalizeReference(ref))
	}
	if err != nil {
		return "", domain.FileSystemError("read fragment", domain.NormalizeReference(ref), err)
	}
	return string(data), nil
}

// WriteFragment creates or replaces the fragment file behind ref.
func (s *Fragments) WriteFragment(ref, content string) error {
	p, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(p, []byte(content), filePerm); err != nil {
		return domain.FileSystemError("write fragment", domain.NormalizeReference(ref), err)
	}
	return nil
}

// ListAll enumerates every fragment file under the project and global
// directories, sorted by reference. Missing directories are skipped.
// Content is not loaded.
func (s *Fragments) ListAll() ([]domain.Fragment, error) {
	var out []domain.Fragment

	projectDir := s.project
	if !filepath.IsAbs(projectDir) {
		projectDir = filepath.Join(s.root, projectDir)
	}
	found, err := s.scan(projectDir, s.projectRef)
	if err != nil {
		return nil, err
	}
	out = append(out, found...)

	if s.global != "" {
		globalDir, err := s.Resolve(s.global)
		if err != nil {
			return nil, err
		}
		if globalDir != projectDir {
			found, err := s.scan(globalDir, s.globalRef())
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out, nil
}

func (s *Fragments) scan(dir string, refOf func(path string) string) ([]domain.Fragment, error) {
	var out []domain.Fragment
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), FragmentExt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		ref := domain.NormalizeReference(refOf(p))
		out = append(out, domain.Fragment{
			Ref:       ref,
			Name:      domain.FragmentName(ref),
			CreatedAt: info.ModTime().UTC(),
			UpdatedAt: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, domain.FileSystemError("list fragments", dir, err)
	}
	return out, nil
}

// projectRef expresses a project fragment path relative to the root.
func (s *Fragments) projectRef(p string) string {
	if rel, err := filepath.Rel(s.root, p); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(p)
}

// globalRef expresses global fragment paths with a "~/" prefix when the
// global directory lives under the home directory.
func (s *Fragments) globalRef() func(string) string {
	home, err := s.env.HomeDir()
	return func(p string) string {
		if err == nil && home != "" {
			if rel, relErr := filepath.Rel(home, p); relErr == nil && !strings.HasPrefix(rel, "..") {
				return "~/" + filepath.ToSlash(rel)
			}
		}
		return filepath.ToSlash(p)
	}
}
