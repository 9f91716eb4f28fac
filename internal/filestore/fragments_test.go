package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/testutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFragments(t *testing.T) (*Fragments, string, string) {
	t.Helper()
	root := t.TempDir()
	home := t.TempDir()
	env := testutil.NewDeterministicEnvironment(home)
	return NewFragments(root, "fragments", "~/.loadout/fragments", env), root, home
}

func TestFragments_LoadContent(t *testing.T) {
	s, root, home := newFragments(t)
	writeFile(t, filepath.Join(root, "fragments", "style.md"), "# Style\n")
	writeFile(t, filepath.Join(home, ".loadout", "fragments", "me.md"), "# Me\n")

	content, err := s.LoadContent("fragments/style.md")
	require.NoError(t, err)
	assert.Equal(t, "# Style\n", content)

	content, err = s.LoadContent("~/.loadout/fragments/me.md")
	require.NoError(t, err)
	assert.Equal(t, "# Me\n", content)

	abs := filepath.Join(root, "fragments", "style.md")
	content, err = s.LoadContent(abs)
	require.NoError(t, err)
	assert.Equal(t, "# Style\n", content)
}

func TestFragments_LoadContentMissing(t *testing.T) {
	s, _, _ := newFragments(t)

	_, err := s.LoadContent("fragments/missing.md")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "fragments/missing.md")
}

func TestFragments_LoadContentDirectory(t *testing.T) {
	s, root, _ := newFragments(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "fragments", "nested"), 0o755))

	_, err := s.LoadContent("fragments/nested")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "a directory is reported like a missing fragment")

	f, err := s.Find("fragments/nested")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFragments_Find(t *testing.T) {
	s, root, _ := newFragments(t)
	writeFile(t, filepath.Join(root, "fragments", "style.md"), "tabs")

	f, err := s.Find("./fragments//style.md")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "fragments/style.md", f.Ref)
	assert.Equal(t, "style", f.Name)
	assert.Empty(t, f.Content, "content is loaded lazily")

	f, err = s.Find("fragments/absent.md")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFragments_ListAll(t *testing.T) {
	s, root, home := newFragments(t)
	writeFile(t, filepath.Join(root, "fragments", "testing.md"), "t")
	writeFile(t, filepath.Join(root, "fragments", "lang", "go.md"), "g")
	writeFile(t, filepath.Join(root, "fragments", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(home, ".loadout", "fragments", "personal.md"), "p")

	all, err := s.ListAll()
	require.NoError(t, err)

	refs := make([]string, 0, len(all))
	for _, f := range all {
		refs = append(refs, f.Ref)
	}
	assert.Equal(t, []string{
		"fragments/lang/go.md",
		"fragments/testing.md",
		"~/.loadout/fragments/personal.md",
	}, refs)
	assert.Equal(t, "go", all[0].Name)
	assert.Empty(t, all[0].Content, "listing does not load content")
}

func TestFragments_ListAllMissingDirectories(t *testing.T) {
	s, _, _ := newFragments(t)

	all, err := s.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFragments_Resolve(t *testing.T) {
	s, root, home := newFragments(t)

	p, err := s.Resolve("fragments/a.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "fragments", "a.md"), p)

	p, err = s.Resolve("~/x/b.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "b.md"), p)

	_, err = s.Resolve("   ")
	require.Error(t, err)
	assert.True(t, domain.IsInvalidInput(err))
}

func TestFragments_WriteFragment(t *testing.T) {
	s, root, _ := newFragments(t)

	require.NoError(t, s.WriteFragment("fragments/new/intro.md", "# Intro\n"))
	data, err := os.ReadFile(filepath.Join(root, "fragments", "new", "intro.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Intro\n", string(data))

	content, err := s.LoadContent("fragments/new/intro.md")
	require.NoError(t, err)
	assert.Equal(t, "# Intro\n", content)

	err = s.WriteFragment("", "x")
	assert.True(t, domain.IsInvalidInput(err))
}
