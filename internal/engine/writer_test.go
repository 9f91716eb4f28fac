package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
	"github.com/roach88/loadout/internal/testutil"
)

func composeText(t *testing.T, name string, fragments map[string]string, refs ...string) domain.Composition {
	t.Helper()
	c := NewComposer(repository.NewMemoryFragmentStore(fragments), testutil.NewDeterministicEnvironment(""))
	comp, err := c.Compose(loadoutOf(name, refs...))
	require.NoError(t, err)
	return comp
}

func styleComposition(t *testing.T) domain.Composition {
	return composeText(t, "dev", map[string]string{"style.md": "# Style\n\nUse tabs."}, "style.md")
}

func TestWriteIfChanged_FreshStateWritesAllPaths(t *testing.T) {
	state := repository.NewMemoryStateStore(domain.AppState{})
	files := repository.NewMemoryFileWriter()
	w := NewOutputWriter(state, files)

	outcome, err := w.WriteIfChanged(styleComposition(t), []string{"CLAUDE.md", "AGENTS.md"})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeOverwritten, outcome)

	claude, ok := files.File("CLAUDE.md")
	require.True(t, ok)
	agents, ok := files.File("AGENTS.md")
	require.True(t, ok)
	assert.Equal(t, "# Style\n\nUse tabs.\n", string(claude))
	assert.Equal(t, claude, agents, "every path gets identical bytes")

	writes := files.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, "CLAUDE.md", writes[0].Path)
	assert.Equal(t, "AGENTS.md", writes[1].Path)
}

func TestWriteIfChanged_MatchingFingerprintIsNoop(t *testing.T) {
	comp := styleComposition(t)
	state := repository.NewMemoryStateStore(domain.RecordedState("dev", comp.Fingerprint()))
	files := repository.NewMemoryFileWriter()
	w := NewOutputWriter(state, files)

	outcome, err := w.WriteIfChanged(comp, []string{"CLAUDE.md"})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeUpToDate, outcome)
	assert.Empty(t, files.Writes())
	assert.Equal(t, 0, state.Saves())
}

func TestWriteIfChanged_Idempotent(t *testing.T) {
	comp := styleComposition(t)
	state := repository.NewMemoryStateStore(domain.AppState{})
	files := repository.NewMemoryFileWriter()
	w := NewOutputWriter(state, files)

	outcome, err := w.WriteIfChanged(comp, []string{"CLAUDE.md"})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeOverwritten, outcome)
	require.NoError(t, state.Save(domain.RecordedState(comp.LoadoutName, comp.Fingerprint())))

	outcome, err = w.WriteIfChanged(comp, []string{"CLAUDE.md"})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpToDate, outcome)
	assert.Len(t, files.Writes(), 1)
}

func TestWriteIfChanged_UnrecordedWriteRepeats(t *testing.T) {
	comp := styleComposition(t)
	state := repository.NewMemoryStateStore(domain.AppState{})
	files := repository.NewMemoryFileWriter()
	w := NewOutputWriter(state, files)

	for i := 0; i < 2; i++ {
		outcome, err := w.WriteIfChanged(comp, []string{"CLAUDE.md"})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeOverwritten, outcome)
	}
	assert.Len(t, files.Writes(), 2, "the writer never records state itself")
	assert.Equal(t, 0, state.Saves())
}

func TestWriteIfChanged_StopsAtFirstFailure(t *testing.T) {
	state := repository.NewMemoryStateStore(domain.AppState{})
	files := repository.NewMemoryFileWriter()
	files.FailOn("b.md")
	w := NewOutputWriter(state, files)

	outcome, err := w.WriteIfChanged(styleComposition(t), []string{"a.md", "b.md", "c.md"})
	require.Error(t, err)
	assert.Equal(t, domain.WriteOutcome(""), outcome)
	assert.True(t, domain.IsFileSystem(err))
	assert.ErrorIs(t, err, repository.ErrInjected)

	_, ok := files.File("a.md")
	assert.True(t, ok, "earlier paths stay written")
	_, ok = files.File("c.md")
	assert.False(t, ok, "later paths are not attempted")
}

func TestWriteIfChanged_RequiresPaths(t *testing.T) {
	w := NewOutputWriter(repository.NewMemoryStateStore(domain.AppState{}), repository.NewMemoryFileWriter())

	_, err := w.WriteIfChanged(styleComposition(t), nil)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidInput(err))
}

func TestWriteIfChanged_StateFailurePropagates(t *testing.T) {
	state := repository.NewMemoryStateStore(domain.AppState{})
	state.LoadErr = domain.ConfigurationError("unreadable state", nil)
	files := repository.NewMemoryFileWriter()
	w := NewOutputWriter(state, files)

	_, err := w.WriteIfChanged(styleComposition(t), []string{"CLAUDE.md"})
	require.Error(t, err)
	assert.True(t, domain.IsConfiguration(err))
	assert.Empty(t, files.Writes())
}

func TestWriteIfChanged_EmptyComposition(t *testing.T) {
	comp := composeText(t, "empty", nil)
	files := repository.NewMemoryFileWriter()
	w := NewOutputWriter(repository.NewMemoryStateStore(domain.AppState{}), files)

	outcome, err := w.WriteIfChanged(comp, []string{"CLAUDE.md"})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeOverwritten, outcome)

	data, ok := files.File("CLAUDE.md")
	require.True(t, ok)
	assert.Empty(t, data)
}

func TestWriteIfChanged_MetadataHeader(t *testing.T) {
	files := repository.NewMemoryFileWriter()
	w := NewOutputWriter(repository.NewMemoryStateStore(domain.AppState{}), files, WithMetadataHeader(true))

	_, err := w.WriteIfChanged(styleComposition(t), []string{"CLAUDE.md"})
	require.NoError(t, err)

	data, _ := files.File("CLAUDE.md")
	assert.Equal(t,
		"<!-- loadout: dev | generated: 2025-01-02T03:04:05Z | fingerprint: 42f26ca5347e849a -->\n\n# Style\n\nUse tabs.\n",
		string(data),
	)
}
