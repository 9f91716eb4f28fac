package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
	"github.com/roach88/loadout/internal/testutil"
)

type oracleFixture struct {
	fragments *repository.MemoryFragmentStore
	loadouts  *repository.MemoryLoadoutStore
	state     *repository.MemoryStateStore
	oracle    *SyncOracle
}

func newOracleFixture(t *testing.T, st domain.AppState, loadouts ...domain.Loadout) *oracleFixture {
	t.Helper()
	f := &oracleFixture{
		fragments: repository.NewMemoryFragmentStore(map[string]string{
			"style.md":   "# Style\n\nUse tabs.",
			"testing.md": "# Testing\n\nUse testify.",
		}),
		loadouts: repository.NewMemoryLoadoutStore(loadouts...),
		state:    repository.NewMemoryStateStore(st),
	}
	composer := NewComposer(f.fragments, testutil.NewDeterministicEnvironment(""))
	f.oracle = NewSyncOracle(f.state, f.loadouts, composer)
	return f
}

func TestSyncOracle_NoActiveLoadout(t *testing.T) {
	f := newOracleFixture(t, domain.AppState{})

	ok, err := f.oracle.IsSynchronized()
	require.NoError(t, err)
	assert.True(t, ok)

	r, err := f.oracle.Check()
	require.NoError(t, err)
	assert.Equal(t, ReasonNoActive, r.Reason)
}

func TestSyncOracle_NeverWritten(t *testing.T) {
	name := "dev"
	f := newOracleFixture(t, domain.AppState{ActiveLoadout: &name}, loadoutOf("dev", "style.md"))

	ok, err := f.oracle.IsSynchronized()
	require.NoError(t, err)
	assert.False(t, ok)

	r, err := f.oracle.Check()
	require.NoError(t, err)
	assert.Equal(t, ReasonNeverWritten, r.Reason)
	assert.Equal(t, "dev", r.Active)
}

func TestSyncOracle_ActiveLoadoutDeleted(t *testing.T) {
	f := newOracleFixture(t, domain.RecordedState("gone", "42f26ca5347e849a"))

	ok, err := f.oracle.IsSynchronized()
	require.NoError(t, err)
	assert.False(t, ok)

	r, err := f.oracle.Check()
	require.NoError(t, err)
	assert.Equal(t, ReasonLoadoutMissing, r.Reason)
}

func TestSyncOracle_DetectsDriftAndRevert(t *testing.T) {
	f := newOracleFixture(t,
		domain.RecordedState("dev", "42f26ca5347e849a"),
		loadoutOf("dev", "style.md"),
	)

	ok, err := f.oracle.IsSynchronized()
	require.NoError(t, err)
	assert.True(t, ok, "recorded fingerprint matches")

	f.fragments.Put("style.md", "# Style\n\nUse spaces.")
	r, err := f.oracle.Check()
	require.NoError(t, err)
	assert.False(t, r.Synchronized)
	assert.Equal(t, ReasonDrift, r.Reason)
	assert.Equal(t, "42f26ca5347e849a", r.Recorded)
	assert.NotEqual(t, r.Recorded, r.Current)

	f.fragments.Put("style.md", "# Style\n\nUse tabs.")
	ok, err = f.oracle.IsSynchronized()
	require.NoError(t, err)
	assert.True(t, ok, "reverting the edit restores sync")
}

func TestSyncOracle_WhitespaceOnlyEditStaysSynchronized(t *testing.T) {
	f := newOracleFixture(t,
		domain.RecordedState("dev", "42f26ca5347e849a"),
		loadoutOf("dev", "style.md"),
	)

	f.fragments.Put("style.md", "\n\n# Style\n\nUse tabs.\n\n\n")

	ok, err := f.oracle.IsSynchronized()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSyncOracle_CompositionFailurePropagates(t *testing.T) {
	f := newOracleFixture(t,
		domain.RecordedState("dev", "42f26ca5347e849a"),
		loadoutOf("dev", "style.md", "missing.md"),
	)

	ok, err := f.oracle.IsSynchronized()
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, domain.IsNotFound(err))
}

func TestSyncOracle_StateFailurePropagates(t *testing.T) {
	f := newOracleFixture(t, domain.AppState{})
	f.state.LoadErr = domain.ConfigurationError("unreadable state", errors.New("bad json"))

	_, err := f.oracle.IsSynchronized()
	require.Error(t, err)
	assert.True(t, domain.IsConfiguration(err))
}

func TestSyncOracle_NeverWritesState(t *testing.T) {
	f := newOracleFixture(t,
		domain.RecordedState("dev", "0000000000000000"),
		loadoutOf("dev", "style.md"),
	)

	_, err := f.oracle.IsSynchronized()
	require.NoError(t, err)
	assert.Equal(t, 0, f.state.Saves())
}
