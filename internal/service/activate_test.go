package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/engine"
	"github.com/roach88/loadout/internal/store"
)

func TestActivate_WritesAndRecords(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md", "fragments/testing.md")

	act, err := f.svc.Activate(context.Background(), "dev", outputs)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeOverwritten, act.Outcome)
	assert.True(t, act.Recorded)
	assert.Empty(t, act.Previous)
	assert.Equal(t, "cc98c1fe24c36e98", act.Composition.Fingerprint())

	data, ok := f.files.File("CLAUDE.md")
	require.True(t, ok)
	assert.Equal(t, "# Style\n\nUse tabs.\n\n# Testing\n\nUse testify.\n", string(data))

	st, err := f.state.Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", st.Active())
	assert.Equal(t, "cc98c1fe24c36e98", st.Fingerprint())

	require.Len(t, f.ledger.entries, 1)
	assert.Equal(t, "dev", f.ledger.entries[0].Loadout)
	assert.Equal(t, outputs, f.ledger.entries[0].Paths)
}

func TestActivate_SecondRunIsUpToDate(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md")
	ctx := context.Background()

	_, err := f.svc.Activate(ctx, "dev", outputs)
	require.NoError(t, err)
	saves := f.state.Saves()

	act, err := f.svc.Activate(ctx, "dev", outputs)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeUpToDate, act.Outcome)
	assert.False(t, act.Recorded)
	assert.Equal(t, "dev", act.Previous)
	assert.Len(t, f.files.Writes(), 2, "only the first run wrote")
	assert.Equal(t, saves, f.state.Saves(), "no state write on an up-to-date run")
	assert.Len(t, f.ledger.entries, 1)
}

func TestActivate_SameContentDifferentLoadoutRecordsName(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md")
	f.create(t, "twin", "fragments/style.md")
	ctx := context.Background()

	_, err := f.svc.Activate(ctx, "dev", outputs)
	require.NoError(t, err)

	act, err := f.svc.Activate(ctx, "twin", outputs)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeUpToDate, act.Outcome)
	assert.True(t, act.Recorded)
	assert.Len(t, f.files.Writes(), 2, "identical content is not rewritten")

	st, err := f.state.Load()
	require.NoError(t, err)
	assert.Equal(t, "twin", st.Active())
}

func TestActivate_Failures(t *testing.T) {
	f := newFixture(t)
	f.create(t, "broken", "fragments/style.md", "fragments/missing.md", "fragments/testing.md")
	ctx := context.Background()

	_, err := f.svc.Activate(ctx, "nope", outputs)
	assert.True(t, domain.IsNotFound(err))

	_, err = f.svc.Activate(ctx, "broken", outputs)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, f.files.Writes(), "composition failures write nothing")
	assert.Equal(t, 0, f.state.Saves())
}

func TestActivate_PartialWrite(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md")
	f.files.FailOn("AGENTS.md")

	_, err := f.svc.Activate(context.Background(), "dev", outputs)
	require.Error(t, err)
	assert.True(t, domain.IsFileSystem(err))

	_, ok := f.files.File("CLAUDE.md")
	assert.True(t, ok, "first path stays written")
	assert.Equal(t, 0, f.state.Saves(), "nothing recorded after a failed write")
}

func TestActivate_RecordFailure(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md")
	f.state.SaveErr = domain.FileSystemError("write state", ".loadout.json", errors.New("read-only"))

	act, err := f.svc.Activate(context.Background(), "dev", outputs)
	require.Error(t, err)

	var re *RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, domain.OutcomeOverwritten, re.Outcome)
	assert.True(t, domain.IsFileSystem(err))
	assert.False(t, act.Recorded)
	assert.Len(t, f.files.Writes(), 2, "files were written before the record step")
	assert.Empty(t, f.ledger.entries)
}

func TestActivate_SwitchRecordFailureIsNotPartialWrite(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md")
	f.create(t, "solo", "fragments/style.md")
	_, err := f.svc.Activate(context.Background(), "dev", outputs)
	require.NoError(t, err)
	writes := len(f.files.Writes())

	f.state.SaveErr = domain.FileSystemError("write state", ".loadout.json", errors.New("read-only"))
	act, err := f.svc.Activate(context.Background(), "solo", outputs)
	require.Error(t, err)

	var re *RecordError
	assert.False(t, errors.As(err, &re), "no output was written")
	assert.True(t, domain.IsFileSystem(err))
	assert.Contains(t, err.Error(), `switch active loadout to "solo"`)
	assert.Equal(t, domain.OutcomeUpToDate, act.Outcome)
	assert.False(t, act.Recorded)
	assert.Len(t, f.files.Writes(), writes)
}

func TestActivate_LedgerFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.ledger.appendErr = errors.New("database is locked")
	f.create(t, "dev", "fragments/style.md")

	act, err := f.svc.Activate(context.Background(), "dev", outputs)
	require.NoError(t, err)
	assert.True(t, act.Recorded)
}

func TestSync(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md")
	ctx := context.Background()

	_, err := f.svc.Sync(ctx, outputs)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "no active loadout")

	_, err = f.svc.Activate(ctx, "dev", outputs)
	require.NoError(t, err)

	f.fragments.Put("fragments/style.md", "# Style\n\nUse spaces.")
	ok, err := f.svc.IsSynchronized()
	require.NoError(t, err)
	assert.False(t, ok)

	act, err := f.svc.Sync(ctx, outputs)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeOverwritten, act.Outcome)

	data, _ := f.files.File("CLAUDE.md")
	assert.Equal(t, "# Style\n\nUse spaces.\n", string(data))

	ok, err = f.svc.IsSynchronized()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPreviewActive(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md")

	_, err := f.svc.PreviewActive()
	assert.True(t, domain.IsNotFound(err))

	_, err = f.svc.Activate(context.Background(), "dev", outputs)
	require.NoError(t, err)
	writes := len(f.files.Writes())

	f.fragments.Put("fragments/style.md", "# Style\n\nUse spaces.")
	comp, err := f.svc.PreviewActive()
	require.NoError(t, err)
	assert.Equal(t, "# Style\n\nUse spaces.", comp.Content)
	assert.Len(t, f.files.Writes(), writes)
}

func TestSync_ActiveLoadoutDeleted(t *testing.T) {
	f := newFixture(t)
	f.create(t, "dev", "fragments/style.md")
	ctx := context.Background()
	_, err := f.svc.Activate(ctx, "dev", outputs)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete("dev"))

	ok, err := f.svc.IsSynchronized()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.Sync(ctx, outputs)
	assert.True(t, domain.IsNotFound(err))

	_, err = f.svc.Current()
	assert.True(t, domain.IsNotFound(err))
}

func TestCurrent(t *testing.T) {
	f := newFixture(t)

	l, err := f.svc.Current()
	require.NoError(t, err)
	assert.Nil(t, l)

	f.create(t, "dev", "fragments/style.md")
	_, err = f.svc.Activate(context.Background(), "dev", outputs)
	require.NoError(t, err)

	l, err = f.svc.Current()
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "dev", l.Name)

	name, err := f.svc.ActiveName()
	require.NoError(t, err)
	assert.Equal(t, "dev", name)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.svc.Status()
	require.NoError(t, err)
	assert.True(t, st.Synchronized)
	assert.Equal(t, engine.ReasonNoActive, st.Reason)
	assert.Nil(t, st.Loadout)

	f.create(t, "dev", "fragments/style.md")
	_, err = f.svc.Activate(ctx, "dev", outputs)
	require.NoError(t, err)

	st, err = f.svc.Status()
	require.NoError(t, err)
	assert.True(t, st.Synchronized)
	assert.Equal(t, engine.ReasonMatch, st.Reason)
	require.NotNil(t, st.Loadout)
	assert.Equal(t, "42f26ca5347e849a", st.Current)

	f.fragments.Remove("fragments/style.md")
	st, err = f.svc.Status()
	require.NoError(t, err)
	assert.False(t, st.Synchronized)
	assert.Equal(t, ReasonFragmentsMissing, st.Reason)
	assert.Equal(t, []string{"fragments/style.md"}, st.Missing)
}

func TestHistory_SQLiteLedger(t *testing.T) {
	ledger, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	f := newFixture(t, WithLedger(ledger))
	f.create(t, "dev", "fragments/style.md")
	f.create(t, "qa", "fragments/testing.md")
	ctx := context.Background()

	_, err = f.svc.Activate(ctx, "dev", outputs)
	require.NoError(t, err)
	_, err = f.svc.Activate(ctx, "qa", outputs)
	require.NoError(t, err)
	_, err = f.svc.Activate(ctx, "qa", outputs)
	require.NoError(t, err)

	entries, err := f.svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2, "up-to-date runs that record nothing add no entry")
	assert.Equal(t, "qa", entries[0].Loadout)
	assert.Equal(t, "dev", entries[1].Loadout)
	assert.Equal(t, domain.OutcomeOverwritten, entries[0].Outcome)

	devOnly, err := f.svc.LoadoutHistory(ctx, "dev", 0)
	require.NoError(t, err)
	require.Len(t, devOnly, 1)
	assert.Equal(t, "42f26ca5347e849a", devOnly[0].Fingerprint)
}
