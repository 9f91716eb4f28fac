package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/loadout/internal/repository"
)

// SyncReason explains a SyncReport verdict.
type SyncReason string

const (
	// ReasonNoActive means no loadout is active; there is nothing to be out of sync with.
	ReasonNoActive SyncReason = "no_active_loadout"

	// ReasonNeverWritten means a loadout is active but no output was ever recorded.
	ReasonNeverWritten SyncReason = "never_written"

	// ReasonLoadoutMissing means the active loadout no longer exists.
	ReasonLoadoutMissing SyncReason = "loadout_missing"

	// ReasonMatch means the recorded fingerprint equals the current one.
	ReasonMatch SyncReason = "fingerprint_match"

	// ReasonDrift means the fragments changed since the last write.
	ReasonDrift SyncReason = "fingerprint_drift"
)

// SyncReport is the full result of a synchronization check.
type SyncReport struct {
	Synchronized bool       `json:"synchronized"`
	Reason       SyncReason `json:"reason"`
	Active       string     `json:"active_loadout,omitempty"`
	Recorded     string     `json:"recorded_fingerprint,omitempty"`
	Current      string     `json:"current_fingerprint,omitempty"`
}

// SyncOracle decides whether the output files reflect the active loadout.
// It only reads state, loadouts, and fragments.
type SyncOracle struct {
	state    repository.StateStore
	loadouts repository.LoadoutStore
	composer *Composer
	logger   *zap.Logger
}

// NewSyncOracle creates a SyncOracle.
func NewSyncOracle(state repository.StateStore, loadouts repository.LoadoutStore, composer *Composer, opts ...Option) *SyncOracle {
	o := buildOptions(opts)
	return &SyncOracle{
		state:    state,
		loadouts: loadouts,
		composer: composer,
		logger:   o.logger.Named("oracle"),
	}
}

// IsSynchronized reports whether the recorded fingerprint still matches a
// fresh composition of the active loadout.
//
// No active loadout counts as synchronized. An active loadout that was never
// written, or that no longer exists, counts as not synchronized. Composition
// failures are returned, not folded into false.
func (o *SyncOracle) IsSynchronized() (bool, error) {
	r, err := o.Check()
	if err != nil {
		return false, err
	}
	return r.Synchronized, nil
}

// Check is IsSynchronized with the reasoning attached.
func (o *SyncOracle) Check() (SyncReport, error) {
	st, err := o.state.Load()
	if err != nil {
		return SyncReport{}, err
	}

	if !st.HasActive() {
		return SyncReport{Synchronized: true, Reason: ReasonNoActive}, nil
	}
	report := SyncReport{Active: st.Active(), Recorded: st.Fingerprint()}

	if st.LastFingerprint == nil {
		report.Reason = ReasonNeverWritten
		return report, nil
	}

	l, err := o.loadouts.FindByName(st.Active())
	if err != nil {
		return SyncReport{}, fmt.Errorf("check sync: %w", err)
	}
	if l == nil {
		o.logger.Debug("active loadout missing", zap.String("loadout", st.Active()))
		report.Reason = ReasonLoadoutMissing
		return report, nil
	}

	comp, err := o.composer.Compose(*l)
	if err != nil {
		return SyncReport{}, err
	}

	report.Current = comp.Fingerprint()
	report.Synchronized = report.Current == report.Recorded
	report.Reason = ReasonDrift
	if report.Synchronized {
		report.Reason = ReasonMatch
	}

	o.logger.Debug("sync checked",
		zap.String("loadout", report.Active),
		zap.String("recorded", report.Recorded),
		zap.String("current", report.Current),
		zap.Bool("synchronized", report.Synchronized),
	)
	return report, nil
}
