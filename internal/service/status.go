package service

import (
	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/engine"
)

// ReasonFragmentsMissing means the active loadout references fragments
// that do not exist, so it cannot be composed.
const ReasonFragmentsMissing engine.SyncReason = "fragments_missing"

// Status describes the active loadout and whether the outputs match it.
type Status struct {
	engine.SyncReport

	// Loadout is the active loadout, when it exists.
	Loadout *domain.Loadout `json:"loadout,omitempty"`

	// Missing lists unresolvable references of the active loadout.
	Missing []string `json:"missing_fragments,omitempty"`
}

// Status reports on the active loadout. Unlike the sync oracle it does not
// fail on missing fragments; it lists them.
func (s *Service) Status() (Status, error) {
	st, err := s.state.Load()
	if err != nil {
		return Status{}, err
	}

	if st.HasActive() {
		l, err := s.loadouts.FindByName(st.Active())
		if err != nil {
			return Status{}, err
		}
		if l != nil {
			missing, err := s.composer.ValidateFragments(*l)
			if err != nil {
				return Status{}, err
			}
			if len(missing) > 0 {
				return Status{
					SyncReport: engine.SyncReport{
						Reason:   ReasonFragmentsMissing,
						Active:   st.Active(),
						Recorded: st.Fingerprint(),
					},
					Loadout: l,
					Missing: missing,
				}, nil
			}
			report, err := s.oracle.Check()
			if err != nil {
				return Status{}, err
			}
			return Status{SyncReport: report, Loadout: l}, nil
		}
	}

	report, err := s.oracle.Check()
	if err != nil {
		return Status{}, err
	}
	return Status{SyncReport: report}, nil
}

// IsSynchronized reports whether the outputs match the active loadout.
func (s *Service) IsSynchronized() (bool, error) {
	return s.oracle.IsSynchronized()
}
