package domain

// AppState is the persisted record of the active loadout and the
// fingerprint of the content last written to the output files.
//
// Both fields are pointers so a store round-trip keeps "absent" distinct
// from "empty string".
type AppState struct {
	ActiveLoadout   *string `json:"current_loadout_name,omitempty"`
	LastFingerprint *string `json:"composition_hash,omitempty"`
}

// HasActive reports whether a loadout is currently active.
func (s AppState) HasActive() bool {
	return s.ActiveLoadout != nil
}

// Active returns the active loadout name, or "" when none is set.
func (s AppState) Active() string {
	if s.ActiveLoadout == nil {
		return ""
	}
	return *s.ActiveLoadout
}

// Fingerprint returns the last written fingerprint, or "" when none was recorded.
func (s AppState) Fingerprint() string {
	if s.LastFingerprint == nil {
		return ""
	}
	return *s.LastFingerprint
}

// RecordedState builds the state written after a successful output write.
func RecordedState(loadoutName, fingerprint string) AppState {
	return AppState{ActiveLoadout: &loadoutName, LastFingerprint: &fingerprint}
}

// Validate checks that a fingerprint is never recorded without an active loadout.
func (s AppState) Validate() error {
	if s.LastFingerprint != nil && s.ActiveLoadout == nil {
		return InvalidInput("composition_hash", "fingerprint recorded without an active loadout")
	}
	return nil
}
