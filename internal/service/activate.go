package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/store"
)

// RecordError reports that output files were written but the new state
// could not be saved. Outcome is what the writer did.
type RecordError struct {
	Outcome domain.WriteOutcome
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("outputs %s but state was not recorded: %v", e.Outcome, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Activation is the result of one compose-write-record sequence.
type Activation struct {
	Composition domain.Composition  `json:"composition"`
	Outcome     domain.WriteOutcome `json:"outcome"`
	Paths       []string            `json:"paths"`

	// Recorded is true when the state store was written.
	Recorded bool `json:"recorded"`

	// Previous is the active loadout before this call, or "".
	Previous string `json:"previous,omitempty"`
}

// Activate makes name the active loadout and brings paths up to date.
func (s *Service) Activate(ctx context.Context, name string, paths []string) (Activation, error) {
	l, err := s.Get(name)
	if err != nil {
		return Activation{}, err
	}
	comp, err := s.composer.Compose(l)
	if err != nil {
		return Activation{}, err
	}
	return s.Apply(ctx, comp, paths)
}

// Sync re-composes the active loadout and brings paths up to date.
func (s *Service) Sync(ctx context.Context, paths []string) (Activation, error) {
	st, err := s.state.Load()
	if err != nil {
		return Activation{}, err
	}
	if !st.HasActive() {
		return Activation{}, errNoActive()
	}
	return s.Activate(ctx, st.Active(), paths)
}

// PreviewActive composes the active loadout without writing.
func (s *Service) PreviewActive() (domain.Composition, error) {
	st, err := s.state.Load()
	if err != nil {
		return domain.Composition{}, err
	}
	if !st.HasActive() {
		return domain.Composition{}, errNoActive()
	}
	return s.Preview(st.Active())
}

// Apply writes comp to paths when its fingerprint changed and records the
// resulting state.
func (s *Service) Apply(ctx context.Context, comp domain.Composition, paths []string) (Activation, error) {
	before, err := s.state.Load()
	if err != nil {
		return Activation{}, err
	}

	outcome, err := s.writer.WriteIfChanged(comp, paths)
	if err != nil {
		return Activation{}, err
	}

	act := Activation{
		Composition: comp,
		Outcome:     outcome,
		Paths:       append([]string(nil), paths...),
		Previous:    before.Active(),
	}

	needsRecord := outcome == domain.OutcomeOverwritten ||
		!before.HasActive() || before.Active() != comp.LoadoutName
	if !needsRecord {
		s.logger.Debug("state already current",
			zap.String("loadout", comp.LoadoutName),
			zap.String("fingerprint", comp.Fingerprint()),
		)
		return act, nil
	}

	if err := s.state.Save(domain.RecordedState(comp.LoadoutName, comp.Fingerprint())); err != nil {
		s.logger.Debug("state record failed", zap.String("loadout", comp.LoadoutName), zap.Error(err))
		if outcome != domain.OutcomeOverwritten {
			// Nothing was written; only the switch failed.
			return act, fmt.Errorf("switch active loadout to %q: %w", comp.LoadoutName, err)
		}
		return act, &RecordError{Outcome: outcome, Err: err}
	}
	act.Recorded = true
	s.logger.Debug("state recorded",
		zap.String("loadout", comp.LoadoutName),
		zap.String("fingerprint", comp.Fingerprint()),
		zap.String("outcome", string(outcome)),
	)

	s.appendLedger(ctx, act)
	return act, nil
}

func (s *Service) appendLedger(ctx context.Context, act Activation) {
	if s.ledger == nil {
		return
	}
	_, err := s.ledger.Append(ctx, store.Entry{
		Loadout:     act.Composition.LoadoutName,
		Fingerprint: act.Composition.Fingerprint(),
		Outcome:     act.Outcome,
		Paths:       act.Paths,
		RecordedAt:  s.env.Now(),
	})
	if err != nil {
		s.logger.Warn("ledger append failed",
			zap.String("loadout", act.Composition.LoadoutName),
			zap.Error(err),
		)
	}
}

// History returns up to limit ledger entries, newest first. Without a
// ledger the history is empty.
func (s *Service) History(ctx context.Context, limit int) ([]store.Entry, error) {
	if s.ledger == nil {
		return []store.Entry{}, nil
	}
	return s.ledger.List(ctx, limit)
}

// LoadoutHistory returns up to limit ledger entries for one loadout,
// newest first.
func (s *Service) LoadoutHistory(ctx context.Context, name string, limit int) ([]store.Entry, error) {
	if s.ledger == nil {
		return []store.Entry{}, nil
	}
	return s.ledger.ListForLoadout(ctx, name, limit)
}

// ActiveName returns the name recorded as active, or "" when none is.
func (s *Service) ActiveName() (string, error) {
	st, err := s.state.Load()
	if err != nil {
		return "", err
	}
	return st.Active(), nil
}

// Current returns the active loadout, or nil when none is active. An
// active loadout that no longer exists is a NOT_FOUND failure.
func (s *Service) Current() (*domain.Loadout, error) {
	st, err := s.state.Load()
	if err != nil {
		return nil, err
	}
	if !st.HasActive() {
		return nil, nil
	}
	l, err := s.Get(st.Active())
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func errNoActive() *domain.Error {
	return &domain.Error{Kind: domain.KindNotFound, Message: "no active loadout"}
}
