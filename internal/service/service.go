package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/engine"
	"github.com/roach88/loadout/internal/repository"
	"github.com/roach88/loadout/internal/store"
)

// Ledger records activation history. *store.Store implements it.
type Ledger interface {
	Append(ctx context.Context, e store.Entry) (store.Entry, error)
	List(ctx context.Context, limit int) ([]store.Entry, error)
	ListForLoadout(ctx context.Context, loadout string, limit int) ([]store.Entry, error)
}

var _ Ledger = (*store.Store)(nil)

// Option configures a Service.
type Option func(*Service)

// WithLedger enables activation history.
func WithLedger(l Ledger) Option {
	return func(s *Service) {
		s.ledger = l
	}
}

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetadataHeader prefixes output files with a generated-by header.
func WithMetadataHeader(on bool) Option {
	return func(s *Service) {
		s.includeMetadata = on
	}
}

// Service is the loadout application service.
type Service struct {
	loadouts  repository.LoadoutStore
	fragments repository.FragmentStore
	state     repository.StateStore
	env       domain.Environment

	composer *engine.Composer
	oracle   *engine.SyncOracle
	writer   *engine.OutputWriter

	ledger          Ledger
	includeMetadata bool
	logger          *zap.Logger
}

// New wires a Service from its stores.
func New(
	loadouts repository.LoadoutStore,
	fragments repository.FragmentStore,
	state repository.StateStore,
	files repository.FileWriter,
	env domain.Environment,
	opts ...Option,
) *Service {
	s := &Service{
		loadouts:  loadouts,
		fragments: fragments,
		state:     state,
		env:       env,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	engineOpts := []engine.Option{
		engine.WithLogger(s.logger),
		engine.WithMetadataHeader(s.includeMetadata),
	}
	s.composer = engine.NewComposer(fragments, env, engineOpts...)
	s.oracle = engine.NewSyncOracle(state, loadouts, s.composer, engineOpts...)
	s.writer = engine.NewOutputWriter(state, files, engineOpts...)
	s.logger = s.logger.Named("service")
	return s
}
