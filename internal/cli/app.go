package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/loadout/internal/config"
	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/filestore"
	"github.com/roach88/loadout/internal/logging"
	"github.com/roach88/loadout/internal/schema"
	"github.com/roach88/loadout/internal/service"
	"github.com/roach88/loadout/internal/store"
)

// app is everything a command needs, built from the global flags.
type app struct {
	cfg     config.Config
	paths   config.Paths
	outputs []string
	svc     *service.Service
	ledger  *store.Store
	logger  *zap.Logger
}

// ledgerMode controls whether a command touches the activation ledger.
type ledgerMode int

const (
	// ledgerNone leaves the ledger closed. Read-only commands never create
	// files in the project.
	ledgerNone ledgerMode = iota
	// ledgerExisting opens the ledger only when its database already exists.
	ledgerExisting
	// ledgerCreate opens the ledger, creating the database if needed.
	ledgerCreate
)

// recordingLedger is ledgerCreate unless the command only previews.
func recordingLedger(preview bool) ledgerMode {
	if preview {
		return ledgerNone
	}
	return ledgerCreate
}

// openApp loads the configuration for the project root and wires the
// stores, the ledger as mode allows, and the service. Callers must Close it.
func openApp(opts *RootOptions, cmd *cobra.Command, mode ledgerMode) (*app, error) {
	root, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, domain.FileSystemError("resolve project root", opts.Dir, err)
	}

	logger, err := logging.New(logging.Options{
		Verbose: opts.Verbose,
		JSON:    opts.Format == "json",
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, domain.ConfigurationError("failed to build logger", err)
	}

	cfg, err := config.Load(root, opts.Config)
	if err != nil {
		return nil, err
	}
	paths := cfg.Resolve(root)
	logger.Debug("configuration loaded",
		zap.String("root", root),
		zap.String("source", cfg.Source),
		zap.Strings("outputs", paths.OutputFiles),
	)

	env := opts.Env
	if env == nil {
		env = domain.SystemEnvironment{}
	}

	validator := schema.MustNew()
	a := &app{
		cfg:     cfg,
		paths:   paths,
		outputs: outputPaths(root, paths.OutputFiles, opts.Outputs),
		logger:  logger,
	}

	svcOpts := []service.Option{
		service.WithLogger(logger),
		service.WithMetadataHeader(cfg.IncludeMetadata),
	}
	if ledger := openLedger(paths.Ledger, mode, logger); ledger != nil {
		a.ledger = ledger
		svcOpts = append(svcOpts, service.WithLedger(ledger))
	}

	a.svc = service.New(
		filestore.NewLoadouts(paths.LoadoutsDir, validator),
		filestore.NewFragments(root, paths.FragmentsDir, paths.GlobalDir, env),
		filestore.NewStateFile(paths.StateFile, validator),
		filestore.OutputFiles{},
		env,
		svcOpts...,
	)
	return a, nil
}

// openLedger returns nil when the ledger is disabled, not wanted by mode,
// or cannot be opened. History is optional; commands still work without it.
func openLedger(path string, mode ledgerMode, logger *zap.Logger) *store.Store {
	if path == "" || mode == ledgerNone {
		return nil
	}
	if mode == ledgerExisting {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	ledger, err := store.Open(path)
	if err != nil {
		logger.Warn("ledger unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return ledger
}

// Close releases the ledger and flushes the logger.
func (a *app) Close() error {
	_ = a.logger.Sync()
	if a.ledger != nil {
		return a.ledger.Close()
	}
	return nil
}

// outputPaths returns the --output override resolved against root, or the
// configured paths when no override was given.
func outputPaths(root string, configured, override []string) []string {
	if len(override) == 0 {
		return configured
	}
	out := make([]string, 0, len(override))
	for _, p := range override {
		if filepath.IsAbs(p) {
			out = append(out, filepath.Clean(p))
			continue
		}
		out = append(out, filepath.Join(root, p))
	}
	return out
}

// withApp opens the app without the ledger, runs fn, and reports any error
// through the formatter with the matching exit code.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(a *app, f *OutputFormatter) error) error {
	return withAppLedger(opts, cmd, ledgerNone, fn)
}

// withAppLedger is withApp with the ledger opened as mode allows.
func withAppLedger(opts *RootOptions, cmd *cobra.Command, mode ledgerMode, fn func(a *app, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	a, err := openApp(opts, cmd, mode)
	if err != nil {
		return f.Fail(err)
	}
	defer a.Close()

	if err := fn(a, f); err != nil {
		if _, ok := err.(*ExitError); ok {
			return err
		}
		return f.Fail(err)
	}
	return nil
}
