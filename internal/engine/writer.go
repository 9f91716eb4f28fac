package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
)

// OutputWriter writes compositions to the output files when, and only when,
// their content changed.
type OutputWriter struct {
	state           repository.StateStore
	files           repository.FileWriter
	includeMetadata bool
	logger          *zap.Logger
}

// NewOutputWriter creates an OutputWriter. Pass WithMetadataHeader(true) to
// prefix every file with a header.
func NewOutputWriter(state repository.StateStore, files repository.FileWriter, opts ...Option) *OutputWriter {
	o := buildOptions(opts)
	return &OutputWriter{
		state:           state,
		files:           files,
		includeMetadata: o.includeMetadata,
		logger:          o.logger.Named("writer"),
	}
}

// WriteIfChanged writes c to every path unless the recorded fingerprint
// already equals c's fingerprint.
//
// On a match nothing is written and OutcomeUpToDate is returned. Otherwise
// identical bytes go to every path in the given order, and OutcomeOverwritten
// is returned once all of them succeed. The first failing path stops the
// loop; earlier paths stay written.
//
// The recorded state is read, never saved. Callers record the new
// fingerprint themselves after a successful write.
func (w *OutputWriter) WriteIfChanged(c domain.Composition, paths []string) (domain.WriteOutcome, error) {
	if len(paths) == 0 {
		return "", domain.InvalidInput("output_files", "at least one output path is required")
	}

	st, err := w.state.Load()
	if err != nil {
		return "", err
	}

	if st.LastFingerprint != nil && *st.LastFingerprint == c.Fingerprint() {
		w.logger.Debug("output up to date",
			zap.String("loadout", c.LoadoutName),
			zap.String("fingerprint", c.Fingerprint()),
		)
		return domain.OutcomeUpToDate, nil
	}

	data := RenderFile(c, w.includeMetadata)
	for i, p := range paths {
		if err := w.files.WriteFile(p, data); err != nil {
			w.logger.Debug("output write failed",
				zap.String("path", p),
				zap.Int("written", i),
				zap.Error(err),
			)
			return "", writeFailure(p, err)
		}
	}

	w.logger.Debug("output overwritten",
		zap.String("loadout", c.LoadoutName),
		zap.String("fingerprint", c.Fingerprint()),
		zap.Strings("paths", paths),
	)
	return domain.OutcomeOverwritten, nil
}

func writeFailure(path string, err error) error {
	if _, ok := domain.KindOf(err); ok {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return domain.FileSystemError("write output", path, err)
}
