package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/repository"
)

// Option configures the engine components.
type Option func(*options)

type options struct {
	logger          *zap.Logger
	includeMetadata bool
}

// WithLogger sets the logger used for debug tracing. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetadataHeader makes the OutputWriter prefix every file with a
// generated-by header. Default: off.
func WithMetadataHeader(on bool) Option {
	return func(o *options) {
		o.includeMetadata = on
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Composer turns loadouts into compositions.
//
// Thread-safety: Composer holds no mutable state of its own; it is as safe
// for concurrent use as the FragmentStore it wraps.
type Composer struct {
	fragments repository.FragmentStore
	env       domain.Environment
	logger    *zap.Logger
}

// NewComposer creates a Composer reading from fragments and stamping
// compositions with env's clock.
func NewComposer(fragments repository.FragmentStore, env domain.Environment, opts ...Option) *Composer {
	o := buildOptions(opts)
	return &Composer{
		fragments: fragments,
		env:       env,
		logger:    o.logger.Named("composer"),
	}
}

// Compose loads every fragment of l in order and joins them.
//
// Loading is sequential and fail-fast: the first reference that cannot be
// loaded aborts composition with a failure naming that reference, and
// later references are never read. An empty loadout composes to "".
//
// Content is never cached; every call reads the fragment store again.
func (c *Composer) Compose(l domain.Loadout) (domain.Composition, error) {
	contents := make([]string, 0, len(l.Fragments))
	for _, ref := range l.Fragments {
		content, err := c.fragments.LoadContent(ref)
		if err != nil {
			c.logger.Debug("fragment load failed",
				zap.String("loadout", l.Name),
				zap.String("ref", ref),
				zap.Error(err),
			)
			return domain.Composition{}, fragmentFailure(l.Name, ref, err)
		}
		contents = append(contents, content)
	}

	text := domain.JoinFragments(contents)
	comp := domain.Composition{
		LoadoutName:   l.Name,
		Content:       text,
		FragmentCount: len(l.Fragments),
		Metadata:      domain.NewCompositionMetadata(text, append([]string(nil), l.Fragments...), c.env.Now()),
	}

	c.logger.Debug("composed loadout",
		zap.String("loadout", l.Name),
		zap.Int("fragments", comp.FragmentCount),
		zap.String("fingerprint", comp.Fingerprint()),
	)
	return comp, nil
}

// ValidateFragments returns every reference of l that does not resolve, in
// list order. A missing fragment does not stop the scan; a store failure
// does and is returned as is.
func (c *Composer) ValidateFragments(l domain.Loadout) ([]string, error) {
	missing := []string{}
	for _, ref := range l.Fragments {
		f, err := c.fragments.Find(ref)
		if err != nil {
			return nil, fmt.Errorf("validate loadout %q: %w", l.Name, err)
		}
		if f == nil {
			missing = append(missing, ref)
		}
	}
	return missing, nil
}

// fragmentFailure keeps typed failures intact and classifies anything else
// as a file-system failure for ref.
func fragmentFailure(loadout, ref string, err error) error {
	if _, ok := domain.KindOf(err); !ok {
		err = domain.FileSystemError("read fragment", ref, err)
	}
	return fmt.Errorf("compose loadout %q: %w", loadout, err)
}
