package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/loadout/internal/domain"
)

//go:embed loadout.cue
var source string

// Validator checks raw JSON records against the embedded schema.
//
// Thread-safety: a cue.Context is not safe for concurrent use, so every
// method takes the internal mutex.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	loadout cue.Value
	state   cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(source, cue.Filename("loadout.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	v := &Validator{
		ctx:     ctx,
		loadout: root.LookupPath(cue.ParsePath("#Loadout")),
		state:   root.LookupPath(cue.ParsePath("#State")),
	}
	if err := v.loadout.Err(); err != nil {
		return nil, fmt.Errorf("schema #Loadout: %w", err)
	}
	if err := v.state.Err(); err != nil {
		return nil, fmt.Errorf("schema #State: %w", err)
	}
	return v, nil
}

// MustNew is New for package-level initialization; it panics on failure.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateLoadout checks one loadout record.
func (v *Validator) ValidateLoadout(filename string, data []byte) error {
	return v.validate(v.loadout, "loadout record", filename, data)
}

// ValidateState checks the application state record.
func (v *Validator) ValidateState(filename string, data []byte) error {
	return v.validate(v.state, "state record", filename, data)
}

func (v *Validator) validate(def cue.Value, what, filename string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return domain.SerializationError(what, err)
	}
	val := v.ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return domain.SerializationError(what, err)
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return domain.SerializationError(what, firstProblem(err))
	}
	return nil
}

// Problem is the first schema violation found in a record.
type Problem struct {
	Path    string
	Message string
	More    int
}

func (p *Problem) Error() string {
	msg := p.Message
	if p.Path != "" {
		msg = p.Path + ": " + msg
	}
	if p.More > 0 {
		msg = fmt.Sprintf("%s (and %d more)", msg, p.More)
	}
	return msg
}

func firstProblem(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	format, args := first.Msg()
	return &Problem{
		Path:    strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
		More:    len(errs) - 1,
	}
}
