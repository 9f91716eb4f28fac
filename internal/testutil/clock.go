package testutil

import (
	"sync"
	"time"

	"github.com/roach88/loadout/internal/domain"
)

// Epoch is the instant every DeterministicEnvironment starts at.
var Epoch = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

var _ domain.Environment = (*DeterministicEnvironment)(nil)

// DeterministicEnvironment is a domain.Environment with a stepping clock and
// a fixed home directory.
//
// Each call to Now returns the current instant and then advances it by Step,
// so successive timestamps are distinct and predictable. With Step zero the
// clock is frozen.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicEnvironment struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
	Home string
}

// NewDeterministicEnvironment creates a frozen environment at Epoch with the
// given home directory.
func NewDeterministicEnvironment(home string) *DeterministicEnvironment {
	return &DeterministicEnvironment{now: Epoch, Home: home}
}

// NewSteppingEnvironment creates an environment whose clock advances by step
// on every Now call.
func NewSteppingEnvironment(home string, step time.Duration) *DeterministicEnvironment {
	return &DeterministicEnvironment{now: Epoch, Home: home, Step: step}
}

func (e *DeterministicEnvironment) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.now
	e.now = e.now.Add(e.Step)
	return t
}

// Current returns the instant the next Now call will return.
func (e *DeterministicEnvironment) Current() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// Advance moves the clock forward by d.
func (e *DeterministicEnvironment) Advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
}

// Reset rewinds the clock to Epoch.
func (e *DeterministicEnvironment) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = Epoch
}

func (e *DeterministicEnvironment) HomeDir() (string, error) {
	return e.Home, nil
}
