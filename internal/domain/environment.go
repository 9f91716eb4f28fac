package domain

import (
	"os"
	"time"
)

// Environment supplies the ambient values the core needs: wall-clock time
// and the user's home directory. Inject a fixed implementation in tests.
type Environment interface {
	Now() time.Time
	HomeDir() (string, error)
}

// SystemEnvironment reads the real clock and $HOME.
type SystemEnvironment struct{}

// Now returns the current UTC time truncated to milliseconds, the precision
// loadout records are stored with.
func (SystemEnvironment) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// HomeDir returns the user's home directory.
func (SystemEnvironment) HomeDir() (string, error) {
	return os.UserHomeDir()
}
