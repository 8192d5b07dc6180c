package store

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Gate is the global cross-process advisory lock at EVENTS/.lock. Every
// mutating operation (event creation, reservation commit, end-marker
// creation, user registration/change) must hold it for the duration of
// its filesystem changes.
type Gate struct {
	path string
}

func newGate(path string) *Gate {
	return &Gate{path: path}
}

// Lock acquires the gate, creating EVENTS/ and the lock file if needed,
// and returns a function that releases it. Callers should defer the
// returned function immediately.
func (s *Store) Lock() (unlock func(), err error) {
	if err := os.MkdirAll(filepath.Dir(s.gate.path), 0o750); err != nil {
		return nil, err
	}
	fl := flock.New(s.gate.path)
	if err := fl.Lock(); err != nil {
		return nil, err
	}
	return func() { _ = fl.Unlock() }, nil
}
