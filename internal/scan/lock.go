package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock is a cross-process scan lock. Two setscout processes scanning the
// same catalog concurrently would race on upserts, so a scan takes this
// lock first and fails fast if another scan holds it.
type Lock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewLock creates a lock at <dir>/.scan.lock.
func NewLock(dir string) *Lock {
	path := filepath.Join(dir, ".scan.lock")
	return &Lock{path: path, flock: flock.New(path)}
}

// TryAcquire attempts to take the lock without blocking. Returns false
// when another process holds it.
func (l *Lock) TryAcquire() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire scan lock: %w", err)
	}
	l.locked = acquired
	return acquired, nil
}

// Release frees the lock. Safe to call on an unheld lock.
func (l *Lock) Release() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release scan lock: %w", err)
	}
	return nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
