// Package lockfile serializes hardware-mutating invocations across
// processes. The hardware register set is the shared resource; nothing in
// this program needs in-process synchronization, but two concurrent
// invocations must never interleave threshold or discharge writes.
package lockfile

import (
	"context"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// DefaultPath is the default lock file location.
const DefaultPath = "/var/lock/chargectl.lock"

// ErrTimeout means another invocation held the lock for the whole wait.
var ErrTimeout = errors.New("timed out waiting for the run lock")

// Lock is an advisory inter-process file lock.
type Lock struct {
	fl *flock.Flock
}

func New(path string) *Lock {
	return &Lock{fl: flock.New(path)}
}

// Acquire blocks until the lock is held or the timeout expires.
// Interactive invocations use this.
func (l *Lock) Acquire(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ok, err := l.fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return errors.Wrap(err, "acquiring run lock")
	}
	if !ok {
		return ErrTimeout
	}

	return nil
}

// TryAcquire takes the lock without blocking. Event-triggered invocations
// must use this and skip the cycle when it reports false.
func (l *Lock) TryAcquire() (bool, error) {
	return l.fl.TryLock()
}

// Release drops the lock.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
