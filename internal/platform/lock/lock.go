// Package lock provides the per-record mutual exclusion used around the
// checkpoint read-decide-write sequence, and the whole-store exclusion the
// sweeper takes.
//
// LockRecord callers on different keys proceed in parallel; callers on the
// same key are serialized. LockAll waits for every held record lock and keeps
// new ones out until released. Every wait is bounded by the context and the
// configured wait timeout, and fails with sentinel.ErrLockTimeout.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"truida/pkg/platform/sentinel"
)

// Locker is implemented by the in-process and Redis lockers.
type Locker interface {
	LockRecord(ctx context.Context, key string) (release func(), err error)
	LockAll(ctx context.Context) (release func(), err error)
}

const defaultWaitTimeout = 5 * time.Second

func waitContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// timeoutError classifies a failed acquisition. Context expiry is a lock
// timeout; anything else means the lock backend itself failed.
func timeoutError(what string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("acquire %s: %w: %w", what, sentinel.ErrLockTimeout, err)
	}
	return fmt.Errorf("acquire %s: %w: %w", what, sentinel.ErrUnavailable, err)
}
