package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrLocked is returned when another run holds the history lock.
var ErrLocked = errors.New("history is locked by another run")

const lockRetryInterval = 100 * time.Millisecond

// acquireLock creates path exclusively. A lock older than stale is considered
// abandoned and removed. It waits until ctx is done while the lock is held.
func acquireLock(ctx context.Context, path string, stale time.Duration) (func(), error) {
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		if info, statErr := os.Stat(path); statErr == nil && time.Since(info.ModTime()) > stale {
			os.Remove(path)
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrLocked, path, ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}
}
