// Package locker provides short-lived mutual exclusion keyed by string.
// Each acquisition returns an owner token; only the holder of the token
// can release or extend the lock.
package locker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotOwner = errors.New("lock not owned by this client")
	ErrTimeout  = errors.New("timed out waiting for lock")
)

type Locker interface {
	// TryLock makes a single attempt. It returns false with no error when the
	// key is held by someone else.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, string, error)
	Unlock(ctx context.Context, key, token string) error
	// Refresh extends the TTL of a lock if owned by token.
	Refresh(ctx context.Context, key, token string, ttl time.Duration) error
}

// Acquire polls TryLock every poll interval until the lock is taken, wait
// elapses or ctx is done.
func Acquire(ctx context.Context, l Locker, key string, ttl, wait, poll time.Duration) (string, error) {
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	deadline := time.Now().Add(wait)

	for {
		ok, token, err := l.TryLock(ctx, key, ttl)
		if err != nil {
			return "", fmt.Errorf("try lock %s: %w", key, err)
		}
		if ok {
			return token, nil
		}
		if !time.Now().Before(deadline) {
			return "", fmt.Errorf("%w: %s", ErrTimeout, key)
		}

		t := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
}
