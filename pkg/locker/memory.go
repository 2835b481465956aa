package locker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memEntry struct {
	token   string
	expires time.Time
}

// MemoryLocker is a process-local Locker for single-instance runs and tests.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memEntry
	now   func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]memEntry), now: time.Now}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.locks[key]; ok && now.Before(e.expires) {
		return false, "", nil
	}
	token := uuid.NewString()
	l.locks[key] = memEntry{token: token, expires: now.Add(ttl)}
	return true, token, nil
}

func (l *MemoryLocker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	if !ok || e.token != token || !l.now().Before(e.expires) {
		return ErrNotOwner
	}
	delete(l.locks, key)
	return nil
}

func (l *MemoryLocker) Refresh(_ context.Context, key, token string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[key]
	now := l.now()
	if !ok || e.token != token || !now.Before(e.expires) {
		return ErrNotOwner
	}
	e.expires = now.Add(ttl)
	l.locks[key] = e
	return nil
}
