package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thanhyclinic/schedule_backend/pkg/locker"
)

func scopeKey(weekday int, anchor *time.Time) string {
	a := "none"
	if anchor != nil {
		a = *FormatWeekAnchor(anchor)
	}
	return fmt.Sprintf("slots:scope:%d:%s", weekday, a)
}

func seedKey(anchor time.Time) string {
	return "slots:seed:" + anchor.UTC().Format(time.DateOnly)
}

// withLock runs fn while holding key. Failing to get the lock within the
// configured wait is reported as ErrScopeBusy.
func (s *schedulingService) withLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	token, err := locker.Acquire(ctx, s.locker, key, ttl, s.opts.LockWait, s.opts.LockPoll)
	if err != nil {
		if errors.Is(err, locker.ErrTimeout) {
			s.metrics.Conflict(ctx, "busy")
			return fmt.Errorf("%w: %s", ErrScopeBusy, key)
		}
		return err
	}
	stop := s.keepAlive(ctx, key, token, ttl)
	defer func() {
		stop()
		if err := s.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			slog.WarnContext(ctx, "failed to release lock", "key", key, "error", err)
		}
	}()
	return fn(ctx)
}

// keepAlive extends the lock every ttl/2 until the returned stop is called.
// A failed refresh is logged; the holder keeps running and the lock may
// lapse at its original expiry.
func (s *schedulingService) keepAlive(ctx context.Context, key, token string, ttl time.Duration) func() {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		t := time.NewTicker(ttl / 2)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-t.C:
				if err := s.locker.Refresh(ctx, key, token, ttl); err != nil {
					slog.WarnContext(ctx, "failed to extend lock", "key", key, "error", err)
					return
				}
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
