package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhyclinic/schedule_backend/config"
)

func TestTriggerDue(t *testing.T) {
	hcm, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	sunday2359 := Trigger{Weekday: time.Sunday, Hour: 23, Minute: 59, Location: hcm}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exact minute in zone", time.Date(2025, 9, 14, 16, 59, 0, 0, time.UTC), true},
		{"seconds ignored", time.Date(2025, 9, 14, 16, 59, 42, 0, time.UTC), true},
		{"minute before", time.Date(2025, 9, 14, 16, 58, 59, 0, time.UTC), false},
		{"same wall clock in UTC", time.Date(2025, 9, 14, 23, 59, 0, 0, time.UTC), false},
		{"other weekday", time.Date(2025, 9, 13, 16, 59, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sunday2359.Due(tt.now); got != tt.want {
				t.Errorf("Due(%s) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestTriggerFromConfig(t *testing.T) {
	tr, err := TriggerFromConfig(config.SeedingConfig{Weekday: 0, Hour: 23, Minute: 59, Timezone: "UTC"})
	require.NoError(t, err)
	assert.Equal(t, "@every 1m", tr.Spec)
	assert.Equal(t, time.Sunday, tr.Weekday)
	assert.Equal(t, time.UTC, tr.Location)

	_, err = TriggerFromConfig(config.SeedingConfig{Timezone: "Nowhere/Atlantis"})
	assert.Error(t, err)
}

func TestSeedWorkerRunOnce(t *testing.T) {
	ctx := context.Background()
	trigger := Trigger{Weekday: time.Sunday, Hour: 23, Minute: 59, Location: time.UTC}
	due := time.Date(2025, 9, 14, 23, 59, 5, 0, time.UTC)

	t.Run("not due does nothing", func(t *testing.T) {
		h := newHarness(t)
		w := NewSeedWorker(h.svc, h.locker, trigger)
		w.now = func() time.Time { return fixedNow }

		assert.Zero(t, w.RunOnce(ctx))
		assert.Zero(t, h.store.len())
	})

	t.Run("due seeds next week once", func(t *testing.T) {
		h := newHarness(t)
		w := NewSeedWorker(h.svc, h.locker, trigger)
		w.now = func() time.Time { return due }

		assert.Equal(t, 7, w.RunOnce(ctx))
		assert.Equal(t, 7, h.store.len())

		// a second evaluation in the same minute is blocked by the leader lock
		assert.Zero(t, w.RunOnce(ctx))
		assert.Equal(t, 7, h.store.len())
	})

	t.Run("second instance skips while leader holds lock", func(t *testing.T) {
		h := newHarness(t)
		ok, _, err := h.locker.TryLock(ctx, seedLeaderKey, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		w := NewSeedWorker(h.svc, h.locker, trigger)
		w.now = func() time.Time { return due }
		assert.Zero(t, w.RunOnce(ctx))
		assert.Zero(t, h.store.len())
	})
}

func TestSeedWorkerRejectsBadSpec(t *testing.T) {
	h := newHarness(t)
	w := NewSeedWorker(h.svc, h.locker, Trigger{Spec: "not a spec"})
	assert.Error(t, w.Start(context.Background()))
}
