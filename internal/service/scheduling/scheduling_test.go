package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/pkg/locker"
)

func testTemplate() Template {
	return Template{
		Doctor:       "Dr A",
		Room:         "Room 1",
		SundayNote:   "fasting required",
		Capacity:     10,
		SundayStart:  7 * 60,
		SundayEnd:    11 * 60,
		WeekdayStart: 17 * 60,
		WeekdayEnd:   20 * 60,
	}
}

// fixedNow is Wednesday 2025-09-10 10:00 UTC, so the next week is 2025-09-15.
var fixedNow = time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)

type harness struct {
	svc    *schedulingService
	store  *memStore
	locker *locker.MemoryLocker
	events *recorder
	cache  *ReadCache
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:  newMemStore(),
		locker: locker.NewMemoryLocker(),
		events: &recorder{},
		cache:  NewReadCache(16, time.Minute),
	}
	svc := New(Deps{
		Store:     h.store,
		Locker:    h.locker,
		Publisher: h.events,
		Cache:     h.cache,
	}, Options{
		LockWait: 200 * time.Millisecond,
		LockPoll: 5 * time.Millisecond,
		Template: testTemplate(),
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
		Origin:   "test",
	})
	h.svc = svc.(*schedulingService)
	return h
}

func ptr[T any](v T) *T { return &v }

func slotReq(weekday int, start, end string) CreateSlotRequest {
	return CreateSlotRequest{
		Weekday:  ptr(weekday),
		Start:    start,
		End:      end,
		Doctor:   "D",
		Room:     "R",
		Capacity: ptr(5),
	}
}

func mustAnchor(t *testing.T, s string) *time.Time {
	t.Helper()
	a, err := ParseWeekAnchor(s)
	require.NoError(t, err)
	return a
}

func TestCreateSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults status and rejects overlap in the same scope", func(t *testing.T) {
		h := newHarness(t)
		first, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
		require.NoError(t, err)
		assert.Equal(t, repo.SlotAvailable, first.Status)
		assert.Nil(t, first.WeekAnchor)

		_, err = h.svc.CreateSlot(ctx, slotReq(1, "09:30", "10:30"))
		assert.ErrorIs(t, err, ErrOverlappingSlot)
		assert.Equal(t, 1, h.store.len())
	})

	t.Run("adjacent slots are allowed", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
		require.NoError(t, err)
		_, err = h.svc.CreateSlot(ctx, slotReq(1, "10:00", "11:00"))
		require.NoError(t, err)
		_, err = h.svc.CreateSlot(ctx, slotReq(1, "08:00", "09:00"))
		require.NoError(t, err)
	})

	t.Run("other weekday or week is a different scope", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
		require.NoError(t, err)

		_, err = h.svc.CreateSlot(ctx, slotReq(2, "09:00", "10:00"))
		require.NoError(t, err)

		anchored := slotReq(1, "09:00", "10:00")
		anchored.WeekAnchor = ptr("2025-09-15")
		s, err := h.svc.CreateSlot(ctx, anchored)
		require.NoError(t, err)
		assert.Equal(t, "2025-09-15", *FormatWeekAnchor(s.WeekAnchor))

		_, err = h.svc.CreateSlot(ctx, anchored)
		assert.ErrorIs(t, err, ErrOverlappingSlot)
	})

	t.Run("unknown status coerces to available", func(t *testing.T) {
		h := newHarness(t)
		req := slotReq(3, "09:00", "10:00")
		req.Status = "booked"
		s, err := h.svc.CreateSlot(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, repo.SlotAvailable, s.Status)

		req = slotReq(3, "10:00", "11:00")
		req.Status = "closed"
		s, err = h.svc.CreateSlot(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, repo.SlotClosed, s.Status)
	})

	t.Run("publishes an event", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
		require.NoError(t, err)
		assert.Equal(t, []string{EventSlotCreated}, h.events.types())
		assert.Equal(t, "test", h.events.events[0].Origin)
	})
}

func TestCreateSlotValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		mod  func(r *CreateSlotRequest)
		want error
	}{
		{"weekday too large", func(r *CreateSlotRequest) { r.Weekday = ptr(7) }, ErrInvalidWeekday},
		{"weekday negative", func(r *CreateSlotRequest) { r.Weekday = ptr(-1) }, ErrInvalidWeekday},
		{"weekday missing", func(r *CreateSlotRequest) { r.Weekday = nil }, ErrInvalidWeekday},
		{"start missing", func(r *CreateSlotRequest) { r.Start = "" }, ErrInvalidPayload},
		{"doctor blank", func(r *CreateSlotRequest) { r.Doctor = "  " }, ErrInvalidPayload},
		{"room missing", func(r *CreateSlotRequest) { r.Room = "" }, ErrInvalidPayload},
		{"capacity missing", func(r *CreateSlotRequest) { r.Capacity = nil }, ErrInvalidCapacity},
		{"capacity negative", func(r *CreateSlotRequest) { r.Capacity = ptr(-1) }, ErrInvalidCapacity},
		{"bad time", func(r *CreateSlotRequest) { r.End = "24:00" }, ErrInvalidTime},
		{"end before start", func(r *CreateSlotRequest) { r.Start, r.End = "10:00", "09:00" }, ErrInvalidTimeRange},
		{"empty range", func(r *CreateSlotRequest) { r.Start, r.End = "10:00", "10:00" }, ErrInvalidTimeRange},
		{"bad anchor", func(r *CreateSlotRequest) { r.WeekAnchor = ptr("next week") }, ErrInvalidWeekAnchor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			req := slotReq(1, "09:00", "10:00")
			tt.mod(&req)
			_, err := h.svc.CreateSlot(ctx, req)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, h.store.scope, "validation must happen before the overlap check")
			assert.Zero(t, h.store.len())
		})
	}

	t.Run("capacity zero is valid", func(t *testing.T) {
		h := newHarness(t)
		req := slotReq(1, "09:00", "10:00")
		req.Capacity = ptr(0)
		s, err := h.svc.CreateSlot(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Capacity)
	})
}

func TestUpdateSlot(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*harness, repo.Slot, repo.Slot) {
		h := newHarness(t)
		a, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
		require.NoError(t, err)
		b, err := h.svc.CreateSlot(ctx, slotReq(1, "11:00", "12:00"))
		require.NoError(t, err)
		return h, a, b
	}

	t.Run("slot does not conflict with itself", func(t *testing.T) {
		h, a, _ := setup(t)
		got, err := h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Start: ptr("09:15"), End: ptr("10:15")})
		require.NoError(t, err)
		assert.Equal(t, 555, got.StartMin)
		assert.Equal(t, 615, got.EndMin)
	})

	t.Run("moving onto a neighbour conflicts", func(t *testing.T) {
		h, a, _ := setup(t)
		_, err := h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{End: ptr("11:30")})
		assert.ErrorIs(t, err, ErrOverlappingSlot)

		stored, _ := h.store.GetSlot(ctx, a.ID)
		assert.Equal(t, 600, stored.EndMin, "row unchanged")
	})

	t.Run("moving to another weekday rechecks that scope", func(t *testing.T) {
		h, a, _ := setup(t)
		_, err := h.svc.CreateSlot(ctx, slotReq(2, "09:30", "10:30"))
		require.NoError(t, err)

		_, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Weekday: ptr(2)})
		assert.ErrorIs(t, err, ErrOverlappingSlot)

		got, err := h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Weekday: ptr(0)})
		require.NoError(t, err)
		assert.Equal(t, 0, got.Weekday, "zero is a real weekday")
	})

	t.Run("non-scheduling fields skip the overlap check", func(t *testing.T) {
		h, a, _ := setup(t)
		before := h.store.scope
		got, err := h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Note: ptr("bring records"), Capacity: ptr(0), Status: ptr("CLOSED")})
		require.NoError(t, err)
		assert.Equal(t, before, h.store.scope)
		assert.Equal(t, "bring records", got.Note)
		assert.Equal(t, 0, got.Capacity)
		assert.Equal(t, repo.SlotClosed, got.Status)

		got, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Note: ptr("")})
		require.NoError(t, err)
		assert.Equal(t, "", got.Note)
	})

	t.Run("week anchor set, kept and cleared", func(t *testing.T) {
		h, a, _ := setup(t)
		got, err := h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{WeekAnchor: ptr("2025-09-15"), WeekAnchorSet: true})
		require.NoError(t, err)
		require.NotNil(t, got.WeekAnchor)

		got, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Doctor: ptr("E")})
		require.NoError(t, err)
		require.NotNil(t, got.WeekAnchor, "absent key leaves the anchor")

		got, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{WeekAnchorSet: true})
		require.NoError(t, err)
		assert.Nil(t, got.WeekAnchor, "null clears the anchor")
	})

	t.Run("invalid fields are rejected", func(t *testing.T) {
		h, a, _ := setup(t)
		_, err := h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Weekday: ptr(9)})
		assert.ErrorIs(t, err, ErrInvalidWeekday)
		_, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Start: ptr("25:00")})
		assert.ErrorIs(t, err, ErrInvalidTime)
		_, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Start: ptr("10:30")})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
		_, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Capacity: ptr(-2)})
		assert.ErrorIs(t, err, ErrInvalidCapacity)
		_, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{Doctor: ptr(" ")})
		assert.ErrorIs(t, err, ErrInvalidPayload)
		_, err = h.svc.UpdateSlot(ctx, a.ID, UpdateSlotRequest{WeekAnchor: ptr("09/15"), WeekAnchorSet: true})
		assert.ErrorIs(t, err, ErrInvalidWeekAnchor)
	})

	t.Run("unknown id", func(t *testing.T) {
		h, _, _ := setup(t)
		_, err := h.svc.UpdateSlot(ctx, uuid.New(), UpdateSlotRequest{Note: ptr("x")})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestDecodeUpdateSlotRequest(t *testing.T) {
	req, err := DecodeUpdateSlotRequest([]byte(`{"note":"x"}`))
	require.NoError(t, err)
	assert.False(t, req.WeekAnchorSet)

	req, err = DecodeUpdateSlotRequest([]byte(`{"week_anchor":null}`))
	require.NoError(t, err)
	assert.True(t, req.WeekAnchorSet)
	assert.Nil(t, req.WeekAnchor)

	req, err = DecodeUpdateSlotRequest([]byte(`{"week_anchor":"2025-09-15","weekday":0}`))
	require.NoError(t, err)
	assert.True(t, req.WeekAnchorSet)
	assert.Equal(t, "2025-09-15", *req.WeekAnchor)
	assert.Equal(t, 0, *req.Weekday)

	_, err = DecodeUpdateSlotRequest([]byte(`{"capacity":"ten"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDeleteSlot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	s, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
	require.NoError(t, err)

	require.NoError(t, h.svc.DeleteSlot(ctx, s.ID))
	assert.ErrorIs(t, h.svc.DeleteSlot(ctx, s.ID), ErrSlotNotFound)
	assert.Equal(t, []string{EventSlotCreated, EventSlotDeleted}, h.events.types())
}

func TestResolveSlots(t *testing.T) {
	ctx := context.Background()

	seedTemplate := func(t *testing.T, h *harness, n int) {
		for d := 1; d <= n; d++ {
			_, err := h.svc.CreateSlot(ctx, slotReq(d, "09:00", "10:00"))
			require.NoError(t, err)
		}
	}

	t.Run("week without slots falls back to the template", func(t *testing.T) {
		h := newHarness(t)
		seedTemplate(t, h, 5)

		slots, err := h.svc.ResolveSlots(ctx, "2025-09-22")
		require.NoError(t, err)
		assert.Len(t, slots, 5)
		for _, s := range slots {
			assert.Nil(t, s.WeekAnchor)
		}
	})

	t.Run("anchored week replaces the template", func(t *testing.T) {
		h := newHarness(t)
		seedTemplate(t, h, 5)
		req := slotReq(3, "14:00", "15:00")
		req.WeekAnchor = ptr("2025-09-15")
		_, err := h.svc.CreateSlot(ctx, req)
		require.NoError(t, err)

		slots, err := h.svc.ResolveSlots(ctx, "2025-09-15")
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, "2025-09-15", *FormatWeekAnchor(slots[0].WeekAnchor))
	})

	t.Run("no week returns everything ordered", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.CreateSlot(ctx, slotReq(2, "15:00", "16:00"))
		require.NoError(t, err)
		_, err = h.svc.CreateSlot(ctx, slotReq(2, "08:00", "09:00"))
		require.NoError(t, err)
		req := slotReq(0, "07:00", "08:00")
		req.WeekAnchor = ptr("2025-09-15")
		_, err = h.svc.CreateSlot(ctx, req)
		require.NoError(t, err)

		slots, err := h.svc.ResolveSlots(ctx, "")
		require.NoError(t, err)
		require.Len(t, slots, 3)
		assert.Equal(t, 0, slots[0].Weekday)
		assert.Equal(t, 480, slots[1].StartMin)
		assert.Equal(t, 900, slots[2].StartMin)
	})

	t.Run("invalid week issues no query", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.ResolveSlots(ctx, "2025-99-99")
		assert.ErrorIs(t, err, ErrInvalidWeekAnchor)
		assert.Zero(t, h.store.findAll)
	})

	t.Run("empty store yields an empty list", func(t *testing.T) {
		h := newHarness(t)
		slots, err := h.svc.ResolveSlots(ctx, "2025-09-22")
		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots)
	})

	t.Run("reads are cached until a write", func(t *testing.T) {
		h := newHarness(t)
		seedTemplate(t, h, 2)

		_, err := h.svc.ResolveSlots(ctx, "2025-09-22")
		require.NoError(t, err)
		calls := h.store.findAll
		_, err = h.svc.ResolveSlots(ctx, "2025-09-22")
		require.NoError(t, err)
		assert.Equal(t, calls, h.store.findAll)

		_, err = h.svc.CreateSlot(ctx, slotReq(6, "09:00", "10:00"))
		require.NoError(t, err)
		slots, err := h.svc.ResolveSlots(ctx, "2025-09-22")
		require.NoError(t, err)
		assert.Len(t, slots, 3)
		assert.Greater(t, h.store.findAll, calls)
	})
}

func TestSeedDefaultsIfMissing(t *testing.T) {
	ctx := context.Background()
	week := *mustAnchor(t, "2025-09-15")

	t.Run("creates the template once", func(t *testing.T) {
		h := newHarness(t)
		n, err := h.svc.SeedDefaultsIfMissing(ctx, week)
		require.NoError(t, err)
		assert.Equal(t, 7, n)

		n, err = h.svc.SeedDefaultsIfMissing(ctx, week)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 7, h.store.len())

		slots, err := h.svc.ResolveSlots(ctx, "2025-09-15")
		require.NoError(t, err)
		require.Len(t, slots, 7)
		assert.Equal(t, 0, slots[0].Weekday)
		assert.Equal(t, "07:00", FromMinutes(slots[0].StartMin))
		assert.Equal(t, "11:00", FromMinutes(slots[0].EndMin))
		assert.Equal(t, "fasting required", slots[0].Note)
		for _, s := range slots[1:] {
			assert.Equal(t, "17:00", FromMinutes(s.StartMin))
			assert.Equal(t, "20:00", FromMinutes(s.EndMin))
			assert.Empty(t, s.Note)
			assert.Equal(t, 10, s.Capacity)
		}
	})

	t.Run("skips weeks that already have data", func(t *testing.T) {
		h := newHarness(t)
		req := slotReq(4, "09:00", "10:00")
		req.WeekAnchor = ptr("2025-09-15")
		_, err := h.svc.CreateSlot(ctx, req)
		require.NoError(t, err)

		n, err := h.svc.SeedDefaultsIfMissing(ctx, week)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 1, h.store.len())
	})

	t.Run("template slots do not count for a week", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.CreateSlot(ctx, slotReq(1, "17:00", "20:00"))
		require.NoError(t, err)

		n, err := h.svc.SeedDefaultsIfMissing(ctx, week)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("concurrent calls seed once", func(t *testing.T) {
		h := newHarness(t)
		h.store.delay = 2 * time.Millisecond
		h.svc.opts.LockWait = 5 * time.Second

		var wg sync.WaitGroup
		totals := make([]int, 8)
		for i := range totals {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				n, err := h.svc.SeedDefaultsIfMissing(ctx, week)
				assert.NoError(t, err)
				totals[i] = n
			}(i)
		}
		wg.Wait()

		sum := 0
		for _, n := range totals {
			sum += n
		}
		assert.Equal(t, 7, sum)
		assert.Equal(t, 7, h.store.len())
	})

	t.Run("busy week reports ErrScopeBusy", func(t *testing.T) {
		h := newHarness(t)
		ok, _, err := h.locker.TryLock(ctx, seedKey(week), time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = h.svc.SeedDefaultsIfMissing(ctx, week)
		assert.ErrorIs(t, err, ErrScopeBusy)
	})
}

func TestPurgeSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("with reseed seeds next Monday", func(t *testing.T) {
		h := newHarness(t)
		for d := 0; d < 3; d++ {
			_, err := h.svc.CreateSlot(ctx, slotReq(d, "09:00", "10:00"))
			require.NoError(t, err)
		}

		res, err := h.svc.PurgeSlots(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, PurgeResult{Deleted: 3, Reseeded: true}, res)

		all, err := h.svc.ResolveSlots(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 7)
		for _, s := range all {
			assert.Equal(t, "2025-09-15", *FormatWeekAnchor(s.WeekAnchor))
		}
		assert.Contains(t, h.events.types(), EventPurged)
		assert.Contains(t, h.events.types(), EventSeeded)
	})

	t.Run("without reseed leaves the store empty", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
		require.NoError(t, err)

		res, err := h.svc.PurgeSlots(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, PurgeResult{Deleted: 1}, res)
		assert.Zero(t, h.store.len())
	})
}

func TestScopeBusy(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ok, _, err := h.locker.TryLock(ctx, scopeKey(1, nil), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
	assert.ErrorIs(t, err, ErrScopeBusy)

	_, err = h.svc.CreateSlot(ctx, slotReq(2, "09:00", "10:00"))
	assert.NoError(t, err, "other scopes are unaffected")
}

func TestWithLockKeepsLockAlive(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	const key, ttl = "slots:seed:2025-09-15", 40 * time.Millisecond

	err := h.svc.withLock(ctx, key, ttl, func(ctx context.Context) error {
		time.Sleep(3 * ttl)
		ok, _, err := h.locker.TryLock(ctx, key, ttl)
		require.NoError(t, err)
		assert.False(t, ok, "lock must still be held past its original ttl")
		return nil
	})
	require.NoError(t, err)

	ok, _, err := h.locker.TryLock(ctx, key, ttl)
	require.NoError(t, err)
	assert.True(t, ok, "lock is released after fn returns")
}

func TestConcurrentCreatesDoNotOverlap(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.store.delay = time.Millisecond
	h.svc.opts.LockWait = 5 * time.Second

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, h.store.len())
}

func TestTemplateFromConfig(t *testing.T) {
	tpl, err := TemplateFromConfig(config.TemplateConfig{
		Doctor: "D", Room: "R", Capacity: 10,
		SundayStart: "07:00", SundayEnd: "11:00",
		WeekdayStart: "17:00", WeekdayEnd: "20:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 420, tpl.SundayStart)
	assert.Equal(t, 1200, tpl.WeekdayEnd)

	fields := tpl.Slots(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC))
	require.Len(t, fields, 7)
	assert.Equal(t, 0, fields[0].Weekday)
	assert.Equal(t, 6, fields[6].Weekday)

	_, err = TemplateFromConfig(config.TemplateConfig{SundayStart: "11:00", SundayEnd: "07:00", WeekdayStart: "17:00", WeekdayEnd: "20:00"})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = TemplateFromConfig(config.TemplateConfig{SundayStart: "7am"})
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestNextWeekAnchorUsesLocation(t *testing.T) {
	h := newHarness(t)
	// Sunday 23:30 UTC is already Monday in UTC+7.
	h.svc.opts.Now = func() time.Time { return time.Date(2025, 9, 14, 23, 30, 0, 0, time.UTC) }
	h.svc.opts.Location = time.FixedZone("ICT", 7*3600)
	assert.Equal(t, "2025-09-22", h.svc.NextWeekAnchor().Format(time.DateOnly))

	h.svc.opts.Location = time.UTC
	assert.Equal(t, "2025-09-15", h.svc.NextWeekAnchor().Format(time.DateOnly))
}
