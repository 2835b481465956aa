package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/pkg/locker"
)

// seedLeaderKey makes a single instance evaluate the weekly trigger.
const seedLeaderKey = "slots:seed:leader"

// Trigger is the moment of the week at which next week gets its defaults.
type Trigger struct {
	Spec     string // cron spec for the evaluation cadence
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

func TriggerFromConfig(c config.SeedingConfig) (Trigger, error) {
	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return Trigger{}, err
	}
	spec := c.CheckSpec
	if spec == "" {
		spec = "@every 1m"
	}
	return Trigger{
		Spec:     spec,
		Weekday:  time.Weekday(c.Weekday),
		Hour:     c.Hour,
		Minute:   c.Minute,
		Location: loc,
	}, nil
}

// Due reports whether t, seen in the trigger's time zone, falls on the
// configured weekday, hour and minute.
func (t Trigger) Due(now time.Time) bool {
	loc := t.Location
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	return local.Weekday() == t.Weekday && local.Hour() == t.Hour && local.Minute() == t.Minute
}

// SeedWorker evaluates the trigger on a cron cadence and seeds next week
// when it is due.
type SeedWorker struct {
	svc     Service
	locker  locker.Locker
	trigger Trigger
	now     func() time.Time

	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewSeedWorker(svc Service, l locker.Locker, t Trigger) *SeedWorker {
	return &SeedWorker{svc: svc, locker: l, trigger: t, now: time.Now}
}

func (w *SeedWorker) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	c := cron.New()
	if _, err := c.AddFunc(w.trigger.Spec, func() { w.RunOnce(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("seeding.check_spec %q: %w", w.trigger.Spec, err)
	}
	c.Start()

	w.cron, w.cancel = c, cancel
	slog.InfoContext(ctx, "seed worker started",
		"spec", w.trigger.Spec,
		"weekday", w.trigger.Weekday.String(),
		"at", fmt.Sprintf("%02d:%02d", w.trigger.Hour, w.trigger.Minute),
	)
	return nil
}

// Stop waits for a running evaluation to finish.
func (w *SeedWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

// RunOnce performs a single evaluation and returns the number of slots
// created. Errors are logged and never propagate to the scheduler.
func (w *SeedWorker) RunOnce(ctx context.Context) int {
	if !w.trigger.Due(w.now()) {
		return 0
	}

	// The lock is left to expire so other instances skip this minute.
	acquired, _, err := w.locker.TryLock(ctx, seedLeaderKey, 55*time.Second)
	if err != nil {
		slog.WarnContext(ctx, "seed worker: leader lock attempt failed", "error", err)
		return 0
	}
	if !acquired {
		slog.DebugContext(ctx, "seed worker: another instance holds the leader lock")
		return 0
	}

	anchor := w.svc.NextWeekAnchor()
	n, err := w.svc.SeedDefaultsIfMissing(ctx, anchor)
	if err != nil {
		slog.ErrorContext(ctx, "seed worker: seeding failed", "week", anchor.Format(time.DateOnly), "error", err)
		return n
	}
	if n > 0 {
		slog.InfoContext(ctx, "seed worker: seeded next week", "week", anchor.Format(time.DateOnly), "slots", n)
	}
	return n
}
