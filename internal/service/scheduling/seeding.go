package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/repo"
)

// Template is the default week created by seeding: one Sunday morning slot
// and one evening slot for each of Monday to Saturday.
type Template struct {
	Doctor       string
	Room         string
	SundayNote   string
	Capacity     int
	SundayStart  int
	SundayEnd    int
	WeekdayStart int
	WeekdayEnd   int
}

// TemplateFromConfig parses the clock strings of the seeding template.
func TemplateFromConfig(c config.TemplateConfig) (Template, error) {
	t := Template{
		Doctor:     c.Doctor,
		Room:       c.Room,
		SundayNote: c.SundayNote,
		Capacity:   c.Capacity,
	}
	var err error
	for _, f := range []struct {
		dst *int
		src string
	}{
		{&t.SundayStart, c.SundayStart},
		{&t.SundayEnd, c.SundayEnd},
		{&t.WeekdayStart, c.WeekdayStart},
		{&t.WeekdayEnd, c.WeekdayEnd},
	} {
		if *f.dst, err = ToMinutes(f.src); err != nil {
			return Template{}, fmt.Errorf("seeding template: %w", err)
		}
	}
	if !validRange(t.SundayStart, t.SundayEnd) || !validRange(t.WeekdayStart, t.WeekdayEnd) {
		return Template{}, fmt.Errorf("seeding template: %w", ErrInvalidTimeRange)
	}
	if t.Capacity < 0 {
		return Template{}, fmt.Errorf("seeding template: %w", ErrInvalidCapacity)
	}
	return t, nil
}

// Slots expands the template into the seven slots of the week at anchor.
func (t Template) Slots(anchor time.Time) []repo.SlotFields {
	a := anchor
	out := make([]repo.SlotFields, 0, 7)
	out = append(out, repo.SlotFields{
		Weekday:    0,
		StartMin:   t.SundayStart,
		EndMin:     t.SundayEnd,
		Doctor:     t.Doctor,
		Room:       t.Room,
		Note:       t.SundayNote,
		Status:     repo.SlotAvailable,
		Capacity:   t.Capacity,
		WeekAnchor: &a,
	})
	for d := 1; d <= 6; d++ {
		out = append(out, repo.SlotFields{
			Weekday:    d,
			StartMin:   t.WeekdayStart,
			EndMin:     t.WeekdayEnd,
			Doctor:     t.Doctor,
			Room:       t.Room,
			Status:     repo.SlotAvailable,
			Capacity:   t.Capacity,
			WeekAnchor: &a,
		})
	}
	return out
}

// SeedDefaultsIfMissing creates the template week at anchor unless that
// week already has slots. It returns the number of slots created.
// Concurrent calls for the same week are serialized; only one seeds.
func (s *schedulingService) SeedDefaultsIfMissing(ctx context.Context, anchor time.Time) (int, error) {
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	week := anchor.Format(time.DateOnly)

	created := 0
	err := s.withLock(ctx, seedKey(anchor), s.opts.SeedTTL, func(ctx context.Context) error {
		n, err := s.store.CountByScope(ctx, &anchor)
		if err != nil {
			return fmt.Errorf("count week %s: %w", week, err)
		}
		if n > 0 {
			slog.DebugContext(ctx, "week already has slots, skipping seed", "week", week, "count", n)
			return nil
		}

		for _, f := range s.opts.Template.Slots(anchor) {
			if _, err := s.createGuarded(ctx, f); err != nil {
				if errors.Is(err, ErrOverlappingSlot) {
					slog.WarnContext(ctx, "skipping template slot that overlaps", "week", week, "weekday", f.Weekday, "start", FromMinutes(f.StartMin))
					continue
				}
				return fmt.Errorf("seed week %s: %w", week, err)
			}
			created++
		}
		return nil
	})

	if created > 0 {
		s.cache.Purge()
		s.metrics.Seeded(ctx, week, created)
		s.publish(ctx, Event{Type: EventSeeded, Week: &week, Count: int64(created)})
		slog.InfoContext(ctx, "seeded default week", "week", week, "slots", created)
	}
	return created, err
}

// NextWeekAnchor is NextMonday of today in the seeding time zone.
func (s *schedulingService) NextWeekAnchor() time.Time {
	return NextMonday(s.opts.Now().In(s.opts.Location))
}
