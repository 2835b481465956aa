package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thanhyclinic/schedule_backend/config"
	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/pkg/locker"
	"github.com/thanhyclinic/schedule_backend/pkg/observability"
	"github.com/thanhyclinic/schedule_backend/pkg/reqctx"
)

// ---------------------------------------------------------------------------
// Contracts
// ---------------------------------------------------------------------------

// Store is the persistence the service needs. *repo.Store implements it.
type Store interface {
	FindByScope(ctx context.Context, weekday int, anchor *time.Time, excludeID uuid.UUID) ([]repo.Slot, error)
	FindAll(ctx context.Context, f repo.SlotFilter) ([]repo.Slot, error)
	CountByScope(ctx context.Context, anchor *time.Time) (int, error)
	GetSlot(ctx context.Context, id uuid.UUID) (repo.Slot, error)
	CreateSlot(ctx context.Context, f repo.SlotFields) (repo.Slot, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, p repo.SlotPatch) (repo.Slot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error
	DeleteAllSlots(ctx context.Context) (int64, error)
}

type PurgeResult struct {
	Deleted  int64 `json:"deleted"`
	Reseeded bool  `json:"reseeded"`
}

type Service interface {
	// Reads
	ResolveSlots(ctx context.Context, weekText string) ([]repo.Slot, error)
	HasOverlap(ctx context.Context, weekday, startMin, endMin int, anchor *time.Time, excludeID uuid.UUID) (bool, error)

	// Writes
	CreateSlot(ctx context.Context, req CreateSlotRequest) (repo.Slot, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, req UpdateSlotRequest) (repo.Slot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error
	PurgeSlots(ctx context.Context, reseed bool) (PurgeResult, error)

	// Seeding
	SeedDefaultsIfMissing(ctx context.Context, anchor time.Time) (int, error)
	NextWeekAnchor() time.Time

	// InvalidateCache drops cached reads, e.g. after another instance wrote.
	InvalidateCache()
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

type Options struct {
	ScopeTTL time.Duration
	SeedTTL  time.Duration
	LockWait time.Duration
	LockPoll time.Duration
	Template Template
	Location *time.Location
	Now      func() time.Time
	// Origin tags published events; defaults to DefaultOrigin.
	Origin string
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// OptionsFromConfig reads the locking and seeding sections.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	tpl, err := TemplateFromConfig(cfg.Seeding.Template)
	if err != nil {
		return Options{}, err
	}
	loc, err := loadLocation(cfg.Seeding.Timezone)
	if err != nil {
		return Options{}, err
	}
	ttl := time.Duration(cfg.Locking.ScopeTTLSeconds) * time.Second
	return Options{
		ScopeTTL: ttl,
		SeedTTL:  4 * ttl,
		LockWait: ms(cfg.Locking.WaitTimeoutMs),
		LockPoll: ms(cfg.Locking.PollIntervalMs),
		Template: tpl,
		Location: loc,
	}, nil
}

func loadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("seeding.timezone: %w", err)
	}
	return loc, nil
}

func (o *Options) defaults() {
	if o.ScopeTTL <= 0 {
		o.ScopeTTL = 10 * time.Second
	}
	if o.SeedTTL <= 0 {
		o.SeedTTL = 4 * o.ScopeTTL
	}
	if o.LockWait <= 0 {
		o.LockWait = 5 * time.Second
	}
	if o.LockPoll <= 0 {
		o.LockPoll = 50 * time.Millisecond
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Origin == "" {
		o.Origin = DefaultOrigin()
	}
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

// Deps are the collaborators of the service. Publisher, Cache and Metrics
// are optional.
type Deps struct {
	Store     Store
	Locker    locker.Locker
	Publisher Publisher
	Cache     *ReadCache
	Metrics   *observability.SchedulingMetrics
}

type schedulingService struct {
	store     Store
	locker    locker.Locker
	publisher Publisher
	cache     *ReadCache
	metrics   *observability.SchedulingMetrics
	opts      Options
}

func New(d Deps, opts Options) Service {
	opts.defaults()
	if d.Publisher == nil {
		d.Publisher = NopPublisher{}
	}
	return &schedulingService{
		store:     d.Store,
		locker:    d.Locker,
		publisher: d.Publisher,
		cache:     d.Cache,
		metrics:   d.Metrics,
		opts:      opts,
	}
}

func (s *schedulingService) InvalidateCache() { s.cache.Purge() }

func (s *schedulingService) publish(ctx context.Context, ev Event) {
	ev.Origin = s.opts.Origin
	ev.At = s.opts.Now().UTC()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish schedule event", "type", ev.Type, "error", err)
	}
}

// afterWrite runs the bookkeeping shared by every successful mutation.
func (s *schedulingService) afterWrite(ctx context.Context, op string, ev Event) {
	s.cache.Purge()
	s.metrics.Write(ctx, op)
	s.publish(ctx, ev)
}

func actor(ctx context.Context) string {
	if id, ok := reqctx.UserIDFromContext(ctx); ok {
		return id.String()
	}
	return "system"
}

// ---------------------------------------------------------------------------
// Slots
// ---------------------------------------------------------------------------

// createGuarded inserts f unless it overlaps its scope. The check and the
// insert run under the scope lock.
func (s *schedulingService) createGuarded(ctx context.Context, f repo.SlotFields) (repo.Slot, error) {
	var created repo.Slot
	err := s.withLock(ctx, scopeKey(f.Weekday, f.WeekAnchor), s.opts.ScopeTTL, func(ctx context.Context) error {
		clash, err := s.HasOverlap(ctx, f.Weekday, f.StartMin, f.EndMin, f.WeekAnchor, uuid.Nil)
		if err != nil {
			return err
		}
		if clash {
			s.metrics.Conflict(ctx, "overlap")
			return ErrOverlappingSlot
		}
		created, err = s.store.CreateSlot(ctx, f)
		return err
	})
	if err != nil {
		return repo.Slot{}, err
	}
	s.afterWrite(ctx, "create", Event{
		Type:    EventSlotCreated,
		SlotID:  &created.ID,
		Week:    FormatWeekAnchor(created.WeekAnchor),
		Weekday: &created.Weekday,
	})
	return created, nil
}

func (s *schedulingService) CreateSlot(ctx context.Context, req CreateSlotRequest) (repo.Slot, error) {
	f, err := req.fields()
	if err != nil {
		return repo.Slot{}, err
	}
	slot, err := s.createGuarded(ctx, f)
	if err != nil {
		return repo.Slot{}, err
	}
	slog.InfoContext(ctx, "slot created", "id", slot.ID, "weekday", slot.Weekday, "start", FromMinutes(slot.StartMin), "by", actor(ctx))
	return slot, nil
}

func sameScheduling(a, b repo.Slot) bool {
	if a.Weekday != b.Weekday || a.StartMin != b.StartMin || a.EndMin != b.EndMin {
		return false
	}
	if (a.WeekAnchor == nil) != (b.WeekAnchor == nil) {
		return false
	}
	return a.WeekAnchor == nil || a.WeekAnchor.Equal(*b.WeekAnchor)
}

func (s *schedulingService) getSlot(ctx context.Context, id uuid.UUID) (repo.Slot, error) {
	slot, err := s.store.GetSlot(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.Slot{}, ErrSlotNotFound
	}
	return slot, err
}

func (s *schedulingService) UpdateSlot(ctx context.Context, id uuid.UUID, req UpdateSlotRequest) (repo.Slot, error) {
	p, err := req.patch()
	if err != nil {
		return repo.Slot{}, err
	}

	existing, err := s.getSlot(ctx, id)
	if err != nil {
		return repo.Slot{}, err
	}
	target := p.Apply(existing)
	if !validRange(target.StartMin, target.EndMin) {
		return repo.Slot{}, ErrInvalidTimeRange
	}

	update := func(ctx context.Context) (repo.Slot, error) {
		slot, err := s.store.UpdateSlot(ctx, id, p)
		if errors.Is(err, repo.ErrNotFound) {
			return repo.Slot{}, ErrSlotNotFound
		}
		return slot, err
	}

	var updated repo.Slot
	if sameScheduling(existing, target) {
		updated, err = update(ctx)
	} else {
		err = s.withLock(ctx, scopeKey(target.Weekday, target.WeekAnchor), s.opts.ScopeTTL, func(ctx context.Context) error {
			// Re-read under the lock so the check sees the latest row.
			current, err := s.getSlot(ctx, id)
			if err != nil {
				return err
			}
			target := p.Apply(current)
			if !validRange(target.StartMin, target.EndMin) {
				return ErrInvalidTimeRange
			}
			clash, err := s.HasOverlap(ctx, target.Weekday, target.StartMin, target.EndMin, target.WeekAnchor, id)
			if err != nil {
				return err
			}
			if clash {
				s.metrics.Conflict(ctx, "overlap")
				return ErrOverlappingSlot
			}
			updated, err = update(ctx)
			return err
		})
	}
	if err != nil {
		return repo.Slot{}, err
	}

	s.afterWrite(ctx, "update", Event{
		Type:    EventSlotUpdated,
		SlotID:  &updated.ID,
		Week:    FormatWeekAnchor(updated.WeekAnchor),
		Weekday: &updated.Weekday,
	})
	slog.InfoContext(ctx, "slot updated", "id", id, "by", actor(ctx))
	return updated, nil
}

func (s *schedulingService) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteSlot(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("delete slot: %w", err)
	}
	s.afterWrite(ctx, "delete", Event{Type: EventSlotDeleted, SlotID: &id})
	slog.InfoContext(ctx, "slot deleted", "id", id, "by", actor(ctx))
	return nil
}

// PurgeSlots deletes every slot. With reseed it then seeds the next week.
func (s *schedulingService) PurgeSlots(ctx context.Context, reseed bool) (PurgeResult, error) {
	deleted, err := s.store.DeleteAllSlots(ctx)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("purge slots: %w", err)
	}
	s.afterWrite(ctx, "purge", Event{Type: EventPurged, Count: deleted})
	slog.InfoContext(ctx, "slots purged", "deleted", deleted, "reseed", reseed, "by", actor(ctx))

	res := PurgeResult{Deleted: deleted}
	if !reseed {
		return res, nil
	}
	if _, err := s.SeedDefaultsIfMissing(ctx, s.NextWeekAnchor()); err != nil {
		return res, err
	}
	res.Reseeded = true
	return res, nil
}
