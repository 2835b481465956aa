package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thanhyclinic/schedule_backend/internal/repo"
)

// memStore is an in-memory Store with call counters.
type memStore struct {
	mu       sync.Mutex
	slots    map[uuid.UUID]repo.Slot
	findAll  int
	findByID int
	scope    int
	// delay widens race windows in concurrency tests.
	delay time.Duration
}

func newMemStore() *memStore {
	return &memStore{slots: make(map[uuid.UUID]repo.Slot)}
}

func sameAnchor(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func sorted(out []repo.Slot) []repo.Slot {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].StartMin < out[j].StartMin
	})
	return out
}

func (m *memStore) FindByScope(_ context.Context, weekday int, anchor *time.Time, excludeID uuid.UUID) ([]repo.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scope++
	var out []repo.Slot
	for _, s := range m.slots {
		if s.Weekday == weekday && sameAnchor(s.WeekAnchor, anchor) && s.ID != excludeID {
			out = append(out, s)
		}
	}
	return sorted(out), nil
}

func (m *memStore) FindAll(_ context.Context, f repo.SlotFilter) ([]repo.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findAll++
	var out []repo.Slot
	for _, s := range m.slots {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return sorted(out), nil
}

func (m *memStore) CountByScope(_ context.Context, anchor *time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.slots {
		if sameAnchor(s.WeekAnchor, anchor) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetSlot(_ context.Context, id uuid.UUID) (repo.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findByID++
	s, ok := m.slots[id]
	if !ok {
		return repo.Slot{}, repo.ErrNotFound
	}
	return s, nil
}

func (m *memStore) CreateSlot(_ context.Context, f repo.SlotFields) (repo.Slot, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	s := repo.Slot{
		ID:         uuid.Must(uuid.NewV7()),
		Weekday:    f.Weekday,
		StartMin:   f.StartMin,
		EndMin:     f.EndMin,
		Doctor:     f.Doctor,
		Room:       f.Room,
		Note:       f.Note,
		Status:     f.Status,
		Capacity:   f.Capacity,
		WeekAnchor: f.WeekAnchor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if s.Status == "" {
		s.Status = repo.SlotAvailable
	}
	m.slots[s.ID] = s
	return s, nil
}

func (m *memStore) UpdateSlot(_ context.Context, id uuid.UUID, p repo.SlotPatch) (repo.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return repo.Slot{}, repo.ErrNotFound
	}
	s = p.Apply(s)
	s.UpdatedAt = time.Now()
	m.slots[id] = s
	return s, nil
}

func (m *memStore) DeleteSlot(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.slots, id)
	return nil
}

func (m *memStore) DeleteAllSlots(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.slots))
	m.slots = make(map[uuid.UUID]repo.Slot)
	return n, nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
