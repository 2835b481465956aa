package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotClosed    SlotStatus = "CLOSED"
)

// NormalizeStatus maps anything but CLOSED to AVAILABLE.
func NormalizeStatus(s string) SlotStatus {
	if SlotStatus(strings.ToUpper(strings.TrimSpace(s))) == SlotClosed {
		return SlotClosed
	}
	return SlotAvailable
}

// Slot is one bookable window on a weekday. WeekAnchor is the UTC Monday of
// the week the slot belongs to; nil means the standing template.
type Slot struct {
	ID         uuid.UUID
	Weekday    int
	StartMin   int
	EndMin     int
	Doctor     string
	Room       string
	Note       string
	Status     SlotStatus
	Capacity   int
	WeekAnchor *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SlotFields are the caller-supplied columns of a new slot.
type SlotFields struct {
	Weekday    int
	StartMin   int
	EndMin     int
	Doctor     string
	Room       string
	Note       string
	Status     SlotStatus
	Capacity   int
	WeekAnchor *time.Time
}

// SlotPatch is a partial update. Nil pointers leave the column unchanged.
// WeekAnchor is applied only when SetWeekAnchor is true, so nil can clear it.
type SlotPatch struct {
	Weekday       *int
	StartMin      *int
	EndMin        *int
	Doctor        *string
	Room          *string
	Note          *string
	Status        *SlotStatus
	Capacity      *int
	SetWeekAnchor bool
	WeekAnchor    *time.Time
}

// Apply returns s with the patch applied, without touching the database.
func (p SlotPatch) Apply(s Slot) Slot {
	if p.Weekday != nil {
		s.Weekday = *p.Weekday
	}
	if p.StartMin != nil {
		s.StartMin = *p.StartMin
	}
	if p.EndMin != nil {
		s.EndMin = *p.EndMin
	}
	if p.Doctor != nil {
		s.Doctor = *p.Doctor
	}
	if p.Room != nil {
		s.Room = *p.Room
	}
	if p.Note != nil {
		s.Note = *p.Note
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Capacity != nil {
		s.Capacity = *p.Capacity
	}
	if p.SetWeekAnchor {
		s.WeekAnchor = p.WeekAnchor
	}
	return s
}

type filterMode int

const (
	filterAll filterMode = iota
	filterAnchored
	filterUnanchored
)

// SlotFilter selects slots for FindAll.
type SlotFilter struct {
	mode   filterMode
	anchor time.Time
}

func AllSlots() SlotFilter { return SlotFilter{mode: filterAll} }

func AnchoredTo(anchor time.Time) SlotFilter {
	return SlotFilter{mode: filterAnchored, anchor: anchor}
}

func Unanchored() SlotFilter { return SlotFilter{mode: filterUnanchored} }

// Matches reports whether s would be returned by FindAll(f).
func (f SlotFilter) Matches(s Slot) bool {
	switch f.mode {
	case filterAnchored:
		return s.WeekAnchor != nil && s.WeekAnchor.Equal(f.anchor)
	case filterUnanchored:
		return s.WeekAnchor == nil
	default:
		return true
	}
}

func (f SlotFilter) String() string {
	switch f.mode {
	case filterAnchored:
		return "anchor=" + f.anchor.Format(time.DateOnly)
	case filterUnanchored:
		return "unanchored"
	default:
		return "all"
	}
}

const slotColumns = `id, weekday, start_min, end_min, doctor, room, note, status, capacity, week_anchor, created_at, updated_at`

func scanSlot(row pgx.Row) (Slot, error) {
	var s Slot
	var status string
	err := row.Scan(
		&s.ID,
		&s.Weekday,
		&s.StartMin,
		&s.EndMin,
		&s.Doctor,
		&s.Room,
		&s.Note,
		&status,
		&s.Capacity,
		&s.WeekAnchor,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	s.Status = NormalizeStatus(status)
	if s.WeekAnchor != nil {
		a := s.WeekAnchor.UTC()
		s.WeekAnchor = &a
	}
	return s, err
}

func (r *Store) querySlots(ctx context.Context, query string, args ...any) ([]Slot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// FindByScope returns the slots sharing weekday and anchor (NULL matches
// NULL), skipping excludeID when it is not uuid.Nil.
func (r *Store) FindByScope(ctx context.Context, weekday int, anchor *time.Time, excludeID uuid.UUID) ([]Slot, error) {
	const query = `
SELECT ` + slotColumns + `
FROM time_slots
WHERE weekday = $1
  AND week_anchor IS NOT DISTINCT FROM $2::date
  AND ($3::uuid IS NULL OR id <> $3::uuid)
ORDER BY start_min ASC
`
	var exclude *uuid.UUID
	if excludeID != uuid.Nil {
		exclude = &excludeID
	}
	slots, err := r.querySlots(ctx, query, weekday, anchor, exclude)
	if err != nil {
		return nil, fmt.Errorf("find slots by scope: %w", err)
	}
	return slots, nil
}

// FindAll returns the slots matching f ordered by weekday then start.
func (r *Store) FindAll(ctx context.Context, f SlotFilter) ([]Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots`
	var args []any
	switch f.mode {
	case filterAnchored:
		query += ` WHERE week_anchor = $1::date`
		args = append(args, f.anchor)
	case filterUnanchored:
		query += ` WHERE week_anchor IS NULL`
	}
	query += ` ORDER BY weekday ASC, start_min ASC`

	slots, err := r.querySlots(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find slots (%s): %w", f, err)
	}
	return slots, nil
}

// CountByScope counts slots anchored to anchor, or unanchored slots when
// anchor is nil.
func (r *Store) CountByScope(ctx context.Context, anchor *time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM time_slots WHERE week_anchor IS NOT DISTINCT FROM $1::date`,
		anchor,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count slots: %w", err)
	}
	return n, nil
}

func (r *Store) GetSlot(ctx context.Context, id uuid.UUID) (Slot, error) {
	s, err := scanSlot(r.db.QueryRow(ctx, `SELECT `+slotColumns+` FROM time_slots WHERE id = $1`, id))
	if err != nil {
		return Slot{}, notFound(err)
	}
	return s, nil
}

func (r *Store) CreateSlot(ctx context.Context, f SlotFields) (Slot, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Slot{}, err
	}
	if f.Status == "" {
		f.Status = SlotAvailable
	}

	const query = `
INSERT INTO time_slots (id, weekday, start_min, end_min, doctor, room, note, status, capacity, week_anchor)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::date)
RETURNING ` + slotColumns

	s, err := scanSlot(r.db.QueryRow(ctx, query,
		id, f.Weekday, f.StartMin, f.EndMin, f.Doctor, f.Room, f.Note, string(f.Status), f.Capacity, f.WeekAnchor,
	))
	if err != nil {
		return Slot{}, fmt.Errorf("insert slot: %w", err)
	}
	return s, nil
}

func (r *Store) UpdateSlot(ctx context.Context, id uuid.UUID, p SlotPatch) (Slot, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Weekday != nil {
		set("weekday", *p.Weekday)
	}
	if p.StartMin != nil {
		set("start_min", *p.StartMin)
	}
	if p.EndMin != nil {
		set("end_min", *p.EndMin)
	}
	if p.Doctor != nil {
		set("doctor", *p.Doctor)
	}
	if p.Room != nil {
		set("room", *p.Room)
	}
	if p.Note != nil {
		set("note", *p.Note)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.Capacity != nil {
		set("capacity", *p.Capacity)
	}
	if p.SetWeekAnchor {
		args = append(args, p.WeekAnchor)
		sets = append(sets, fmt.Sprintf("week_anchor = $%d::date", len(args)))
	}

	if len(sets) == 0 {
		return r.GetSlot(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE time_slots SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), slotColumns)

	s, err := scanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return Slot{}, notFound(err)
	}
	return s, nil
}

func (r *Store) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Store) DeleteAllSlots(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM time_slots`)
	if err != nil {
		return 0, fmt.Errorf("delete all slots: %w", err)
	}
	return tag.RowsAffected(), nil
}
