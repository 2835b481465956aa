package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/thanhyclinic/schedule_backend/internal/repo"
	"github.com/thanhyclinic/schedule_backend/internal/service/scheduling"
)

type ScheduleHandler struct {
	svc scheduling.Service
}

func NewScheduleHandler(svc scheduling.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// SlotView is the wire form of a slot.
type SlotView struct {
	ID         uuid.UUID `json:"id"`
	Weekday    int       `json:"weekday"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Doctor     string    `json:"doctor"`
	Room       string    `json:"room"`
	Note       string    `json:"note"`
	Status     string    `json:"status"`
	Capacity   int       `json:"capacity"`
	WeekAnchor *string   `json:"week_anchor"`
}

func toSlotView(s repo.Slot) SlotView {
	return SlotView{
		ID:         s.ID,
		Weekday:    s.Weekday,
		Start:      scheduling.FromMinutes(s.StartMin),
		End:        scheduling.FromMinutes(s.EndMin),
		Doctor:     s.Doctor,
		Room:       s.Room,
		Note:       s.Note,
		Status:     string(s.Status),
		Capacity:   s.Capacity,
		WeekAnchor: scheduling.FormatWeekAnchor(s.WeekAnchor),
	}
}

func toSlotViews(slots []repo.Slot) []SlotView {
	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotView(s))
	}
	return out
}

func mapScheduleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scheduling.ErrSlotNotFound):
		return notFound(c, "slot not found")
	case errors.Is(err, scheduling.ErrOverlappingSlot):
		return conflict(c, err.Error())
	case errors.Is(err, scheduling.ErrInvalidPayload),
		errors.Is(err, scheduling.ErrInvalidWeekAnchor),
		errors.Is(err, scheduling.ErrInvalidWeekday),
		errors.Is(err, scheduling.ErrInvalidTime),
		errors.Is(err, scheduling.ErrInvalidTimeRange),
		errors.Is(err, scheduling.ErrInvalidCapacity):
		return badRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrScopeBusy):
		return serviceUnavailable(c, err.Error())
	default:
		slog.ErrorContext(c.Context(), "schedule request failed", "path", c.Path(), "method", c.Method(), "error", err)
		return internalError(c)
	}
}

func slotIDParam(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// ---------------------------------------------------------------------------
// Public
// ---------------------------------------------------------------------------

// GET /schedule?week=YYYY-MM-DD
func (h *ScheduleHandler) GetSchedule(c fiber.Ctx) error {
	slots, err := h.svc.ResolveSlots(c.Context(), c.Query("week"))
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, toSlotViews(slots))
}

// ---------------------------------------------------------------------------
// Admin
// ---------------------------------------------------------------------------

// POST /admin/slots
func (h *ScheduleHandler) CreateSlot(c fiber.Ctx) error {
	var req scheduling.CreateSlotRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, scheduling.ErrInvalidPayload.Error())
	}

	slot, err := h.svc.CreateSlot(c.Context(), req)
	if err != nil {
		return mapScheduleError(c, err)
	}
	return created(c, toSlotView(slot))
}

// PUT /admin/slots/:id
func (h *ScheduleHandler) UpdateSlot(c fiber.Ctx) error {
	id, valid := slotIDParam(c)
	if !valid {
		return notFound(c, "slot not found")
	}

	req, err := scheduling.DecodeUpdateSlotRequest(c.Body())
	if err != nil {
		return mapScheduleError(c, err)
	}

	slot, err := h.svc.UpdateSlot(c.Context(), id, req)
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, toSlotView(slot))
}

// DELETE /admin/slots/:id
func (h *ScheduleHandler) DeleteSlot(c fiber.Ctx) error {
	id, valid := slotIDParam(c)
	if !valid {
		return notFound(c, "slot not found")
	}

	if err := h.svc.DeleteSlot(c.Context(), id); err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, fiber.Map{"ok": true})
}

// DELETE /admin/slots/purge?defaults=1
func (h *ScheduleHandler) PurgeSlots(c fiber.Ctx) error {
	res, err := h.svc.PurgeSlots(c.Context(), fiber.Query[bool](c, "defaults"))
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, res)
}

// POST /admin/slots/seed?week=YYYY-MM-DD
//
// Seeds the default template into week (next week when omitted). Weeks that
// already have slots are left alone and report created=0.
func (h *ScheduleHandler) SeedWeek(c fiber.Ctx) error {
	anchor := h.svc.NextWeekAnchor()
	if week := c.Query("week"); week != "" {
		a, err := scheduling.ParseWeekAnchor(week)
		if err != nil {
			return mapScheduleError(c, err)
		}
		anchor = *a
	}

	n, err := h.svc.SeedDefaultsIfMissing(c.Context(), anchor)
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, fiber.Map{"week": anchor.Format(time.DateOnly), "created": n})
}
