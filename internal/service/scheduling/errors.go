package scheduling

import "errors"

var (
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrInvalidWeekday    = errors.New("weekday must be between 0 and 6")
	ErrInvalidTime       = errors.New("time must be HH:MM with hour 0-23 and minute 0-59")
	ErrInvalidTimeRange  = errors.New("end must be after start")
	ErrInvalidWeekAnchor = errors.New("week anchor must be a YYYY-MM-DD date")
	ErrInvalidCapacity   = errors.New("capacity must be a non-negative integer")
	ErrOverlappingSlot   = errors.New("time slot overlaps with an existing slot")
	ErrSlotNotFound      = errors.New("time slot not found")
	ErrScopeBusy         = errors.New("schedule is busy, try again")
)
