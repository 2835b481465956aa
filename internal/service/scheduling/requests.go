package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/thanhyclinic/schedule_backend/internal/repo"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateSlotRequest is the body of a slot creation.
type CreateSlotRequest struct {
	Weekday    *int    `json:"weekday" validate:"required,min=0,max=6"`
	Start      string  `json:"start" validate:"required"`
	End        string  `json:"end" validate:"required"`
	Doctor     string  `json:"doctor" validate:"required,max=200"`
	Room       string  `json:"room" validate:"required,max=200"`
	Note       string  `json:"note" validate:"max=2000"`
	Status     string  `json:"status"`
	Capacity   *int    `json:"capacity" validate:"required,min=0"`
	WeekAnchor *string `json:"week_anchor"`
}

// UpdateSlotRequest is a partial update. Absent fields stay unchanged.
// WeekAnchorSet distinguishes "week_anchor": null (clear) from an absent key.
type UpdateSlotRequest struct {
	Weekday       *int    `json:"weekday" validate:"omitempty,min=0,max=6"`
	Start         *string `json:"start"`
	End           *string `json:"end"`
	Doctor        *string `json:"doctor" validate:"omitempty,min=1,max=200"`
	Room          *string `json:"room" validate:"omitempty,min=1,max=200"`
	Note          *string `json:"note" validate:"omitempty,max=2000"`
	Status        *string `json:"status"`
	Capacity      *int    `json:"capacity" validate:"omitempty,min=0"`
	WeekAnchor    *string `json:"week_anchor"`
	WeekAnchorSet bool    `json:"-"`
}

// DecodeUpdateSlotRequest decodes body and records whether week_anchor was
// present at all.
func DecodeUpdateSlotRequest(body []byte) (UpdateSlotRequest, error) {
	var req UpdateSlotRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	_, req.WeekAnchorSet = keys["week_anchor"]
	return req, nil
}

// validationError maps the first failing field to the matching sentinel.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Weekday":
		return ErrInvalidWeekday
	case "Capacity":
		return ErrInvalidCapacity
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidPayload, strings.ToLower(fe.Field()), fe.Tag())
	}
}

func trimmed(s string) string { return strings.TrimSpace(s) }

// fields validates the request and converts it to store columns.
func (r CreateSlotRequest) fields() (repo.SlotFields, error) {
	r.Doctor, r.Room = trimmed(r.Doctor), trimmed(r.Room)
	if err := validate.Struct(r); err != nil {
		return repo.SlotFields{}, validationError(err)
	}

	start, err := ToMinutes(r.Start)
	if err != nil {
		return repo.SlotFields{}, err
	}
	end, err := ToMinutes(r.End)
	if err != nil {
		return repo.SlotFields{}, err
	}
	if !validRange(start, end) {
		return repo.SlotFields{}, ErrInvalidTimeRange
	}

	var anchor *time.Time
	if r.WeekAnchor != nil {
		if anchor, err = ParseWeekAnchor(*r.WeekAnchor); err != nil {
			return repo.SlotFields{}, err
		}
	}

	return repo.SlotFields{
		Weekday:    *r.Weekday,
		StartMin:   start,
		EndMin:     end,
		Doctor:     r.Doctor,
		Room:       r.Room,
		Note:       r.Note,
		Status:     repo.NormalizeStatus(r.Status),
		Capacity:   *r.Capacity,
		WeekAnchor: anchor,
	}, nil
}

// patch validates every supplied field and converts the request.
func (r UpdateSlotRequest) patch() (repo.SlotPatch, error) {
	if r.Doctor != nil {
		v := trimmed(*r.Doctor)
		r.Doctor = &v
	}
	if r.Room != nil {
		v := trimmed(*r.Room)
		r.Room = &v
	}
	if err := validate.Struct(r); err != nil {
		return repo.SlotPatch{}, validationError(err)
	}

	p := repo.SlotPatch{
		Weekday:  r.Weekday,
		Doctor:   r.Doctor,
		Room:     r.Room,
		Note:     r.Note,
		Capacity: r.Capacity,
	}
	if r.Start != nil {
		m, err := ToMinutes(*r.Start)
		if err != nil {
			return repo.SlotPatch{}, err
		}
		p.StartMin = &m
	}
	if r.End != nil {
		m, err := ToMinutes(*r.End)
		if err != nil {
			return repo.SlotPatch{}, err
		}
		p.EndMin = &m
	}
	if r.Status != nil {
		st := repo.NormalizeStatus(*r.Status)
		p.Status = &st
	}
	if r.WeekAnchorSet {
		p.SetWeekAnchor = true
		if r.WeekAnchor != nil {
			a, err := ParseWeekAnchor(*r.WeekAnchor)
			if err != nil {
				return repo.SlotPatch{}, err
			}
			p.WeekAnchor = a
		}
	}
	return p, nil
}
