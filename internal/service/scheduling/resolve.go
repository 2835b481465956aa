package scheduling

import (
	"context"
	"fmt"

	"github.com/thanhyclinic/schedule_backend/internal/repo"
)

// ResolveSlots returns the schedule for weekText.
//
// With no week every slot is returned. With a week, the slots anchored to
// it are returned, or the standing template when that week has none. The
// two sets are never merged.
func (s *schedulingService) ResolveSlots(ctx context.Context, weekText string) ([]repo.Slot, error) {
	anchor, err := ParseWeekAnchor(weekText)
	if err != nil {
		return nil, err
	}

	key := "all"
	if anchor != nil {
		key = *FormatWeekAnchor(anchor)
	}
	if slots, ok := s.cache.get(key); ok {
		return slots, nil
	}

	var slots []repo.Slot
	if anchor == nil {
		slots, err = s.store.FindAll(ctx, repo.AllSlots())
	} else {
		slots, err = s.store.FindAll(ctx, repo.AnchoredTo(*anchor))
		if err == nil && len(slots) == 0 {
			slots, err = s.store.FindAll(ctx, repo.Unanchored())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve week %q: %w", key, err)
	}
	if slots == nil {
		slots = []repo.Slot{}
	}

	s.cache.put(key, slots)
	return slots, nil
}
