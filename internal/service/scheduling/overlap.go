package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// overlaps reports whether [a,b) and [c,d) intersect. Touching ends do not.
func overlaps(a, b, c, d int) bool {
	return a < d && c < b
}

// HasOverlap reports whether [startMin,endMin) collides with any slot in
// the same weekday and week anchor, ignoring excludeID.
func (s *schedulingService) HasOverlap(ctx context.Context, weekday, startMin, endMin int, anchor *time.Time, excludeID uuid.UUID) (bool, error) {
	candidates, err := s.store.FindByScope(ctx, weekday, anchor, excludeID)
	if err != nil {
		return false, fmt.Errorf("load scope: %w", err)
	}
	for _, c := range candidates {
		if c.ID == excludeID {
			continue
		}
		if overlaps(startMin, endMin, c.StartMin, c.EndMin) {
			return true, nil
		}
	}
	return false, nil
}
