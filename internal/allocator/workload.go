package allocator

import (
	"context"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
)

// WorkloadMinutes sums the committed duration, in whole minutes, of the
// staff member's non-terminal commitments starting on the given date. The
// date is interpreted in day's own timezone.
func (e *Engine) WorkloadMinutes(ctx context.Context, staffID int64, day time.Time) (int64, error) {
	from, to := dayBounds(day)
	commitments, err := e.store.CommitmentsInRange(ctx, staffID, from, to, 0)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, c := range commitments {
		if c.StartTime.Before(from) || !c.StartTime.Before(to) {
			continue
		}
		total += interval.Interval{Start: c.StartTime, End: c.EndTime}.Minutes()
	}
	return total, nil
}
