package allocator

import (
	"context"

	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
)

// HasConflict reports whether any non-terminal commitment of the staff
// member overlaps the candidate interval. excludeCommitmentID (0 for none)
// skips a commitment being rescheduled.
//
// This is the advisory pre-check: it is necessarily stale the instant two
// requests race, so the commitment store re-validates inside its atomic
// commit path.
func (e *Engine) HasConflict(ctx context.Context, staffID int64, span interval.Interval, excludeCommitmentID int64) (bool, error) {
	commitments, err := e.store.CommitmentsInRange(ctx, staffID, span.Start, span.End, excludeCommitmentID)
	if err != nil {
		return false, err
	}
	for _, c := range commitments {
		if span.Overlaps(interval.Interval{Start: c.StartTime, End: c.EndTime}) {
			return true, nil
		}
	}
	return false, nil
}
