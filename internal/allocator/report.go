package allocator

import (
	"context"
	"errors"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
)

// AvailableStaffEntry is one row of the manual-assignment report: a capable
// staff member with the slots still open on the date.
type AvailableStaffEntry struct {
	Staff           *domain.StaffMember `json:"staffMember"`
	AvailableSlots  []interval.Interval `json:"availableSlots"`
	WorkloadMinutes int64               `json:"workloadMinutes"`
	Rating          float64             `json:"rating"`
}

// AvailableStaff lists the staff members capable of the service at the
// location on the date, with pattern windows minus absences and existing
// commitments. A location closed that day (no pattern) yields an empty list.
func (e *Engine) AvailableStaff(ctx context.Context, locationID, serviceID int64, day time.Time) ([]AvailableStaffEntry, error) {
	loc, tz, err := e.location(ctx, locationID)
	if err != nil {
		return nil, err
	}
	y, m, d := day.Date()
	day = time.Date(y, m, d, 0, 0, 0, 0, tz)

	pool, err := e.store.CandidateStaff(ctx, locationID, serviceID, day)
	if err != nil {
		return nil, err
	}

	entries := make([]AvailableStaffEntry, 0, len(pool))
	for _, staff := range pool {
		windows, err := e.OpenWindows(ctx, loc, staff.ID, day)
		if err != nil {
			if errors.Is(err, ErrConfigurationMissing) {
				return entries, nil
			}
			return nil, err
		}

		from, to := dayBounds(day)
		commitments, err := e.store.CommitmentsInRange(ctx, staff.ID, from, to, 0)
		if err != nil {
			return nil, err
		}
		busy := make([]interval.Interval, 0, len(commitments))
		for _, c := range commitments {
			busy = append(busy, interval.Interval{Start: c.StartTime, End: c.EndTime})
		}

		workload, err := e.WorkloadMinutes(ctx, staff.ID, day)
		if err != nil {
			return nil, err
		}

		entries = append(entries, AvailableStaffEntry{
			Staff:           staff,
			AvailableSlots:  interval.Subtract(windows, busy),
			WorkloadMinutes: workload,
			Rating:          staff.EffectiveRating(),
		})
	}
	return entries, nil
}
