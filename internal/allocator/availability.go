package allocator

import (
	"context"
	"fmt"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
)

// OpenWindows resolves the concrete open intervals for a staff member at a
// location on a date: the location's pattern for the weekday minus the staff
// member's approved absences. Returns ErrConfigurationMissing when the
// location has no pattern rows for the weekday.
func (e *Engine) OpenWindows(ctx context.Context, loc *domain.Location, staffID int64, day time.Time) ([]interval.Interval, error) {
	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", loc.Timezone, err)
	}
	day = day.In(tz)

	days, err := e.store.PatternDays(ctx, loc.ID, day.Weekday())
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrConfigurationMissing
	}

	windows, err := patternWindows(days, day, tz)
	if err != nil {
		return nil, err
	}

	absences, err := e.store.ApprovedAbsences(ctx, staffID, day)
	if err != nil {
		return nil, err
	}
	blocked, err := absenceBlocks(absences, day, tz)
	if err != nil {
		return nil, err
	}

	return interval.Subtract(windows, blocked), nil
}

// patternWindows anchors the pattern's clock times on the date in the
// location's timezone so all comparisons happen on absolute instants.
func patternWindows(days []*domain.PatternDay, day time.Time, tz *time.Location) ([]interval.Interval, error) {
	windows := make([]interval.Interval, 0, len(days))
	for _, pd := range days {
		w, err := clockInterval(pd.StartTime, pd.EndTime, day, tz)
		if err != nil {
			return nil, fmt.Errorf("pattern day %d: %w", pd.ID, err)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// absenceBlocks turns the day's absences into blocking intervals. A full-day
// absence blocks the whole calendar day; a partial-day absence blocks only
// its clock range.
func absenceBlocks(absences []*domain.Absence, day time.Time, tz *time.Location) ([]interval.Interval, error) {
	blocks := make([]interval.Interval, 0, len(absences))
	for _, a := range absences {
		if a.FullDay() {
			from, to := dayBounds(day.In(tz))
			blocks = append(blocks, interval.Interval{Start: from, End: to})
			continue
		}
		b, err := clockInterval(*a.StartTime, *a.EndTime, day, tz)
		if err != nil {
			return nil, fmt.Errorf("absence %d: %w", a.ID, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func clockInterval(startClock, endClock string, day time.Time, tz *time.Location) (interval.Interval, error) {
	start, err := onDay(startClock, day, tz)
	if err != nil {
		return interval.Interval{}, err
	}
	end, err := onDay(endClock, day, tz)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.New(start, end)
}

func onDay(clock string, day time.Time, tz *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock time %q: %w", clock, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, tz), nil
}

// dayBounds returns [midnight, next midnight) in the day's own timezone.
func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	to := time.Date(y, m, d+1, 0, 0, 0, 0, day.Location())
	return from, to
}
