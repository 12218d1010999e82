package allocator

import (
	"context"
	"sort"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
	"github.com/petscare-dev/staff-allocator/backend/internal/metrics"
)

// BatchItem is the outcome of one request inside a planning run.
type BatchItem struct {
	ServiceID int64               `json:"serviceID"`
	Span      interval.Interval   `json:"span"`
	Priority  int32               `json:"priority"`
	Staff     *domain.StaffMember `json:"staffMember,omitempty"`
	Reference string              `json:"reference,omitempty"`
	Reason    string              `json:"reason,omitempty"`
}

// Coverage compares committed headcount against a staffing requirement. It
// is reporting only; a missed target never rejects an assignment.
type Coverage struct {
	Requirement *domain.StaffingRequirement `json:"requirement"`
	Date        string                      `json:"date"`
	Assigned    int                         `json:"assigned"`
	Met         bool                        `json:"met"`
}

type BatchResult struct {
	Items    []BatchItem `json:"items"`
	Coverage []Coverage  `json:"coverage"`
}

// AssignBatch runs the engine over a batch of requests for one location,
// scheduling higher-priority services first (staffing requirement priority
// weights, falling back to submission order). Each request still goes
// through the full Assign path, so a failed request never blocks the rest.
func (e *Engine) AssignBatch(ctx context.Context, locationID int64, reqs []Request) (*BatchResult, error) {
	_, tz, err := e.location(ctx, locationID)
	if err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(reqs))
	order := make([]int, len(reqs))
	for i, req := range reqs {
		priority, err := e.priorityFor(ctx, locationID, req.ServiceID, req.Span, tz)
		if err != nil {
			return nil, err
		}
		items[i] = BatchItem{
			ServiceID: req.ServiceID,
			Span:      req.Span,
			Priority:  priority,
		}
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].Priority > items[order[b]].Priority
	})

	for _, i := range order {
		req := reqs[i]
		req.LocationID = locationID
		assignment, err := e.Assign(ctx, req)
		if err != nil {
			items[i].Reason = err.Error()
			continue
		}
		items[i].Staff = assignment.Staff
		items[i].Reference = assignment.Commitment.Reference
	}

	coverage, err := e.coverage(ctx, locationID, reqs, tz)
	if err != nil {
		return nil, err
	}

	metrics.PlanningJobsTotal.Inc()
	return &BatchResult{Items: items, Coverage: coverage}, nil
}

// priorityFor returns the highest priority weight among active staffing
// requirements for the service whose time band intersects the span. Zero
// when none apply.
func (e *Engine) priorityFor(ctx context.Context, locationID, serviceID int64, span interval.Interval, tz *time.Location) (int32, error) {
	day := span.Start.In(tz)
	requirements, err := e.store.StaffingRequirements(ctx, locationID, day.Weekday())
	if err != nil {
		return 0, err
	}

	var best int32
	for _, r := range requirements {
		if !r.IsActive || r.ServiceID != serviceID {
			continue
		}
		band, err := clockInterval(r.StartTime, r.EndTime, day, tz)
		if err != nil {
			return 0, err
		}
		if band.Overlaps(span) && r.Priority > best {
			best = r.Priority
		}
	}
	return best, nil
}

// coverage reports assigned-vs-required headcount for every active staffing
// requirement on the dates the batch touched.
func (e *Engine) coverage(ctx context.Context, locationID int64, reqs []Request, tz *time.Location) ([]Coverage, error) {
	seen := make(map[string]time.Time)
	for _, req := range reqs {
		day := req.Span.Start.In(tz)
		seen[day.Format("2006-01-02")] = day
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var out []Coverage
	for _, date := range dates {
		day := seen[date]
		requirements, err := e.store.StaffingRequirements(ctx, locationID, day.Weekday())
		if err != nil {
			return nil, err
		}
		for _, r := range requirements {
			if !r.IsActive {
				continue
			}
			band, err := clockInterval(r.StartTime, r.EndTime, day, tz)
			if err != nil {
				return nil, err
			}
			assigned, err := e.store.CommittedStaffCount(ctx, locationID, r.ServiceID, band.Start, band.End)
			if err != nil {
				return nil, err
			}
			out = append(out, Coverage{
				Requirement: r,
				Date:        date,
				Assigned:    assigned,
				Met:         assigned >= int(r.RequiredCount),
			})
		}
	}
	return out, nil
}
