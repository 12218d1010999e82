package allocator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
	"github.com/petscare-dev/staff-allocator/backend/internal/metrics"
)

const defaultCommitRetries = 3

// Engine picks the best available staff member for a request and commits the
// resulting claim on their calendar. Everything except CreateCommitment is a
// pure read, so the engine is safe to call concurrently.
type Engine struct {
	store         Store
	logger        *slog.Logger
	commitRetries int
}

type Option func(*Engine)

// WithCommitRetries bounds how many commit races a single request tolerates
// before giving up with ErrAssignmentRaceExhausted.
func WithCommitRetries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.commitRetries = n
		}
	}
}

func New(store Store, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		logger:        logger,
		commitRetries: defaultCommitRetries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request asks for one staff member for a service at a location over an
// interval of absolute instants.
type Request struct {
	LocationID int64
	ServiceID  int64
	Span       interval.Interval
	CustomerID *int64
	Notes      string
}

// Assignment is the outcome of a successful Assign: the chosen staff member
// and the commitment created for them.
type Assignment struct {
	Staff      *domain.StaffMember `json:"staffMember"`
	Commitment *domain.Commitment  `json:"commitment"`
}

// Assign selects the best available staff member and atomically creates the
// commitment. Ranking: workload ascending, then rating descending (default
// rating when unset), then staff ID ascending, so identical inputs always
// produce the same choice. On a commit race the losing candidate is excluded
// and the remaining pool is re-evaluated, up to the retry bound.
func (e *Engine) Assign(ctx context.Context, req Request) (*Assignment, error) {
	loc, tz, err := e.location(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	day := req.Span.Start.In(tz)

	// Fail closed when the location has no pattern for this weekday. This is
	// usually incomplete setup, so it is logged for operator visibility.
	patternDays, err := e.store.PatternDays(ctx, loc.ID, day.Weekday())
	if err != nil {
		return nil, err
	}
	if len(patternDays) == 0 {
		metrics.MissingPatternTotal.Inc()
		e.logger.Warn("no schedule pattern for weekday, treating location as closed",
			"locationID", loc.ID, "weekday", day.Weekday().String())
		return nil, ErrConfigurationMissing
	}

	pool, err := e.store.CandidateStaff(ctx, req.LocationID, req.ServiceID, day)
	if err != nil {
		return nil, err
	}

	excluded := make(map[int64]bool)
	for attempt := 0; attempt < e.commitRetries; attempt++ {
		cands, err := e.rank(ctx, loc, pool, excluded, req.Span, day)
		if err != nil {
			return nil, err
		}
		if len(cands) == 0 {
			metrics.NoAvailableStaffTotal.Inc()
			return nil, ErrNoAvailableStaff
		}

		top := cands[0]
		commitment := &domain.Commitment{
			Reference:  uuid.NewString(),
			StaffID:    top.staff.ID,
			LocationID: req.LocationID,
			ServiceID:  req.ServiceID,
			CustomerID: req.CustomerID,
			StartTime:  req.Span.Start,
			EndTime:    req.Span.End,
			Status:     domain.CommitmentPending,
			Notes:      req.Notes,
		}

		switch err := e.store.CreateCommitment(ctx, commitment); {
		case err == nil:
			metrics.AssignmentsTotal.Inc()
			return &Assignment{Staff: top.staff, Commitment: commitment}, nil
		case errors.Is(err, domain.ErrCommitmentOverlap):
			// A concurrent writer claimed this candidate first. Drop them
			// and re-evaluate what is left of the pool.
			metrics.CommitConflictsTotal.Inc()
			excluded[top.staff.ID] = true
		default:
			return nil, err
		}
	}

	metrics.RaceExhaustedTotal.Inc()
	return nil, ErrAssignmentRaceExhausted
}

type candidate struct {
	staff    *domain.StaffMember
	workload int64
	rating   float64
}

// rank filters the pool down to available, conflict-free candidates and
// orders them by the assignment policy.
func (e *Engine) rank(ctx context.Context, loc *domain.Location, pool []*domain.StaffMember, excluded map[int64]bool, span interval.Interval, day time.Time) ([]candidate, error) {
	cands := make([]candidate, 0, len(pool))
	for _, staff := range pool {
		if excluded[staff.ID] {
			continue
		}

		windows, err := e.OpenWindows(ctx, loc, staff.ID, day)
		if err != nil {
			if errors.Is(err, ErrConfigurationMissing) {
				return nil, err
			}
			return nil, fmt.Errorf("resolve availability for staff %d: %w", staff.ID, err)
		}
		if !interval.AnyContains(windows, span) {
			continue
		}

		conflicted, err := e.HasConflict(ctx, staff.ID, span, 0)
		if err != nil {
			return nil, err
		}
		if conflicted {
			continue
		}

		workload, err := e.WorkloadMinutes(ctx, staff.ID, day)
		if err != nil {
			return nil, err
		}

		cands = append(cands, candidate{
			staff:    staff,
			workload: workload,
			rating:   staff.EffectiveRating(),
		})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].workload != cands[j].workload {
			return cands[i].workload < cands[j].workload
		}
		if cands[i].rating != cands[j].rating {
			return cands[i].rating > cands[j].rating
		}
		return cands[i].staff.ID < cands[j].staff.ID
	})

	return cands, nil
}

func (e *Engine) location(ctx context.Context, id int64) (*domain.Location, *time.Location, error) {
	loc, err := e.store.LocationByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone %q: %w", loc.Timezone, err)
	}
	return loc, tz, nil
}
