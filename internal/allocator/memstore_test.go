package allocator_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
)

// memStore is an in-memory allocator.Store. A single mutex serializes
// CreateCommitment, which makes overlap-validation-then-insert atomic the
// same way the Postgres repository does with its per-staff row lock.
type memStore struct {
	mu           sync.Mutex
	locations    map[int64]*domain.Location
	staff        []*domain.StaffMember
	employments  []*domain.Employment
	patterns     []*domain.PatternDay
	requirements []*domain.StaffingRequirement
	absences     []*domain.Absence
	commitments  []*domain.Commitment
	nextID       int64

	// createHook, when set, runs before the overlap check on every
	// CreateCommitment. Tests use it to inject commit races.
	createHook func(c *domain.Commitment) error
}

func newMemStore() *memStore {
	return &memStore{locations: make(map[int64]*domain.Location)}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addLocation(name, timezone string) *domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc := &domain.Location{ID: s.id(), Name: name, Timezone: timezone, IsActive: true}
	s.locations[loc.ID] = loc
	return loc
}

func (s *memStore) addStaff(name string, rating *float64, serviceIDs ...int64) *domain.StaffMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &domain.StaffMember{ID: s.id(), FullName: name, Rating: rating, IsActive: true, ServiceIDs: serviceIDs}
	s.staff = append(s.staff, st)
	return st
}

func (s *memStore) addEmployment(staffID, locationID int64, start time.Time, end *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employments = append(s.employments, &domain.Employment{
		ID: s.id(), StaffID: staffID, LocationID: locationID, StartDate: start, EndDate: end,
	})
}

func (s *memStore) addPatternDay(locationID int64, weekday time.Weekday, start, end string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append(s.patterns, &domain.PatternDay{
		ID: s.id(), LocationID: locationID, Weekday: int32(weekday), StartTime: start, EndTime: end,
	})
}

func (s *memStore) addRequirement(r domain.StaffingRequirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id()
	s.requirements = append(s.requirements, &r)
}

func (s *memStore) addAbsence(a domain.Absence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	s.absences = append(s.absences, &a)
}

func (s *memStore) addCommitment(staffID, locationID, serviceID int64, span interval.Interval, status domain.CommitmentStatus) *domain.Commitment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &domain.Commitment{
		ID: s.id(), StaffID: staffID, LocationID: locationID, ServiceID: serviceID,
		StartTime: span.Start, EndTime: span.End, Status: status,
	}
	s.commitments = append(s.commitments, c)
	return c
}

func (s *memStore) LocationByID(_ context.Context, id int64) (*domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, errNotFound
	}
	return loc, nil
}

func (s *memStore) CandidateStaff(_ context.Context, locationID, serviceID int64, day time.Time) ([]*domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StaffMember
	for _, st := range s.staff {
		if !st.IsActive || !st.CanPerform(serviceID) {
			continue
		}
		for _, e := range s.employments {
			if e.StaffID == st.ID && e.LocationID == locationID && e.ActiveOn(day) {
				out = append(out, st)
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) PatternDays(_ context.Context, locationID int64, weekday time.Weekday) ([]*domain.PatternDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PatternDay
	for _, pd := range s.patterns {
		if pd.LocationID == locationID && pd.Weekday == int32(weekday) {
			out = append(out, pd)
		}
	}
	return out, nil
}

func (s *memStore) StaffingRequirements(_ context.Context, locationID int64, weekday time.Weekday) ([]*domain.StaffingRequirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StaffingRequirement
	for _, r := range s.requirements {
		if r.LocationID == locationID && r.Weekday == int32(weekday) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) ApprovedAbsences(_ context.Context, staffID int64, day time.Time) ([]*domain.Absence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	date := day.Format("2006-01-02")
	var out []*domain.Absence
	for _, a := range s.absences {
		if a.StaffID != staffID || !a.Approved {
			continue
		}
		if a.StartDate.Format("2006-01-02") <= date && date <= a.EndDate.Format("2006-01-02") {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) CommitmentsInRange(_ context.Context, staffID int64, from, to time.Time, excludeID int64) ([]*domain.Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitmentsInRangeLocked(staffID, from, to, excludeID), nil
}

func (s *memStore) commitmentsInRangeLocked(staffID int64, from, to time.Time, excludeID int64) []*domain.Commitment {
	var out []*domain.Commitment
	for _, c := range s.commitments {
		if c.StaffID != staffID || c.Status.Terminal() || c.ID == excludeID {
			continue
		}
		if c.StartTime.Before(to) && from.Before(c.EndTime) {
			out = append(out, c)
		}
	}
	return out
}

func (s *memStore) CommittedStaffCount(_ context.Context, locationID, serviceID int64, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]bool)
	for _, c := range s.commitments {
		if c.LocationID != locationID || c.ServiceID != serviceID || c.Status.Terminal() {
			continue
		}
		if c.StartTime.Before(to) && from.Before(c.EndTime) {
			seen[c.StaffID] = true
		}
	}
	return len(seen), nil
}

func (s *memStore) CreateCommitment(_ context.Context, c *domain.Commitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createHook != nil {
		if err := s.createHook(c); err != nil {
			return err
		}
	}
	if len(s.commitmentsInRangeLocked(c.StaffID, c.StartTime, c.EndTime, 0)) > 0 {
		return domain.ErrCommitmentOverlap
	}
	clone := *c
	clone.ID = s.id()
	clone.CreatedAt = time.Now()
	s.commitments = append(s.commitments, &clone)
	c.ID = clone.ID
	c.CreatedAt = clone.CreatedAt
	return nil
}

var errNotFound = errNotFoundType{}

type errNotFoundType struct{}

func (errNotFoundType) Error() string { return "not found" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
