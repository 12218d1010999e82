package allocator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/allocator"
	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceGrooming int64 = 100

// monday is 2025-03-03, a Monday.
var monday = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func mondayAt(hour, minute int) time.Time {
	return time.Date(2025, time.March, 3, hour, minute, 0, 0, time.UTC)
}

func span(t *testing.T, start, end time.Time) interval.Interval {
	t.Helper()
	iv, err := interval.New(start, end)
	require.NoError(t, err)
	return iv
}

func ratingOf(v float64) *float64 { return &v }

// openClinic builds a location open 09:00-17:00 UTC on Mondays.
func openClinic(s *memStore) *domain.Location {
	loc := s.addLocation("Riverside Clinic", "UTC")
	s.addPatternDay(loc.ID, time.Monday, "09:00:00", "17:00:00")
	return loc
}

func employ(s *memStore, staff *domain.StaffMember, loc *domain.Location) {
	s.addEmployment(staff.ID, loc.ID, monday.AddDate(-1, 0, 0), nil)
}

func TestAssignEndToEnd(t *testing.T) {
	// Staff A (4.0) has a confirmed commitment 10:00-11:00; staff B (4.8)
	// has none.
	s := newMemStore()
	loc := openClinic(s)
	staffA := s.addStaff("Alice Park", ratingOf(4.0), serviceGrooming)
	staffB := s.addStaff("Ben Osei", ratingOf(4.8), serviceGrooming)
	employ(s, staffA, loc)
	employ(s, staffB, loc)
	s.addCommitment(staffA.ID, loc.ID, serviceGrooming, span(t, mondayAt(10, 0), mondayAt(11, 0)), domain.CommitmentConfirmed)

	engine := allocator.New(s, discardLogger())

	t.Run("conflicted staff is skipped", func(t *testing.T) {
		got, err := engine.Assign(context.Background(), allocator.Request{
			LocationID: loc.ID,
			ServiceID:  serviceGrooming,
			Span:       span(t, mondayAt(10, 0), mondayAt(10, 30)),
		})
		require.NoError(t, err)
		assert.Equal(t, staffB.ID, got.Staff.ID)
		assert.Equal(t, domain.CommitmentPending, got.Commitment.Status)
		assert.NotEmpty(t, got.Commitment.Reference)
	})

	t.Run("least loaded staff wins when both are free", func(t *testing.T) {
		// A now carries 60 committed minutes, B 30; A loses again.
		got, err := engine.Assign(context.Background(), allocator.Request{
			LocationID: loc.ID,
			ServiceID:  serviceGrooming,
			Span:       span(t, mondayAt(12, 0), mondayAt(12, 30)),
		})
		require.NoError(t, err)
		assert.Equal(t, staffB.ID, got.Staff.ID)
	})
}

func TestAssignRanking(t *testing.T) {
	tests := map[string]struct {
		ratingA *float64
		ratingB *float64
		loadA   int // committed minutes before the request
		loadB   int
		want    string // "A" or "B"
	}{
		"lower workload wins over higher rating": {ratingA: ratingOf(3.0), ratingB: ratingOf(5.0), loadA: 0, loadB: 120, want: "A"},
		"equal workload falls back to rating":    {ratingA: ratingOf(4.0), ratingB: ratingOf(4.5), loadA: 60, loadB: 60, want: "B"},
		"unset rating counts as the default 4.0": {ratingA: nil, ratingB: ratingOf(3.9), loadA: 0, loadB: 0, want: "A"},
		"full tie breaks on lowest staff ID":     {ratingA: ratingOf(4.2), ratingB: ratingOf(4.2), loadA: 60, loadB: 60, want: "A"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := newMemStore()
			loc := openClinic(s)
			staffA := s.addStaff("Alice Park", tc.ratingA, serviceGrooming)
			staffB := s.addStaff("Ben Osei", tc.ratingB, serviceGrooming)
			employ(s, staffA, loc)
			employ(s, staffB, loc)
			if tc.loadA > 0 {
				s.addCommitment(staffA.ID, loc.ID, serviceGrooming, span(t, mondayAt(9, 0), mondayAt(9, 0).Add(time.Duration(tc.loadA)*time.Minute)), domain.CommitmentConfirmed)
			}
			if tc.loadB > 0 {
				s.addCommitment(staffB.ID, loc.ID, serviceGrooming, span(t, mondayAt(9, 0), mondayAt(9, 0).Add(time.Duration(tc.loadB)*time.Minute)), domain.CommitmentConfirmed)
			}

			engine := allocator.New(s, discardLogger())
			got, err := engine.Assign(context.Background(), allocator.Request{
				LocationID: loc.ID,
				ServiceID:  serviceGrooming,
				Span:       span(t, mondayAt(14, 0), mondayAt(15, 0)),
			})
			require.NoError(t, err)

			want := staffA.ID
			if tc.want == "B" {
				want = staffB.ID
			}
			assert.Equal(t, want, got.Staff.ID)
		})
	}
}

func TestAssignDeterministicOnRepeatedCalls(t *testing.T) {
	pick := func() int64 {
		s := newMemStore()
		loc := openClinic(s)
		staffA := s.addStaff("Alice Park", ratingOf(4.2), serviceGrooming)
		staffB := s.addStaff("Ben Osei", ratingOf(4.2), serviceGrooming)
		employ(s, staffA, loc)
		employ(s, staffB, loc)

		engine := allocator.New(s, discardLogger())
		got, err := engine.Assign(context.Background(), allocator.Request{
			LocationID: loc.ID,
			ServiceID:  serviceGrooming,
			Span:       span(t, mondayAt(10, 0), mondayAt(11, 0)),
		})
		require.NoError(t, err)
		return got.Staff.ID
	}

	first := pick()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, pick(), "identical inputs must always choose the same staff member")
	}
}

func TestAssignFailClosedWithoutPattern(t *testing.T) {
	s := newMemStore()
	loc := s.addLocation("Riverside Clinic", "UTC") // no pattern rows at all
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)

	engine := allocator.New(s, discardLogger())
	_, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(10, 0), mondayAt(11, 0)),
	})
	assert.ErrorIs(t, err, allocator.ErrConfigurationMissing)
}

func TestAssignClosedWeekday(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s) // Mondays only
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)

	tuesday := mondayAt(10, 0).AddDate(0, 0, 1)
	engine := allocator.New(s, discardLogger())
	_, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, tuesday, tuesday.Add(time.Hour)),
	})
	assert.ErrorIs(t, err, allocator.ErrConfigurationMissing)
}

func TestAbsenceOverridesPattern(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)
	s.addAbsence(domain.Absence{
		StaffID:   staff.ID,
		Type:      domain.AbsenceVacation,
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 4),
		Approved:  true,
	})

	engine := allocator.New(s, discardLogger())
	_, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(10, 0), mondayAt(11, 0)),
	})
	assert.ErrorIs(t, err, allocator.ErrNoAvailableStaff, "full-day vacation must block the whole day")
}

func TestPartialDayAbsenceBlocksOnlyOverlap(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)
	from, to := "13:00:00", "17:00:00"
	s.addAbsence(domain.Absence{
		StaffID:   staff.ID,
		Type:      domain.AbsenceDayOff,
		StartDate: monday,
		EndDate:   monday,
		StartTime: &from,
		EndTime:   &to,
		Approved:  true,
	})

	engine := allocator.New(s, discardLogger())

	got, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(9, 0), mondayAt(10, 0)),
	})
	require.NoError(t, err, "morning is outside the absence")
	assert.Equal(t, staff.ID, got.Staff.ID)

	_, err = engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(14, 0), mondayAt(15, 0)),
	})
	assert.ErrorIs(t, err, allocator.ErrNoAvailableStaff)
}

func TestBackToBackCommitmentsDoNotConflict(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)
	s.addCommitment(staff.ID, loc.ID, serviceGrooming, span(t, mondayAt(10, 0), mondayAt(11, 0)), domain.CommitmentConfirmed)

	engine := allocator.New(s, discardLogger())
	got, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(11, 0), mondayAt(12, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.Staff.ID)
}

func TestCancelledCommitmentsAreIgnored(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)
	s.addCommitment(staff.ID, loc.ID, serviceGrooming, span(t, mondayAt(10, 0), mondayAt(11, 0)), domain.CommitmentCancelled)

	engine := allocator.New(s, discardLogger())
	got, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(10, 0), mondayAt(11, 0)),
	})
	require.NoError(t, err)

	workload, err := engine.WorkloadMinutes(context.Background(), staff.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, got.Commitment.EndTime.Sub(got.Commitment.StartTime), time.Hour)
	assert.Equal(t, int64(60), workload, "cancelled commitments must not count toward workload")
}

func TestCandidatePoolFiltering(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	other := s.addLocation("Harbor Branch", "UTC")
	s.addPatternDay(other.ID, time.Monday, "09:00:00", "17:00:00")

	capable := s.addStaff("Alice Park", nil, serviceGrooming)
	wrongService := s.addStaff("Ben Osei", nil, serviceGrooming+1)
	elsewhere := s.addStaff("Cara Diaz", nil, serviceGrooming)
	ended := s.addStaff("Dan Engel", nil, serviceGrooming)
	inactive := s.addStaff("Eve Faro", nil, serviceGrooming)
	inactive.IsActive = false

	employ(s, capable, loc)
	employ(s, wrongService, loc)
	employ(s, elsewhere, other)
	endDate := monday.AddDate(0, -1, 0)
	s.addEmployment(ended.ID, loc.ID, monday.AddDate(-1, 0, 0), &endDate)
	employ(s, inactive, loc)

	engine := allocator.New(s, discardLogger())
	got, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(10, 0), mondayAt(11, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, capable.ID, got.Staff.ID)
}

func TestAssignRetriesOnCommitRace(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	staffA := s.addStaff("Alice Park", ratingOf(5.0), serviceGrooming)
	staffB := s.addStaff("Ben Osei", ratingOf(4.0), serviceGrooming)
	employ(s, staffA, loc)
	employ(s, staffB, loc)

	// The first commit attempt loses a race; the engine must fall back to
	// the next candidate instead of failing the request.
	races := 1
	s.createHook = func(c *domain.Commitment) error {
		if races > 0 {
			races--
			return domain.ErrCommitmentOverlap
		}
		return nil
	}

	engine := allocator.New(s, discardLogger())
	got, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(10, 0), mondayAt(11, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, staffB.ID, got.Staff.ID)
}

func TestAssignRaceExhausted(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	for _, name := range []string{"Alice Park", "Ben Osei", "Cara Diaz", "Dan Engel"} {
		st := s.addStaff(name, nil, serviceGrooming)
		employ(s, st, loc)
	}

	attempts := 0
	s.createHook = func(c *domain.Commitment) error {
		attempts++
		return domain.ErrCommitmentOverlap
	}

	engine := allocator.New(s, discardLogger())
	_, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(10, 0), mondayAt(11, 0)),
	})
	assert.ErrorIs(t, err, allocator.ErrAssignmentRaceExhausted)
	assert.Equal(t, 3, attempts, "retry bound must be respected")
}

func TestNoDoubleBookingUnderConcurrentAssignments(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	for _, name := range []string{"Alice Park", "Ben Osei", "Cara Diaz"} {
		st := s.addStaff(name, nil, serviceGrooming)
		employ(s, st, loc)
	}

	engine := allocator.New(s, discardLogger())

	const attempts = 1000
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// All requests target the same contended hour.
			_, err := engine.Assign(context.Background(), allocator.Request{
				LocationID: loc.ID,
				ServiceID:  serviceGrooming,
				Span:       span(t, mondayAt(10, 0), mondayAt(11, 0)),
			})
			if err != nil {
				return
			}
			mu.Lock()
			successes++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, successes, 3, "at most one winner per staff member")
	assert.Greater(t, successes, 0)

	// The invariant itself: no staff member holds two overlapping
	// non-terminal commitments.
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.commitments {
		for _, b := range s.commitments[i+1:] {
			if a.StaffID != b.StaffID || a.Status.Terminal() || b.Status.Terminal() {
				continue
			}
			overlap := a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
			assert.Falsef(t, overlap, "staff %d double-booked: [%s,%s) and [%s,%s)",
				a.StaffID, a.StartTime, a.EndTime, b.StartTime, b.EndTime)
		}
	}
}

func TestWorkloadMinutes(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)

	s.addCommitment(staff.ID, loc.ID, serviceGrooming, span(t, mondayAt(9, 0), mondayAt(10, 30)), domain.CommitmentConfirmed)
	s.addCommitment(staff.ID, loc.ID, serviceGrooming, span(t, mondayAt(14, 0), mondayAt(14, 45)), domain.CommitmentPending)
	s.addCommitment(staff.ID, loc.ID, serviceGrooming, span(t, mondayAt(15, 0), mondayAt(16, 0)), domain.CommitmentCancelled)
	// Different date, must not count.
	s.addCommitment(staff.ID, loc.ID, serviceGrooming,
		span(t, mondayAt(9, 0).AddDate(0, 0, 7), mondayAt(10, 0).AddDate(0, 0, 7)), domain.CommitmentConfirmed)

	engine := allocator.New(s, discardLogger())
	got, err := engine.WorkloadMinutes(context.Background(), staff.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(90+45), got)
}

func TestHasConflictExcludesCommitment(t *testing.T) {
	s := newMemStore()
	loc := openClinic(s)
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)
	existing := s.addCommitment(staff.ID, loc.ID, serviceGrooming, span(t, mondayAt(10, 0), mondayAt(11, 0)), domain.CommitmentConfirmed)

	engine := allocator.New(s, discardLogger())

	conflicted, err := engine.HasConflict(context.Background(), staff.ID, span(t, mondayAt(10, 30), mondayAt(11, 30)), 0)
	require.NoError(t, err)
	assert.True(t, conflicted)

	// Rescheduling re-checks against everything but the commitment itself.
	conflicted, err = engine.HasConflict(context.Background(), staff.ID, span(t, mondayAt(10, 30), mondayAt(11, 30)), existing.ID)
	require.NoError(t, err)
	assert.False(t, conflicted)
}

func TestAssignAcrossTimezones(t *testing.T) {
	// The clinic keeps 09:00-17:00 local (America/New_York, UTC-5 on this
	// date); requests arrive as absolute instants.
	s := newMemStore()
	loc := s.addLocation("Riverside Clinic", "America/New_York")
	s.addPatternDay(loc.ID, time.Monday, "09:00:00", "17:00:00")
	staff := s.addStaff("Alice Park", nil, serviceGrooming)
	employ(s, staff, loc)

	engine := allocator.New(s, discardLogger())

	// 14:00 UTC == 09:00 local: inside the pattern.
	got, err := engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(14, 0), mondayAt(15, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.Staff.ID)

	// 13:00 UTC == 08:00 local: before opening.
	_, err = engine.Assign(context.Background(), allocator.Request{
		LocationID: loc.ID,
		ServiceID:  serviceGrooming,
		Span:       span(t, mondayAt(13, 0), mondayAt(13, 30)),
	})
	assert.ErrorIs(t, err, allocator.ErrNoAvailableStaff)
}
