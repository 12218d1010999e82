package allocator

import (
	"context"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

// Store is the engine's view of persistent state. The repository implements
// it against Postgres; tests implement it in memory. All read methods are
// advisory; CreateCommitment is the only write and must re-validate
// non-overlap atomically, returning domain.ErrCommitmentOverlap when a
// concurrent writer got there first.
type Store interface {
	LocationByID(ctx context.Context, id int64) (*domain.Location, error)

	// CandidateStaff returns active staff members with an employment at the
	// location in force on the given date and the service in their
	// capability set.
	CandidateStaff(ctx context.Context, locationID, serviceID int64, day time.Time) ([]*domain.StaffMember, error)

	PatternDays(ctx context.Context, locationID int64, weekday time.Weekday) ([]*domain.PatternDay, error)
	StaffingRequirements(ctx context.Context, locationID int64, weekday time.Weekday) ([]*domain.StaffingRequirement, error)
	ApprovedAbsences(ctx context.Context, staffID int64, day time.Time) ([]*domain.Absence, error)

	// CommitmentsInRange returns the staff member's non-terminal commitments
	// intersecting [from, to), except the one with excludeID (0 for none).
	CommitmentsInRange(ctx context.Context, staffID int64, from, to time.Time, excludeID int64) ([]*domain.Commitment, error)

	// CommittedStaffCount counts distinct staff members with a non-terminal
	// commitment for the service at the location intersecting [from, to).
	CommittedStaffCount(ctx context.Context, locationID, serviceID int64, from, to time.Time) (int, error)

	CreateCommitment(ctx context.Context, c *domain.Commitment) error
}
