package domain

import (
	"errors"
	"time"
)

type CommitmentStatus string

const (
	CommitmentPending   CommitmentStatus = "pending"
	CommitmentConfirmed CommitmentStatus = "confirmed"
	CommitmentCancelled CommitmentStatus = "cancelled"
	CommitmentCompleted CommitmentStatus = "completed"
)

// Terminal statuses are excluded from conflict checks and workload sums but
// kept for history.
func (s CommitmentStatus) Terminal() bool {
	return s == CommitmentCancelled || s == CommitmentCompleted
}

// ErrCommitmentOverlap is returned by the commitment store when an insert
// would overlap an existing non-terminal commitment for the same staff
// member.
var ErrCommitmentOverlap = errors.New("commitment overlaps an existing commitment for this staff member")

// Commitment is a time-bounded claim on a staff member's calendar: a booking
// or a held slot.
type Commitment struct {
	ID         int64            `json:"id"`
	Reference  string           `json:"reference"`
	StaffID    int64            `json:"staffID"`
	LocationID int64            `json:"locationID"`
	ServiceID  int64            `json:"serviceID"`
	CustomerID *int64           `json:"customerID"`
	StartTime  time.Time        `json:"startTime"`
	EndTime    time.Time        `json:"endTime"`
	Status     CommitmentStatus `json:"status"`
	Notes      string           `json:"notes"`
	CreatedAt  time.Time        `json:"createdAt"`
	Version    int32            `json:"-"`
}
