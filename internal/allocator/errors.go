package allocator

import "errors"

var (
	// ErrNoAvailableStaff means no candidate satisfied capability,
	// availability and non-conflict for the requested interval. Recoverable
	// by the caller (widen the search or suggest another time); never
	// retried here.
	ErrNoAvailableStaff = errors.New("no staff member is available for the requested interval")

	// ErrAssignmentRaceExhausted means repeated commit attempts lost against
	// concurrent writers. Transient; the whole request is safe to retry.
	ErrAssignmentRaceExhausted = errors.New("assignment abandoned after repeated commit conflicts")

	// ErrConfigurationMissing means the location has no schedule pattern for
	// the requested weekday. Treated as closed, not as a hard failure.
	ErrConfigurationMissing = errors.New("location has no schedule pattern for the requested weekday")
)
