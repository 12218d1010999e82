package domain

// StaffingRequirement is a soft, per-location headcount target for a service
// inside a weekly time band. It orders batch planning runs and feeds coverage
// reporting; it never rejects an individual assignment.
type StaffingRequirement struct {
	ID            int64  `json:"id"`
	LocationID    int64  `json:"locationID"`
	ServiceID     int64  `json:"serviceID"`
	Weekday       int32  `json:"weekday"` // time.Weekday numbering, 0 = Sunday
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	RequiredCount int32  `json:"requiredCount"`
	Priority      int32  `json:"priority"` // higher schedules first in batch runs
	IsActive      bool   `json:"isActive"`
}
