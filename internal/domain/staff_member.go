package domain

import "time"

// DefaultRating is used for ranking when a staff member has no recorded rating.
const DefaultRating = 4.0

type StaffMember struct {
	ID          int64        `json:"id"`
	FullName    string       `json:"fullName"`
	Email       string       `json:"email"`
	Rating      *float64     `json:"rating"`
	IsActive    bool         `json:"isActive"`
	ServiceIDs  []int64      `json:"serviceIDs"`
	Employments []Employment `json:"employments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	Version     int32        `json:"-"`
}

// EffectiveRating falls back to DefaultRating when no rating is recorded.
func (s *StaffMember) EffectiveRating() float64 {
	if s.Rating == nil {
		return DefaultRating
	}
	return *s.Rating
}

// CanPerform reports whether the service is in the capability set.
func (s *StaffMember) CanPerform(serviceID int64) bool {
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

type Employment struct {
	ID         int64      `json:"id"`
	StaffID    int64      `json:"staffID"`
	LocationID int64      `json:"locationID"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ActiveOn reports whether the employment is in force on the given date.
// An employment without an end date never expires.
func (e *Employment) ActiveOn(day time.Time) bool {
	y, m, d := day.Date()
	sy, sm, sd := e.StartDate.Date()
	if time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Before(time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)) {
		return false
	}
	if e.EndDate == nil {
		return true
	}
	ey, em, ed := e.EndDate.Date()
	return !time.Date(y, m, d, 0, 0, 0, 0, time.UTC).After(time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC))
}
