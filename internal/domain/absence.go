package domain

import "time"

type AbsenceType string

const (
	AbsenceVacation  AbsenceType = "vacation"
	AbsenceSickLeave AbsenceType = "sick_leave"
	AbsenceDayOff    AbsenceType = "day_off"
)

// Absence blocks a staff member's calendar regardless of the location
// pattern. StartTime/EndTime, when set, limit the block to a sub-range of
// each covered day; when nil the whole day is blocked.
type Absence struct {
	ID        int64       `json:"id"`
	StaffID   int64       `json:"staffID"`
	Type      AbsenceType `json:"type"`
	StartDate time.Time   `json:"startDate"`
	EndDate   time.Time   `json:"endDate"` // inclusive; equals StartDate for single-day absences
	StartTime *string     `json:"startTime"`
	EndTime   *string     `json:"endTime"`
	Approved  bool        `json:"approved"`
	Reason    string      `json:"reason"`
	CreatedAt time.Time   `json:"createdAt"`
}

// FullDay reports whether the absence blocks entire days.
func (a *Absence) FullDay() bool {
	return a.StartTime == nil || a.EndTime == nil
}
