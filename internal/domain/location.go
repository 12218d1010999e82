package domain

import "time"

type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// PatternDay is one open interval of a location's weekly schedule pattern.
// A weekday may carry several rows (split shifts); a weekday without rows
// means the location is closed that day.
type PatternDay struct {
	ID         int64  `json:"id"`
	LocationID int64  `json:"locationID"`
	Weekday    int32  `json:"weekday"`   // time.Weekday numbering, 0 = Sunday
	StartTime  string `json:"startTime"` // "09:00:00", local to the location's timezone
	EndTime    string `json:"endTime"`
}
