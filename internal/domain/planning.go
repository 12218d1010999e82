package domain

import "time"

// PlanningJobQueue is the durable queue batch planning runs travel through.
const PlanningJobQueue = "planning_jobs"

type PlanningJobRequest struct {
	ServiceID  int64     `json:"serviceID"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	CustomerID *int64    `json:"customerID"`
	Notes      string    `json:"notes"`
}

// PlanningJob asks the planner worker to run the assignment engine for a
// batch of requests against one location.
type PlanningJob struct {
	LocationID int64                `json:"locationID"`
	Requests   []PlanningJobRequest `json:"requests"`
}
