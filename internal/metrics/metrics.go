// Package metrics provides Prometheus observability metrics for the
// allocation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// AssignmentsTotal counts successfully committed assignments.
var AssignmentsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocator",
	Name:      "assignments_total",
	Help:      "Total number of successfully committed staff assignments",
})

// NoAvailableStaffTotal counts assignment requests that found no candidate.
var NoAvailableStaffTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocator",
	Name:      "no_available_staff_total",
	Help:      "Total number of assignment requests rejected because no staff member was available",
})

// CommitConflictsTotal counts commit attempts rejected by a concurrent
// overlapping commitment. A nonzero rate is normal under load; a high rate
// indicates contention on few staff members.
var CommitConflictsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocator",
	Name:      "commit_conflicts_total",
	Help:      "Total number of atomic commit attempts rejected by a concurrent overlapping commitment",
})

// RaceExhaustedTotal counts assignment requests that gave up after the retry
// bound.
var RaceExhaustedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocator",
	Name:      "race_exhausted_total",
	Help:      "Total number of assignment requests that exhausted their commit retries",
})

// MissingPatternTotal counts requests against a location/weekday with no
// schedule pattern configured. Usually indicates incomplete setup.
var MissingPatternTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocator",
	Name:      "missing_pattern_total",
	Help:      "Total number of requests treated as closed because the location has no schedule pattern for the weekday",
})

// PlanningJobsTotal counts batch planning jobs processed by the planner
// worker.
var PlanningJobsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "allocator",
	Name:      "planning_jobs_total",
	Help:      "Total number of batch planning jobs processed",
})
