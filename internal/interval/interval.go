package interval

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidInterval is returned when an interval would be empty or inverted.
var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time range [Start, End) on absolute instants.
// Back-to-back intervals do not overlap.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func New(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the two intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether other lies entirely inside iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Minutes returns the interval length in whole minutes. Workload comparisons
// are done on this value so they stay exact.
func (iv Interval) Minutes() int64 {
	return int64(iv.End.Sub(iv.Start) / time.Minute)
}

// Subtract removes every blocked range from the open windows and returns the
// remaining sub-windows ordered by start. Inputs are not modified.
func Subtract(open, blocked []Interval) []Interval {
	out := make([]Interval, 0, len(open))
	for _, w := range open {
		frags := []Interval{w}
		for _, b := range blocked {
			var next []Interval
			for _, f := range frags {
				if !f.Overlaps(b) {
					next = append(next, f)
					continue
				}
				if b.Start.After(f.Start) {
					next = append(next, Interval{Start: f.Start, End: b.Start})
				}
				if b.End.Before(f.End) {
					next = append(next, Interval{Start: b.End, End: f.End})
				}
			}
			frags = next
		}
		out = append(out, frags...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// AnyContains reports whether the requested interval fits entirely inside one
// of the windows.
func AnyContains(windows []Interval, req Interval) bool {
	for _, w := range windows {
		if w.Contains(req) {
			return true
		}
	}
	return false
}
