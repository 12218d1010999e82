package interval_test

import (
	"testing"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 3, hour, minute, 0, 0, time.UTC)
}

func mustNew(t *testing.T, start, end time.Time) interval.Interval {
	t.Helper()
	iv, err := interval.New(start, end)
	require.NoError(t, err)
	return iv
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		"valid":          {start: at(9, 0), end: at(10, 0), wantErr: false},
		"empty":          {start: at(9, 0), end: at(9, 0), wantErr: true},
		"inverted":       {start: at(10, 0), end: at(9, 0), wantErr: true},
		"one minute":     {start: at(9, 0), end: at(9, 1), wantErr: false},
		"crosses midday": {start: at(11, 30), end: at(13, 0), wantErr: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := interval.New(tc.start, tc.end)
			if tc.wantErr {
				assert.ErrorIs(t, err, interval.ErrInvalidInterval)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := map[string]struct {
		a, b interval.Interval
		want bool
	}{
		"disjoint":            {a: mustNew(t, at(9, 0), at(10, 0)), b: mustNew(t, at(11, 0), at(12, 0)), want: false},
		"back to back":        {a: mustNew(t, at(9, 0), at(10, 0)), b: mustNew(t, at(10, 0), at(11, 0)), want: false},
		"partial overlap":     {a: mustNew(t, at(9, 0), at(10, 30)), b: mustNew(t, at(10, 0), at(11, 0)), want: true},
		"contained":           {a: mustNew(t, at(9, 0), at(12, 0)), b: mustNew(t, at(10, 0), at(11, 0)), want: true},
		"identical":           {a: mustNew(t, at(9, 0), at(10, 0)), b: mustNew(t, at(9, 0), at(10, 0)), want: true},
		"one minute overlap":  {a: mustNew(t, at(9, 0), at(10, 1)), b: mustNew(t, at(10, 0), at(11, 0)), want: true},
		"touching at the end": {a: mustNew(t, at(10, 0), at(11, 0)), b: mustNew(t, at(9, 0), at(10, 0)), want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	outer := mustNew(t, at(9, 0), at(17, 0))

	assert.True(t, outer.Contains(mustNew(t, at(9, 0), at(17, 0))))
	assert.True(t, outer.Contains(mustNew(t, at(10, 0), at(10, 30))))
	assert.False(t, outer.Contains(mustNew(t, at(8, 59), at(10, 0))))
	assert.False(t, outer.Contains(mustNew(t, at(16, 0), at(17, 1))))
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, int64(60), mustNew(t, at(9, 0), at(10, 0)).Minutes())
	assert.Equal(t, int64(90), mustNew(t, at(9, 0), at(10, 30)).Minutes())
	assert.Equal(t, int64(1), mustNew(t, at(9, 0), at(9, 1)).Minutes())
}

func TestSubtract(t *testing.T) {
	tests := map[string]struct {
		open    []interval.Interval
		blocked []interval.Interval
		want    []interval.Interval
	}{
		"no blocks": {
			open: []interval.Interval{mustNew(t, at(9, 0), at(17, 0))},
			want: []interval.Interval{mustNew(t, at(9, 0), at(17, 0))},
		},
		"block in the middle splits the window": {
			open:    []interval.Interval{mustNew(t, at(9, 0), at(17, 0))},
			blocked: []interval.Interval{mustNew(t, at(12, 0), at(13, 0))},
			want: []interval.Interval{
				mustNew(t, at(9, 0), at(12, 0)),
				mustNew(t, at(13, 0), at(17, 0)),
			},
		},
		"block covering the whole window removes it": {
			open:    []interval.Interval{mustNew(t, at(9, 0), at(17, 0))},
			blocked: []interval.Interval{mustNew(t, at(0, 0), at(23, 59))},
			want:    []interval.Interval{},
		},
		"block clipping the start": {
			open:    []interval.Interval{mustNew(t, at(9, 0), at(17, 0))},
			blocked: []interval.Interval{mustNew(t, at(8, 0), at(10, 0))},
			want:    []interval.Interval{mustNew(t, at(10, 0), at(17, 0))},
		},
		"back to back block leaves the window intact": {
			open:    []interval.Interval{mustNew(t, at(9, 0), at(12, 0))},
			blocked: []interval.Interval{mustNew(t, at(12, 0), at(13, 0))},
			want:    []interval.Interval{mustNew(t, at(9, 0), at(12, 0))},
		},
		"multiple windows and blocks": {
			open: []interval.Interval{
				mustNew(t, at(9, 0), at(12, 0)),
				mustNew(t, at(13, 0), at(17, 0)),
			},
			blocked: []interval.Interval{
				mustNew(t, at(10, 0), at(11, 0)),
				mustNew(t, at(16, 30), at(18, 0)),
			},
			want: []interval.Interval{
				mustNew(t, at(9, 0), at(10, 0)),
				mustNew(t, at(11, 0), at(12, 0)),
				mustNew(t, at(13, 0), at(16, 30)),
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := interval.Subtract(tc.open, tc.blocked)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAnyContains(t *testing.T) {
	windows := []interval.Interval{
		mustNew(t, at(9, 0), at(12, 0)),
		mustNew(t, at(13, 0), at(17, 0)),
	}

	assert.True(t, interval.AnyContains(windows, mustNew(t, at(9, 0), at(12, 0))))
	assert.True(t, interval.AnyContains(windows, mustNew(t, at(14, 0), at(15, 0))))
	assert.False(t, interval.AnyContains(windows, mustNew(t, at(11, 0), at(14, 0))), "request spanning the lunch gap must not fit")
	assert.False(t, interval.AnyContains(nil, mustNew(t, at(9, 0), at(10, 0))))
}
