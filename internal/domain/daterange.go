package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date key used for day buckets.
const DateLayout = "2006-01-02"

// DefaultRangeDays is the look-back used when no start date is given.
const DefaultRangeDays = 30

// DateRange is an inclusive range of UTC calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TruncateDay returns midnight UTC of the day t falls on in UTC.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey returns the UTC ISO date of t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DefaultRange returns the last DefaultRangeDays days ending on now.
func DefaultRange(now time.Time) DateRange {
	end := TruncateDay(now)
	return DateRange{Start: end.AddDate(0, 0, -DefaultRangeDays), End: end}
}

// ParseDateRange parses ISO dates. Empty values fall back to DefaultRange.
func ParseDateRange(start, end string, now time.Time) (DateRange, error) {
	r := DefaultRange(now)

	if end != "" {
		t, err := time.Parse(DateLayout, end)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: end %q", ErrInvalidDateRange, end)
		}
		r.End = t
		if start == "" {
			r.Start = t.AddDate(0, 0, -DefaultRangeDays)
		}
	}

	if start != "" {
		t, err := time.Parse(DateLayout, start)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: start %q", ErrInvalidDateRange, start)
		}
		r.Start = t
	}

	return r, nil
}

// Key returns a stable identifier for cache keys and snapshot names.
func (r DateRange) Key() string {
	return DayKey(r.Start) + "_" + DayKey(r.End)
}

// UpperBound returns the exclusive upper bound for timestamp queries.
func (r DateRange) UpperBound() time.Time {
	return TruncateDay(r.End).AddDate(0, 0, 1)
}
