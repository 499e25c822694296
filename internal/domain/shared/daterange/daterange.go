package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: end must be after start")

// DateRange is a closed interval [Start, End] of rental days. Both bounds are
// normalized to midnight UTC, so time-of-day on the inputs never influences
// the billable-day count. Two ranges that merely share a boundary day still
// overlap: same-day turnover of a boat is not allowed.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: Normalize(start), End: Normalize(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Normalize strips the time-of-day component, anchoring t at midnight UTC.
func Normalize(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the billable day count: the ceiling of the span in days with a
// floor of one, so a degenerate same-day range is still billed for a day.
func (dr DateRange) Days() int {
	days := int((dr.End.Sub(dr.Start) + 24*time.Hour - 1) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

// Overlaps evaluates the closed-interval predicate s1 <= e2 && e1 >= s2.
// Boundary contact counts as a conflict.
func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.Start.After(other.End) && !other.Start.After(dr.End)
}

// EndedBefore reports whether the whole range lies strictly before the day of
// t. The end day itself still belongs to the rental.
func (dr DateRange) EndedBefore(t time.Time) bool {
	return dr.End.Before(Normalize(t))
}

// ContainsDate reports whether the given day falls inside the range.
func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Normalize(t)
	return !t.Before(dr.Start) && !t.After(dr.End)
}
