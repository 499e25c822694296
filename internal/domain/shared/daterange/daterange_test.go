package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewNormalizesToMidnightUTC(t *testing.T) {
	start := time.Date(2026, 12, 5, 15, 30, 45, 0, time.UTC)
	end := time.Date(2026, 12, 8, 9, 1, 0, 0, time.UTC)

	dr, err := New(start, end)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 12, 5), dr.Start)
	assert.Equal(t, day(2026, 12, 8), dr.End)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(day(2026, 12, 8), day(2026, 12, 5))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(day(2026, 12, 5), day(2026, 12, 5))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"three nights", day(2026, 12, 5), day(2026, 12, 8), 3},
		{"single night", day(2026, 12, 5), day(2026, 12, 6), 1},
		{"across month boundary", day(2026, 11, 28), day(2026, 12, 2), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dr := DateRange{Start: tc.start, End: tc.end}
			assert.Equal(t, tc.want, dr.Days())
		})
	}
}

func TestDaysFloorsAtOne(t *testing.T) {
	dr := DateRange{Start: day(2026, 12, 5), End: day(2026, 12, 5)}
	assert.Equal(t, 1, dr.Days())
}

func TestOverlapsClosedInterval(t *testing.T) {
	base := DateRange{Start: day(2026, 12, 5), End: day(2026, 12, 10)}

	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"inside", DateRange{Start: day(2026, 12, 6), End: day(2026, 12, 9)}, true},
		{"partial tail", DateRange{Start: day(2026, 12, 8), End: day(2026, 12, 12)}, true},
		{"boundary contact at end", DateRange{Start: day(2026, 12, 10), End: day(2026, 12, 14)}, true},
		{"boundary contact at start", DateRange{Start: day(2026, 12, 1), End: day(2026, 12, 5)}, true},
		{"strictly before", DateRange{Start: day(2026, 12, 1), End: day(2026, 12, 4)}, false},
		{"strictly after", DateRange{Start: day(2026, 12, 11), End: day(2026, 12, 14)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base))
		})
	}
}

func TestEndedBefore(t *testing.T) {
	dr := DateRange{Start: day(2026, 12, 5), End: day(2026, 12, 10)}

	// The end day still belongs to the rental.
	assert.False(t, dr.EndedBefore(day(2026, 12, 10)))
	assert.False(t, dr.EndedBefore(time.Date(2026, 12, 10, 23, 59, 0, 0, time.UTC)))
	assert.True(t, dr.EndedBefore(day(2026, 12, 11)))
	assert.True(t, dr.EndedBefore(time.Date(2026, 12, 11, 0, 30, 0, 0, time.UTC)))
}

func TestContainsDate(t *testing.T) {
	dr := DateRange{Start: day(2026, 12, 5), End: day(2026, 12, 10)}

	assert.True(t, dr.ContainsDate(day(2026, 12, 5)))
	assert.True(t, dr.ContainsDate(day(2026, 12, 10)))
	assert.True(t, dr.ContainsDate(time.Date(2026, 12, 7, 18, 0, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsDate(day(2026, 12, 4)))
	assert.False(t, dr.ContainsDate(day(2026, 12, 11)))
}
