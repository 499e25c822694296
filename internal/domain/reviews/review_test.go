package reviews

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitValidReview(t *testing.T) {
	review, err := Submit(SubmitParams{
		ID:        "rev-1",
		AuthorID:  "user-1",
		BoatID:    "boat-1",
		Rating:    5,
		Comment:   "  Fantastic boat, spotless and fast.  ",
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fantastic boat, spotless and fast.", review.Comment)
	assert.Equal(t, int64(0), review.Helpful)

	events := review.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "review.submitted", events[0].EventName())
}

func TestSubmitRatingBounds(t *testing.T) {
	for _, rating := range []int{0, -1, 6} {
		_, err := Submit(SubmitParams{
			ID:       "rev-1",
			AuthorID: "user-1",
			BoatID:   "boat-1",
			Rating:   rating,
			Comment:  "Long enough comment here.",
		})
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
}

func TestSubmitCommentLength(t *testing.T) {
	_, err := Submit(SubmitParams{
		ID:       "rev-1",
		AuthorID: "user-1",
		BoatID:   "boat-1",
		Rating:   4,
		Comment:  "too short",
	})
	assert.ErrorIs(t, err, ErrCommentLength)

	_, err = Submit(SubmitParams{
		ID:       "rev-1",
		AuthorID: "user-1",
		BoatID:   "boat-1",
		Rating:   4,
		Comment:  strings.Repeat("x", MaxCommentLength+1),
	})
	assert.ErrorIs(t, err, ErrCommentLength)
}

func TestRound1(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.333333, 4.3},
		{4.35, 4.4},
		{4.96, 5.0},
		{0, 0},
		{3.666666, 3.7},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Round1(tc.in), 1e-9, "input %f", tc.in)
	}
}
