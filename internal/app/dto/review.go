package dto

import (
	"time"

	domainreviews "seaberth/internal/domain/reviews"
)

// Review represents a public review payload.
type Review struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	BoatID    string    `json:"boat_id"`
	BookingID string    `json:"booking_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Helpful   int64     `json:"helpful"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewPage struct {
	Items   []Review `json:"items"`
	Total   int      `json:"total"`
	Average float64  `json:"average_rating"`
}

func MapReview(review *domainreviews.Review) Review {
	if review == nil {
		return Review{}
	}
	return Review{
		ID:        string(review.ID),
		AuthorID:  review.AuthorID,
		BoatID:    string(review.BoatID),
		BookingID: string(review.BookingID),
		Rating:    review.Rating,
		Comment:   review.Comment,
		Helpful:   review.Helpful,
		CreatedAt: review.CreatedAt,
	}
}
