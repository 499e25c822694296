package reviews

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"seaberth/internal/domain/boats"
	"seaberth/internal/domain/booking"
	"seaberth/internal/domain/shared/events"
)

const (
	MinCommentLength = 10
	MaxCommentLength = 1000
)

var (
	ErrNotFound         = errors.New("reviews: not found")
	ErrInvalidRating    = errors.New("reviews: rating must be between 1 and 5")
	ErrCommentLength    = errors.New("reviews: comment must be 10 to 1000 characters")
	ErrDuplicate        = errors.New("reviews: author already reviewed this boat")
	ErrBookingOwnership = errors.New("reviews: booking does not belong to author")
)

type ReviewID string

// Review holds one author's verdict on one boat. At most one review may exist
// per (author, boat) pair; the helpful counter only ever grows.
type Review struct {
	ID        ReviewID
	AuthorID  string
	BoatID    boats.BoatID
	BookingID booking.BookingID // optional
	Rating    int
	Comment   string
	Helpful   int64
	CreatedAt time.Time
	events.EventRecorder
}

type ListParams struct {
	BoatID boats.BoatID
	Rating int // 0 means all ratings
	Page   int // 1-based
	Limit  int
}

type ListResult struct {
	Items []*Review
	Total int
}

func (p ListParams) Normalized() ListParams {
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = 20
	}
	if out.Limit > 100 {
		out.Limit = 100
	}
	if out.Rating < 0 || out.Rating > 5 {
		out.Rating = 0
	}
	return out
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	ByAuthorAndBoat(ctx context.Context, authorID string, boatID boats.BoatID) (*Review, error)
	ListByBoat(ctx context.Context, params ListParams) (ListResult, error)
	// Save persists the review, enforcing the unique (author, boat) pair.
	Save(ctx context.Context, review *Review) error
	// IncrementHelpful atomically adds one to the helpful counter and returns
	// the updated review.
	IncrementHelpful(ctx context.Context, id ReviewID) (*Review, error)
	// AverageRating returns the mean rating for a boat rounded to one decimal
	// place; zero (not an error) when the boat has no reviews.
	AverageRating(ctx context.Context, boatID boats.BoatID) (float64, error)
	Delete(ctx context.Context, id ReviewID) error
	DeleteByAuthorOrBoats(ctx context.Context, authorID string, boatIDs []boats.BoatID) (int64, error)
}

type SubmitParams struct {
	ID        ReviewID
	AuthorID  string
	BoatID    boats.BoatID
	BookingID booking.BookingID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	comment := strings.TrimSpace(params.Comment)
	if n := utf8.RuneCountInString(comment); n < MinCommentLength || n > MaxCommentLength {
		return nil, ErrCommentLength
	}
	if strings.TrimSpace(params.AuthorID) == "" {
		return nil, errors.New("reviews: author id required")
	}
	review := &Review{
		ID:        params.ID,
		AuthorID:  params.AuthorID,
		BoatID:    params.BoatID,
		BookingID: params.BookingID,
		Rating:    params.Rating,
		Comment:   comment,
		CreatedAt: params.CreatedAt.UTC(),
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, BoatID: review.BoatID, AuthorID: review.AuthorID, Rating: review.Rating, At: review.CreatedAt})
	return review, nil
}

// Round1 rounds an average rating to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
