package reviews

import (
	"context"

	"seaberth/internal/app/dto"
	"seaberth/internal/app/handlers/support"
	"seaberth/internal/app/queries"
	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
	domainreviews "seaberth/internal/domain/reviews"
)

const listReviewsKey = "reviews.list"

// ListReviewsQuery pages through a boat's reviews, optionally filtered to a
// single rating value.
type ListReviewsQuery struct {
	BoatID string
	Rating int
	Page   int
	Limit  int
}

func (q ListReviewsQuery) Key() string { return listReviewsKey }

type ListReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListReviewsHandler) Handle(ctx context.Context, query ListReviewsQuery) (dto.ReviewPage, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewPage{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	boatID := domainboats.BoatID(query.BoatID)
	if _, err := unit.Boats().ByID(execCtx, boatID); err != nil {
		return dto.ReviewPage{}, err
	}

	params := domainreviews.ListParams{
		BoatID: boatID,
		Rating: query.Rating,
		Page:   query.Page,
		Limit:  query.Limit,
	}.Normalized()

	result, err := unit.Reviews().ListByBoat(execCtx, params)
	if err != nil {
		return dto.ReviewPage{}, err
	}
	average, err := unit.Reviews().AverageRating(execCtx, boatID)
	if err != nil {
		return dto.ReviewPage{}, err
	}

	page := dto.ReviewPage{
		Items:   make([]dto.Review, 0, len(result.Items)),
		Total:   result.Total,
		Average: average,
	}
	for _, review := range result.Items {
		page.Items = append(page.Items, dto.MapReview(review))
	}
	return page, nil
}

var _ queries.Handler[ListReviewsQuery, dto.ReviewPage] = (*ListReviewsHandler)(nil)
