package reviews

import (
	"context"
	"time"

	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
)

// recalcBoatRating refreshes the rating denormalized on the boat record from
// the review store's one-decimal average.
func recalcBoatRating(ctx context.Context, unit uow.UnitOfWork, boatID domainboats.BoatID, now time.Time) error {
	average, err := unit.Reviews().AverageRating(ctx, boatID)
	if err != nil {
		return err
	}
	boat, err := unit.Boats().ByID(ctx, boatID)
	if err != nil {
		return err
	}
	boat.UpdateRating(average, now)
	return unit.Boats().Save(ctx, boat)
}
