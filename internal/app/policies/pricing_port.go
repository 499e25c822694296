package policies

import (
	"context"

	domainboats "seaberth/internal/domain/boats"
	domainpricing "seaberth/internal/domain/pricing"
	domainrange "seaberth/internal/domain/shared/daterange"
)

// PricingPort quotes a rental for booking handlers without binding them to a
// concrete calculator.
type PricingPort interface {
	Quote(ctx context.Context, boat *domainboats.Boat, dr domainrange.DateRange) (domainpricing.Breakdown, error)
}
