// Package availability decides whether a candidate date range can still be
// booked. Conflicts are derived from active bookings rather than kept in a
// separate block ledger, so the answer can never drift from booking state.
package availability

import (
	"context"

	"seaberth/internal/domain/boats"
	"seaberth/internal/domain/booking"
	"seaberth/internal/domain/shared/daterange"
)

// Checker answers the overlap question for a boat and candidate range.
type Checker interface {
	HasConflict(ctx context.Context, boatID boats.BoatID, dr daterange.DateRange) (bool, error)
}

// BookingChecker evaluates the closed-interval overlap predicate against the
// boat's active bookings.
type BookingChecker struct {
	Bookings booking.Repository
}

func (c BookingChecker) HasConflict(ctx context.Context, boatID boats.BoatID, dr daterange.DateRange) (bool, error) {
	return c.Bookings.HasConflict(ctx, boatID, dr)
}

var _ Checker = BookingChecker{}
