package me

import (
	"context"
	"errors"

	"seaberth/internal/app/dto"
	"seaberth/internal/app/handlers/support"
	"seaberth/internal/app/queries"
	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainreviews "seaberth/internal/domain/reviews"
)

const myBookingsKey = "me.bookings"

// MyBookingsQuery lists the current user's bookings, newest first, with a
// can_review hint on completed rentals the user has not reviewed yet.
type MyBookingsQuery struct {
	RenterID string
}

func (q MyBookingsQuery) Key() string { return myBookingsKey }

type MyBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *MyBookingsHandler) Handle(ctx context.Context, query MyBookingsQuery) (dto.BookingCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByRenter(execCtx, query.RenterID)
	if err != nil {
		return dto.BookingCollection{}, err
	}

	out := dto.BookingCollection{Items: make([]dto.Booking, 0, len(bookings))}
	for _, b := range bookings {
		boat, err := unit.Boats().ByID(execCtx, b.BoatID)
		if err != nil && !errors.Is(err, domainboats.ErrNotFound) {
			return dto.BookingCollection{}, err
		}
		item := dto.MapBooking(b, boat)
		item.CanReview, err = canReview(execCtx, unit, b.RenterID, b.BoatID, b.Status == domainbooking.StatusCompleted)
		if err != nil {
			return dto.BookingCollection{}, err
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func canReview(ctx context.Context, unit uow.UnitOfWork, authorID string, boatID domainboats.BoatID, finished bool) (bool, error) {
	if !finished {
		return false, nil
	}
	existing, err := unit.Reviews().ByAuthorAndBoat(ctx, authorID, boatID)
	if err != nil {
		if errors.Is(err, domainreviews.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return existing == nil, nil
}

var _ queries.Handler[MyBookingsQuery, dto.BookingCollection] = (*MyBookingsHandler)(nil)
