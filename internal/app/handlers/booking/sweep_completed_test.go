package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaberth/internal/infra/storage/memory"

	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainpricing "seaberth/internal/domain/pricing"
	domainrange "seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
)

func seedBookingAt(t *testing.T, repo *memory.BookingRepository, id, boatID string, start, end time.Time) {
	t.Helper()
	dr, err := domainrange.New(start, end)
	require.NoError(t, err)
	price, err := domainpricing.Quote(money.Must(15000, "EUR"), dr)
	require.NoError(t, err)
	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		RenterID:  "renter-" + id,
		BoatID:    domainboats.BoatID(boatID),
		Range:     dr,
		Guests:    2,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	booking.ClearEvents()
	require.NoError(t, repo.CreateIfAvailable(context.Background(), booking))
}

func TestSweepCompletedPromotesPastBookings(t *testing.T) {
	bookings := memory.NewBookingRepository()
	box := memory.NewOutbox()
	handler := &SweepCompletedHandler{
		UoWFactory: memory.Factory{
			BoatRepo:     memory.NewBoatRepository(),
			BookingRepo:  bookings,
			ReviewRepo:   memory.NewReviewRepository(),
			FavoriteRepo: memory.NewFavoriteRepository(),
			UserRepo:     memory.NewUserRepository(),
		},
		Outbox: box,
	}
	ctx := context.Background()

	seedBookingAt(t, bookings, "bk-past", "boat-1",
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	seedBookingAt(t, bookings, "bk-ongoing", "boat-2",
		time.Date(2026, 5, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC))

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	result, err := handler.Handle(ctx, SweepCompletedCommand{Now: now})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Updated)

	swept, err := bookings.ByID(ctx, "bk-past")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCompleted, swept.Status)

	ongoing, err := bookings.ByID(ctx, "bk-ongoing")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, ongoing.Status)

	records := box.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "booking.swept", records[0].Name)

	// A second run finds nothing left to promote and emits no event.
	result, err = handler.Handle(ctx, SweepCompletedCommand{Now: now})
	require.NoError(t, err)
	assert.Zero(t, result.Updated)
	assert.Len(t, box.Pending(), 1)
}
