package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaberth/internal/infra/storage/memory"

	domainavailability "seaberth/internal/domain/availability"
	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainpricing "seaberth/internal/domain/pricing"
	"seaberth/internal/domain/shared/money"
)

type createBookingEnv struct {
	boats    *memory.BoatRepository
	bookings *memory.BookingRepository
	outbox   *memory.Outbox
	handler  *CreateBookingHandler
}

func newCreateBookingEnv(t *testing.T) *createBookingEnv {
	t.Helper()
	env := &createBookingEnv{
		boats:    memory.NewBoatRepository(),
		bookings: memory.NewBookingRepository(),
		outbox:   memory.NewOutbox(),
	}
	factory := memory.Factory{
		BoatRepo:     env.boats,
		BookingRepo:  env.bookings,
		ReviewRepo:   memory.NewReviewRepository(),
		FavoriteRepo: memory.NewFavoriteRepository(),
		UserRepo:     memory.NewUserRepository(),
	}
	env.handler = &CreateBookingHandler{
		UoWFactory: factory,
		Guard:      domainavailability.NewGuard(),
		Pricing:    domainpricing.StandardCalculator{},
		Outbox:     env.outbox,
	}
	return env
}

func (e *createBookingEnv) seedBoat(t *testing.T, id string) *domainboats.Boat {
	t.Helper()
	boat, err := domainboats.NewBoat(domainboats.CreateParams{
		ID:           domainboats.BoatID(id),
		OwnerID:      "owner-1",
		Name:         "Test Boat " + id,
		Type:         domainboats.TypeSailboat,
		LengthMeters: 12,
		Capacity:     6,
		DailyRate:    money.Must(15000, "EUR"),
		Location:     "Split",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	boat.ClearEvents()
	require.NoError(t, e.boats.Save(context.Background(), boat))
	return boat
}

func futureDay(daysAhead int) time.Time {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Truncate(24 * time.Hour)
}

func TestCreateBookingQuotesAndStoresPending(t *testing.T) {
	env := newCreateBookingEnv(t)
	env.seedBoat(t, "boat-1")

	result, err := env.handler.Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		BoatID:    "boat-1",
		RenterID:  "renter-1",
		StartDate: futureDay(10),
		EndDate:   futureDay(15),
		Guests:    4,
	})
	require.NoError(t, err)

	assert.Equal(t, "bk-1", result.BookingID)
	assert.Equal(t, 5, result.Days)
	assert.Equal(t, int64(75000), result.Total)
	assert.Equal(t, "EUR", result.Currency)
	assert.Equal(t, string(domainbooking.StatusPending), result.Status)

	stored, err := env.bookings.ByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, stored.Status)
	assert.Equal(t, int64(75000), stored.Price.Total.Amount)
	assert.Empty(t, stored.PendingEvents())

	records := env.outbox.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "booking.created", records[0].Name)
	assert.Equal(t, "bk-1", records[0].Aggregate)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	env := newCreateBookingEnv(t)
	env.seedBoat(t, "boat-1")

	_, err := env.handler.Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		BoatID:    "boat-1",
		RenterID:  "renter-1",
		StartDate: futureDay(10),
		EndDate:   futureDay(15),
		Guests:    2,
	})
	require.NoError(t, err)

	_, err = env.handler.Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-2",
		BoatID:    "boat-1",
		RenterID:  "renter-2",
		StartDate: futureDay(13),
		EndDate:   futureDay(18),
		Guests:    2,
	})
	assert.ErrorIs(t, err, domainbooking.ErrDateConflict)

	// The failed attempt must not leak an event.
	assert.Len(t, env.outbox.Pending(), 1)
}

func TestCreateBookingRequiresFutureStart(t *testing.T) {
	env := newCreateBookingEnv(t)
	env.seedBoat(t, "boat-1")

	_, err := env.handler.Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		BoatID:    "boat-1",
		RenterID:  "renter-1",
		StartDate: futureDay(0),
		EndDate:   futureDay(3),
		Guests:    2,
	})
	assert.ErrorIs(t, err, domainbooking.ErrStartNotFuture)

	_, err = env.handler.Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-2",
		BoatID:    "boat-1",
		RenterID:  "renter-1",
		StartDate: futureDay(-5),
		EndDate:   futureDay(-2),
		Guests:    2,
	})
	assert.ErrorIs(t, err, domainbooking.ErrStartNotFuture)
}

func TestCreateBookingUnknownBoat(t *testing.T) {
	env := newCreateBookingEnv(t)

	_, err := env.handler.Handle(context.Background(), CreateBookingCommand{
		CommandID: "bk-1",
		BoatID:    "boat-missing",
		RenterID:  "renter-1",
		StartDate: futureDay(10),
		EndDate:   futureDay(12),
		Guests:    2,
	})
	assert.ErrorIs(t, err, domainboats.ErrNotFound)
	assert.Empty(t, env.outbox.Pending())
}
