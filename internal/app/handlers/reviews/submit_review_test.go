package reviews

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
	domainreviews "seaberth/internal/domain/reviews"
	domainrange "seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
)

type reviewEnv struct {
	boats    *memory.BoatRepository
	bookings *memory.BookingRepository
	reviews  *memory.ReviewRepository
	outbox   *memory.Outbox
	handler  *SubmitReviewHandler
}

func newReviewEnv(t *testing.T) *reviewEnv {
	t.Helper()
	env := &reviewEnv{
		boats:    memory.NewBoatRepository(),
		bookings: memory.NewBookingRepository(),
		reviews:  memory.NewReviewRepository(),
		outbox:   memory.NewOutbox(),
	}
	factory := memory.Factory{
		BoatRepo:     env.boats,
		BookingRepo:  env.bookings,
		ReviewRepo:   env.reviews,
		FavoriteRepo: memory.NewFavoriteRepository(),
		UserRepo:     memory.NewUserRepository(),
	}
	env.handler = &SubmitReviewHandler{
		UoWFactory: factory,
		Outbox:     env.outbox,
	}
	return env
}

func (e *reviewEnv) seedBoat(t *testing.T, id string) *domainboats.Boat {
	t.Helper()
	boat, err := domainboats.NewBoat(domainboats.CreateParams{
		ID:           domainboats.BoatID(id),
		OwnerID:      "owner-1",
		Name:         "Review Target " + id,
		Type:         domainboats.TypeMotorboat,
		LengthMeters: 9,
		Capacity:     4,
		DailyRate:    money.Must(12000, "EUR"),
		Location:     "Hvar",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	boat.ClearEvents()
	require.NoError(t, e.boats.Save(context.Background(), boat))
	return boat
}

func (e *reviewEnv) seedBooking(t *testing.T, id, renterID string, boatID domainboats.BoatID) {
	t.Helper()
	dr, err := domainrange.New(
		time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	price, err := domainpricing.Quote(money.Must(12000, "EUR"), dr)
	require.NoError(t, err)
	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		RenterID:  renterID,
		BoatID:    boatID,
		Range:     dr,
		Guests:    2,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	booking.ClearEvents()
	require.NoError(t, e.bookings.CreateIfAvailable(context.Background(), booking))
}

func TestSubmitReviewStoresAndRefreshesRating(t *testing.T) {
	env := newReviewEnv(t)
	env.seedBoat(t, "boat-1")
	ctx := context.Background()

	first, err := env.handler.Handle(ctx, SubmitReviewCommand{
		BoatID:   "boat-1",
		AuthorID: "user-1",
		Rating:   5,
		Comment:  "Spotless deck and a responsive owner.",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, first.Rating)
	assert.Equal(t, "boat-1", first.BoatID)
	assert.NotEmpty(t, first.ID)

	_, err = env.handler.Handle(ctx, SubmitReviewCommand{
		BoatID:   "boat-1",
		AuthorID: "user-2",
		Rating:   4,
		Comment:  "Good trip, engine a little loud.",
	})
	require.NoError(t, err)

	boat, err := env.boats.ByID(ctx, "boat-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, boat.Rating, 1e-9)

	records := env.outbox.Pending()
	require.Len(t, records, 2)
	assert.Equal(t, "review.submitted", records[0].Name)
}

func TestSubmitReviewOnePerAuthorAndBoat(t *testing.T) {
	env := newReviewEnv(t)
	env.seedBoat(t, "boat-1")
	ctx := context.Background()

	_, err := env.handler.Handle(ctx, SubmitReviewCommand{
		BoatID:   "boat-1",
		AuthorID: "user-1",
		Rating:   5,
		Comment:  "Spotless deck and a responsive owner.",
	})
	require.NoError(t, err)

	_, err = env.handler.Handle(ctx, SubmitReviewCommand{
		BoatID:   "boat-1",
		AuthorID: "user-1",
		Rating:   2,
		Comment:  "On reflection the deck was not spotless.",
	})
	assert.ErrorIs(t, err, domainreviews.ErrDuplicate)
}

func TestSubmitReviewBookingMustBelongToAuthor(t *testing.T) {
	env := newReviewEnv(t)
	env.seedBoat(t, "boat-1")
	env.seedBooking(t, "bk-1", "someone-else", "boat-1")
	ctx := context.Background()

	_, err := env.handler.Handle(ctx, SubmitReviewCommand{
		BoatID:    "boat-1",
		AuthorID:  "user-1",
		BookingID: "bk-1",
		Rating:    5,
		Comment:   "Trying to review from another renter's trip.",
	})
	assert.ErrorIs(t, err, domainreviews.ErrBookingOwnership)
}

func TestSubmitReviewBookingMustMatchBoat(t *testing.T) {
	env := newReviewEnv(t)
	env.seedBoat(t, "boat-1")
	env.seedBoat(t, "boat-2")
	env.seedBooking(t, "bk-1", "user-1", "boat-2")
	ctx := context.Background()

	_, err := env.handler.Handle(ctx, SubmitReviewCommand{
		BoatID:    "boat-1",
		AuthorID:  "user-1",
		BookingID: "bk-1",
		Rating:    4,
		Comment:   "The booking was for a different boat.",
	})
	assert.ErrorIs(t, err, domainreviews.ErrBookingOwnership)
}

func TestSubmitReviewUnknownBoat(t *testing.T) {
	env := newReviewEnv(t)

	_, err := env.handler.Handle(context.Background(), SubmitReviewCommand{
		BoatID:   "boat-missing",
		AuthorID: "user-1",
		Rating:   4,
		Comment:  "This boat does not exist at all.",
	})
	assert.ErrorIs(t, err, domainboats.ErrNotFound)
	assert.Empty(t, env.outbox.Pending())
}
