package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainfavorites "seaberth/internal/domain/favorites"
	"seaberth/internal/domain/pricing"
	domainreviews "seaberth/internal/domain/reviews"
	domainrange "seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestBooking(t *testing.T, id string, boatID string, start, end time.Time) *domainbooking.Booking {
	t.Helper()
	dr, err := domainrange.New(start, end)
	require.NoError(t, err)
	price, err := pricing.Quote(money.Must(15000, "EUR"), dr)
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		RenterID:  "renter-" + id,
		BoatID:    domainboats.BoatID(boatID),
		Range:     dr,
		Guests:    2,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	b.ClearEvents()
	return b
}

func newTestBoat(t *testing.T, id, owner, name, location string) *domainboats.Boat {
	t.Helper()
	boat, err := domainboats.NewBoat(domainboats.CreateParams{
		ID:           domainboats.BoatID(id),
		OwnerID:      owner,
		Name:         name,
		Type:         domainboats.TypeSailboat,
		LengthMeters: 12,
		Capacity:     6,
		DailyRate:    money.Must(15000, "EUR"),
		Location:     location,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	boat.ClearEvents()
	return boat
}

func TestBookingConflictDetection(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	first := newTestBooking(t, "bk-1", "boat-1", day(2026, 12, 5), day(2026, 12, 10))
	require.NoError(t, repo.CreateIfAvailable(ctx, first))

	overlapping := newTestBooking(t, "bk-2", "boat-1", day(2026, 12, 8), day(2026, 12, 12))
	assert.ErrorIs(t, repo.CreateIfAvailable(ctx, overlapping), domainbooking.ErrDateConflict)

	// Boundary contact still conflicts: closed intervals.
	touching := newTestBooking(t, "bk-3", "boat-1", day(2026, 12, 10), day(2026, 12, 14))
	assert.ErrorIs(t, repo.CreateIfAvailable(ctx, touching), domainbooking.ErrDateConflict)

	// A different boat is unaffected.
	otherBoat := newTestBooking(t, "bk-4", "boat-2", day(2026, 12, 8), day(2026, 12, 12))
	assert.NoError(t, repo.CreateIfAvailable(ctx, otherBoat))

	// Strictly disjoint dates are fine.
	disjoint := newTestBooking(t, "bk-5", "boat-1", day(2026, 12, 11), day(2026, 12, 14))
	assert.NoError(t, repo.CreateIfAvailable(ctx, disjoint))
}

func TestCancelledBookingFreesDates(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	first := newTestBooking(t, "bk-1", "boat-1", day(2026, 12, 5), day(2026, 12, 10))
	require.NoError(t, repo.CreateIfAvailable(ctx, first))
	require.NoError(t, first.Cancel(time.Now().UTC()))
	first.ClearEvents()
	require.NoError(t, repo.Save(ctx, first))

	second := newTestBooking(t, "bk-2", "boat-1", day(2026, 12, 5), day(2026, 12, 10))
	assert.NoError(t, repo.CreateIfAvailable(ctx, second))
}

func TestHasConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	booked := newTestBooking(t, "bk-1", "boat-1", day(2026, 12, 5), day(2026, 12, 10))
	require.NoError(t, repo.CreateIfAvailable(ctx, booked))

	dr, err := domainrange.New(day(2026, 12, 9), day(2026, 12, 12))
	require.NoError(t, err)
	conflict, err := repo.HasConflict(ctx, "boat-1", dr)
	require.NoError(t, err)
	assert.True(t, conflict)

	free, err := domainrange.New(day(2026, 12, 11), day(2026, 12, 12))
	require.NoError(t, err)
	conflict, err = repo.HasConflict(ctx, "boat-1", free)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestSweepCompleted(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	past := newTestBooking(t, "bk-past", "boat-1", day(2026, 6, 1), day(2026, 6, 5))
	require.NoError(t, repo.CreateIfAvailable(ctx, past))

	ongoing := newTestBooking(t, "bk-ongoing", "boat-2", day(2026, 6, 8), day(2026, 6, 12))
	require.NoError(t, repo.CreateIfAvailable(ctx, ongoing))

	cancelled := newTestBooking(t, "bk-cancelled", "boat-3", day(2026, 6, 1), day(2026, 6, 3))
	require.NoError(t, repo.CreateIfAvailable(ctx, cancelled))
	require.NoError(t, cancelled.Cancel(time.Now().UTC()))
	cancelled.ClearEvents()
	require.NoError(t, repo.Save(ctx, cancelled))

	now := day(2026, 6, 10)
	updated, err := repo.SweepCompleted(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	swept, err := repo.ByID(ctx, "bk-past")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCompleted, swept.Status)

	untouched, err := repo.ByID(ctx, "bk-ongoing")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, untouched.Status)

	stillCancelled, err := repo.ByID(ctx, "bk-cancelled")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, stillCancelled.Status)

	// Running again mutates nothing.
	updated, err = repo.SweepCompleted(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestSweepWaitsForEndDayToPass(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	booking := newTestBooking(t, "bk-1", "boat-1", day(2026, 6, 1), day(2026, 6, 5))
	require.NoError(t, repo.CreateIfAvailable(ctx, booking))

	// The end day itself still belongs to the rental.
	updated, err := repo.SweepCompleted(ctx, time.Date(2026, 6, 5, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, updated)

	updated, err = repo.SweepCompleted(ctx, day(2026, 6, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
}

func TestBoatSaveEnforcesUniqueNamePerLocation(t *testing.T) {
	ctx := context.Background()
	repo := NewBoatRepository()

	require.NoError(t, repo.Save(ctx, newTestBoat(t, "boat-1", "owner-1", "Sea Spray", "Split")))

	clash := newTestBoat(t, "boat-2", "owner-2", "sea spray", "SPLIT")
	assert.ErrorIs(t, repo.Save(ctx, clash), domainboats.ErrNameTaken)

	elsewhere := newTestBoat(t, "boat-3", "owner-2", "Sea Spray", "Dubrovnik")
	assert.NoError(t, repo.Save(ctx, elsewhere))
}

func TestBoatSearchSortsByPriceThenRating(t *testing.T) {
	ctx := context.Background()
	repo := NewBoatRepository()

	cheap := newTestBoat(t, "boat-1", "owner-1", "Cheap One", "Split")
	cheap.DailyRate = money.Must(10000, "EUR")
	expensive := newTestBoat(t, "boat-2", "owner-1", "Pricey One", "Split")
	expensive.DailyRate = money.Must(30000, "EUR")
	rated := newTestBoat(t, "boat-3", "owner-1", "Rated One", "Split")
	rated.DailyRate = money.Must(10000, "EUR")
	rated.Rating = 4.8

	for _, boat := range []*domainboats.Boat{cheap, expensive, rated} {
		require.NoError(t, repo.Save(ctx, boat))
	}

	result, err := repo.Search(ctx, domainboats.SearchParams{Location: "Split"})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, domainboats.BoatID("boat-3"), result.Items[0].ID)
	assert.Equal(t, domainboats.BoatID("boat-1"), result.Items[1].ID)
	assert.Equal(t, domainboats.BoatID("boat-2"), result.Items[2].ID)
}

func TestReviewUniquePerAuthorAndBoat(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository()

	first, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID: "rev-1", AuthorID: "user-1", BoatID: "boat-1",
		Rating: 5, Comment: "Great boat, would sail again.",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	dup, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID: "rev-2", AuthorID: "user-1", BoatID: "boat-1",
		Rating: 1, Comment: "Changed my mind completely.",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), domainreviews.ErrDuplicate)

	otherAuthor, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID: "rev-3", AuthorID: "user-2", BoatID: "boat-1",
		Rating: 4, Comment: "Solid experience overall.",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, repo.Save(ctx, otherAuthor))
}

func TestAverageRatingRoundsToOneDecimal(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository()

	ratings := []int{5, 4, 4} // mean 4.3333 -> 4.3
	for i, rating := range ratings {
		review, err := domainreviews.Submit(domainreviews.SubmitParams{
			ID:        domainreviews.ReviewID(fmt.Sprintf("rev-%d", i)),
			AuthorID:  fmt.Sprintf("user-%d", i),
			BoatID:    "boat-1",
			Rating:    rating,
			Comment:   "A comment long enough to pass.",
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, review))
	}

	avg, err := repo.AverageRating(ctx, "boat-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.3, avg, 1e-9)

	empty, err := repo.AverageRating(ctx, "boat-none")
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestIncrementHelpful(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository()

	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID: "rev-1", AuthorID: "user-1", BoatID: "boat-1",
		Rating: 5, Comment: "Great boat, would sail again.",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, review))

	for i := 1; i <= 3; i++ {
		updated, err := repo.IncrementHelpful(ctx, "rev-1")
		require.NoError(t, err)
		assert.Equal(t, int64(i), updated.Helpful)
	}

	_, err = repo.IncrementHelpful(ctx, "rev-missing")
	assert.ErrorIs(t, err, domainreviews.ErrNotFound)
}

func TestFavoriteAddRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoriteRepository()

	fav, err := domainfavorites.New(domainfavorites.CreateParams{
		ID: "fav-1", UserID: "user-1", BoatID: "boat-1",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, fav))

	dup, err := domainfavorites.New(domainfavorites.CreateParams{
		ID: "fav-2", UserID: "user-1", BoatID: "boat-1",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Add(ctx, dup), domainfavorites.ErrAlreadyFavorite)

	require.NoError(t, repo.Remove(ctx, "user-1", "boat-1"))
	assert.ErrorIs(t, repo.Remove(ctx, "user-1", "boat-1"), domainfavorites.ErrNotFound)
}

func TestCascadeDeleteByOwnerAndRenter(t *testing.T) {
	ctx := context.Background()
	boats := NewBoatRepository()
	bookings := NewBookingRepository()
	reviews := NewReviewRepository()
	favorites := NewFavoriteRepository()

	// user-1 owns boat-1 and rented boat-2; user-2 rented boat-1.
	require.NoError(t, boats.Save(ctx, newTestBoat(t, "boat-1", "user-1", "Owned Boat", "Split")))
	require.NoError(t, boats.Save(ctx, newTestBoat(t, "boat-2", "user-2", "Other Boat", "Split")))

	asRenter := newTestBooking(t, "bk-1", "boat-2", day(2026, 12, 5), day(2026, 12, 8))
	asRenter.RenterID = "user-1"
	require.NoError(t, bookings.CreateIfAvailable(ctx, asRenter))

	onOwnedBoat := newTestBooking(t, "bk-2", "boat-1", day(2026, 12, 5), day(2026, 12, 8))
	onOwnedBoat.RenterID = "user-2"
	require.NoError(t, bookings.CreateIfAvailable(ctx, onOwnedBoat))

	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID: "rev-1", AuthorID: "user-2", BoatID: "boat-1",
		Rating: 5, Comment: "Lovely boat for a weekend.",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, reviews.Save(ctx, review))

	fav, err := domainfavorites.New(domainfavorites.CreateParams{
		ID: "fav-1", UserID: "user-2", BoatID: "boat-1",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, favorites.Add(ctx, fav))

	owned, err := boats.IDsByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, []domainboats.BoatID{"boat-1"}, owned)

	removedBookings, err := bookings.DeleteByRenterOrBoats(ctx, "user-1", owned)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removedBookings)

	removedReviews, err := reviews.DeleteByAuthorOrBoats(ctx, "user-1", owned)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removedReviews)

	removedFavorites, err := favorites.DeleteByUserOrBoats(ctx, "user-1", owned)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removedFavorites)

	removedBoats, err := boats.DeleteByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removedBoats)

	// Nothing referencing user-1 or their boats survives.
	_, err = boats.ByID(ctx, "boat-1")
	assert.ErrorIs(t, err, domainboats.ErrNotFound)
	left, err := bookings.ListByRenter(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, left)
}
