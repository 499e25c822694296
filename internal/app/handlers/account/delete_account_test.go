package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaberth/internal/infra/storage/memory"

	domainauth "seaberth/internal/domain/auth"
	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainfavorites "seaberth/internal/domain/favorites"
	domainpricing "seaberth/internal/domain/pricing"
	domainreviews "seaberth/internal/domain/reviews"
	domainrange "seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
	domainuser "seaberth/internal/domain/user"
)

type deleteAccountEnv struct {
	users     *memory.UserRepository
	boats     *memory.BoatRepository
	bookings  *memory.BookingRepository
	reviews   *memory.ReviewRepository
	favorites *memory.FavoriteRepository
	sessions  *memory.SessionStore
	outbox    *memory.Outbox
	handler   *DeleteAccountHandler
}

func newDeleteAccountEnv(t *testing.T) *deleteAccountEnv {
	t.Helper()
	env := &deleteAccountEnv{
		users:     memory.NewUserRepository(),
		boats:     memory.NewBoatRepository(),
		bookings:  memory.NewBookingRepository(),
		reviews:   memory.NewReviewRepository(),
		favorites: memory.NewFavoriteRepository(),
		sessions:  memory.NewSessionStore(),
		outbox:    memory.NewOutbox(),
	}
	factory := memory.Factory{
		BoatRepo:     env.boats,
		BookingRepo:  env.bookings,
		ReviewRepo:   env.reviews,
		FavoriteRepo: env.favorites,
		UserRepo:     env.users,
	}
	env.handler = &DeleteAccountHandler{
		UoWFactory: factory,
		Sessions:   env.sessions,
		Outbox:     env.outbox,
	}
	return env
}

func (e *deleteAccountEnv) seedUser(t *testing.T, id, email string) {
	t.Helper()
	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(id),
		Email:        email,
		Name:         "User " + id,
		PasswordHash: "$2a$10$notarealhashbutlongenough",
		Roles:        []domainuser.Role{domainuser.RoleRenter},
	})
	require.NoError(t, err)
	require.NoError(t, e.users.Save(context.Background(), user))
}

func (e *deleteAccountEnv) seedBoat(t *testing.T, id, ownerID, name string) {
	t.Helper()
	boat, err := domainboats.NewBoat(domainboats.CreateParams{
		ID:           domainboats.BoatID(id),
		OwnerID:      ownerID,
		Name:         name,
		Type:         domainboats.TypeSailboat,
		LengthMeters: 10,
		Capacity:     5,
		DailyRate:    money.Must(20000, "EUR"),
		Location:     "Zadar",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	boat.ClearEvents()
	require.NoError(t, e.boats.Save(context.Background(), boat))
}

func (e *deleteAccountEnv) seedBooking(t *testing.T, id, renterID, boatID string, start, end time.Time) {
	t.Helper()
	dr, err := domainrange.New(start, end)
	require.NoError(t, err)
	price, err := domainpricing.Quote(money.Must(20000, "EUR"), dr)
	require.NoError(t, err)
	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		RenterID:  renterID,
		BoatID:    domainboats.BoatID(boatID),
		Range:     dr,
		Guests:    2,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	booking.ClearEvents()
	require.NoError(t, e.bookings.CreateIfAvailable(context.Background(), booking))
}

func (e *deleteAccountEnv) seedReview(t *testing.T, id, authorID, boatID string) {
	t.Helper()
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(id),
		AuthorID:  authorID,
		BoatID:    domainboats.BoatID(boatID),
		Rating:    4,
		Comment:   "Perfectly serviceable weekend boat.",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	review.ClearEvents()
	require.NoError(t, e.reviews.Save(context.Background(), review))
}

func TestDeleteAccountCascades(t *testing.T) {
	env := newDeleteAccountEnv(t)
	ctx := context.Background()

	// user-1 owns boat-1 and rents boat-2; user-2 rents and reviews boat-1.
	env.seedUser(t, "user-1", "one@example.com")
	env.seedUser(t, "user-2", "two@example.com")
	env.seedBoat(t, "boat-1", "user-1", "Owned Sloop")
	env.seedBoat(t, "boat-2", "user-2", "Neighbour Sloop")

	env.seedBooking(t, "bk-own", "user-2", "boat-1",
		time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC))
	env.seedBooking(t, "bk-rent", "user-1", "boat-2",
		time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC))

	env.seedReview(t, "rev-by-user", "user-1", "boat-2")
	env.seedReview(t, "rev-on-boat", "user-2", "boat-1")

	fav, err := domainfavorites.New(domainfavorites.CreateParams{
		ID: "fav-1", UserID: "user-2", BoatID: "boat-1",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, env.favorites.Add(ctx, fav))

	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  "tok-1",
		UserID: "user-1",
		Roles:  []domainuser.Role{domainuser.RoleRenter},
		TTL:    time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, env.sessions.Save(ctx, session))

	result, err := env.handler.Handle(ctx, DeleteAccountCommand{UserID: "user-1", ActorID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, int64(2), result.BookingsDeleted)
	assert.Equal(t, int64(2), result.ReviewsDeleted)
	assert.Equal(t, int64(1), result.FavoritesDeleted)
	assert.Equal(t, int64(1), result.BoatsDeleted)

	_, err = env.users.ByID(ctx, "user-1")
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
	_, err = env.boats.ByID(ctx, "boat-1")
	assert.ErrorIs(t, err, domainboats.ErrNotFound)

	// The other user's data on unrelated boats survives.
	_, err = env.users.ByID(ctx, "user-2")
	assert.NoError(t, err)
	_, err = env.boats.ByID(ctx, "boat-2")
	assert.NoError(t, err)

	// Sessions are revoked once the deletion is durable.
	_, err = env.sessions.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	records := env.outbox.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "account.deleted", records[0].Name)
	assert.Equal(t, "user-1", records[0].Aggregate)
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	env := newDeleteAccountEnv(t)

	_, err := env.handler.Handle(context.Background(), DeleteAccountCommand{UserID: "ghost", ActorID: "admin-1"})
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
	assert.Empty(t, env.outbox.Pending())
}

func TestDeleteAccountWithNoOwnedData(t *testing.T) {
	env := newDeleteAccountEnv(t)
	ctx := context.Background()
	env.seedUser(t, "user-1", "solo@example.com")

	result, err := env.handler.Handle(ctx, DeleteAccountCommand{UserID: "user-1", ActorID: "user-1"})
	require.NoError(t, err)

	assert.Zero(t, result.BookingsDeleted)
	assert.Zero(t, result.ReviewsDeleted)
	assert.Zero(t, result.FavoritesDeleted)
	assert.Zero(t, result.BoatsDeleted)

	_, err = env.users.ByID(ctx, "user-1")
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}
