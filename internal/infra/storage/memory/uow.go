package memory

import (
	"context"
	"errors"

	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainfavorites "seaberth/internal/domain/favorites"
	domainreviews "seaberth/internal/domain/reviews"
	domainuser "seaberth/internal/domain/user"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	BoatRepo     domainboats.Repository
	BookingRepo  domainbooking.Repository
	ReviewRepo   domainreviews.Repository
	FavoriteRepo domainfavorites.Repository
	UserRepo     domainuser.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports: writes are applied as
// they happen and Commit/Rollback are no-ops.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.BoatRepo == nil || f.BookingRepo == nil || f.ReviewRepo == nil || f.FavoriteRepo == nil || f.UserRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		boats:     f.BoatRepo,
		bookings:  f.BookingRepo,
		reviews:   f.ReviewRepo,
		favorites: f.FavoriteRepo,
		users:     f.UserRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	boats     domainboats.Repository
	bookings  domainbooking.Repository
	reviews   domainreviews.Repository
	favorites domainfavorites.Repository
	users     domainuser.Repository
}

func (u *Unit) Boats() domainboats.Repository {
	return u.boats
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Favorites() domainfavorites.Repository {
	return u.favorites
}

func (u *Unit) Users() domainuser.Repository {
	return u.users
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
