package uow

import (
	"context"

	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainfavorites "seaberth/internal/domain/favorites"
	domainreviews "seaberth/internal/domain/reviews"
	domainuser "seaberth/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Boats() domainboats.Repository
	Bookings() domainbooking.Repository
	Reviews() domainreviews.Repository
	Favorites() domainfavorites.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
