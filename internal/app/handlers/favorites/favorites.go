package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	"seaberth/internal/app/handlers/support"
	"seaberth/internal/app/queries"
	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
	domainfavorites "seaberth/internal/domain/favorites"
)

const (
	addFavoriteKey    = "favorites.add"
	removeFavoriteKey = "favorites.remove"
	listFavoritesKey  = "favorites.list"
)

// AddFavoriteCommand stars a boat for the user.
type AddFavoriteCommand struct {
	UserID string
	BoatID string
}

func (c AddFavoriteCommand) Key() string { return addFavoriteKey }

type AddFavoriteHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *AddFavoriteHandler) Handle(ctx context.Context, cmd AddFavoriteCommand) (dto.Favorite, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return dto.Favorite{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return dto.Favorite{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	boat, err := unit.Boats().ByID(ctx, domainboats.BoatID(cmd.BoatID))
	if err != nil {
		return dto.Favorite{}, err
	}

	fav, err := domainfavorites.New(domainfavorites.CreateParams{
		ID:        domainfavorites.FavoriteID(uuid.NewString()),
		UserID:    cmd.UserID,
		BoatID:    boat.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return dto.Favorite{}, err
	}
	if err := unit.Favorites().Add(ctx, fav); err != nil {
		return dto.Favorite{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.Favorite{}, err
		}
		committed = true
	}

	return dto.MapFavorite(fav, boat), nil
}

// RemoveFavoriteCommand unstars a boat.
type RemoveFavoriteCommand struct {
	UserID string
	BoatID string
}

func (c RemoveFavoriteCommand) Key() string { return removeFavoriteKey }

type RemoveFavoriteResult struct {
	Removed bool `json:"removed"`
}

type RemoveFavoriteHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *RemoveFavoriteHandler) Handle(ctx context.Context, cmd RemoveFavoriteCommand) (*RemoveFavoriteResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	if err := unit.Favorites().Remove(ctx, cmd.UserID, domainboats.BoatID(cmd.BoatID)); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &RemoveFavoriteResult{Removed: true}, nil
}

// ListFavoritesQuery returns the user's starred boats.
type ListFavoritesQuery struct {
	UserID string
}

func (q ListFavoritesQuery) Key() string { return listFavoritesKey }

type ListFavoritesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListFavoritesHandler) Handle(ctx context.Context, query ListFavoritesQuery) (dto.FavoriteCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.FavoriteCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	favs, err := unit.Favorites().ListByUser(execCtx, query.UserID)
	if err != nil {
		return dto.FavoriteCollection{}, err
	}

	out := dto.FavoriteCollection{Items: make([]dto.Favorite, 0, len(favs))}
	for _, fav := range favs {
		boat, err := unit.Boats().ByID(execCtx, fav.BoatID)
		if err != nil && !errors.Is(err, domainboats.ErrNotFound) {
			return dto.FavoriteCollection{}, err
		}
		out.Items = append(out.Items, dto.MapFavorite(fav, boat))
	}
	return out, nil
}

var _ commands.Handler[AddFavoriteCommand, dto.Favorite] = (*AddFavoriteHandler)(nil)
var _ commands.Handler[RemoveFavoriteCommand, *RemoveFavoriteResult] = (*RemoveFavoriteHandler)(nil)
var _ queries.Handler[ListFavoritesQuery, dto.FavoriteCollection] = (*ListFavoritesHandler)(nil)
