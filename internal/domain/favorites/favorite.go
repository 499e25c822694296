package favorites

import (
	"context"
	"errors"
	"strings"
	"time"

	"seaberth/internal/domain/boats"
)

var (
	ErrNotFound        = errors.New("favorites: not found")
	ErrAlreadyFavorite = errors.New("favorites: boat already in favorites")
)

type FavoriteID string

// Favorite links a user to a boat they starred. One entry per (user, boat).
type Favorite struct {
	ID        FavoriteID
	UserID    string
	BoatID    boats.BoatID
	CreatedAt time.Time
}

type Repository interface {
	// Add persists the favorite, enforcing the unique (user, boat) pair.
	Add(ctx context.Context, fav *Favorite) error
	Remove(ctx context.Context, userID string, boatID boats.BoatID) error
	ListByUser(ctx context.Context, userID string) ([]*Favorite, error)
	DeleteByUserOrBoats(ctx context.Context, userID string, boatIDs []boats.BoatID) (int64, error)
}

type CreateParams struct {
	ID        FavoriteID
	UserID    string
	BoatID    boats.BoatID
	CreatedAt time.Time
}

func New(params CreateParams) (*Favorite, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return nil, errors.New("favorites: user id required")
	}
	if strings.TrimSpace(string(params.BoatID)) == "" {
		return nil, errors.New("favorites: boat id required")
	}
	return &Favorite{
		ID:        params.ID,
		UserID:    params.UserID,
		BoatID:    params.BoatID,
		CreatedAt: params.CreatedAt.UTC(),
	}, nil
}
