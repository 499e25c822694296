package dto

import (
	"time"

	domainboats "seaberth/internal/domain/boats"
	domainfavorites "seaberth/internal/domain/favorites"
)

type Favorite struct {
	ID        string    `json:"id"`
	Boat      Boat      `json:"boat"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteCollection struct {
	Items []Favorite `json:"items"`
}

func MapFavorite(fav *domainfavorites.Favorite, boat *domainboats.Boat) Favorite {
	if fav == nil {
		return Favorite{}
	}
	out := Favorite{
		ID:        string(fav.ID),
		CreatedAt: fav.CreatedAt,
	}
	if boat != nil {
		out.Boat = MapBoat(boat)
	} else {
		out.Boat = Boat{ID: string(fav.BoatID)}
	}
	return out
}
