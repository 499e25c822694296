package dto

import (
	"time"

	domainboats "seaberth/internal/domain/boats"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type Boat struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	LengthMeters float64   `json:"length_meters"`
	Capacity     int       `json:"capacity"`
	DailyRate    MoneyDTO  `json:"daily_rate"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Location     string    `json:"location"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

type BoatPage struct {
	Items []Boat `json:"items"`
	Total int    `json:"total"`
}

func MapBoat(boat *domainboats.Boat) Boat {
	if boat == nil {
		return Boat{}
	}
	return Boat{
		ID:           string(boat.ID),
		OwnerID:      boat.OwnerID,
		Name:         boat.Name,
		Type:         string(boat.Type),
		LengthMeters: boat.LengthMeters,
		Capacity:     boat.Capacity,
		DailyRate:    MoneyDTO{Amount: boat.DailyRate.Amount, Currency: boat.DailyRate.Currency},
		PhotoURL:     boat.PhotoURL,
		Location:     boat.Location,
		Rating:       boat.Rating,
		CreatedAt:    boat.CreatedAt,
	}
}
