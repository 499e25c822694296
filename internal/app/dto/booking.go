package dto

import (
	"time"

	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	"seaberth/internal/domain/shared/money"
)

type BoatSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type Booking struct {
	ID              string       `json:"id"`
	RenterID        string       `json:"renter_id"`
	Boat            BoatSnapshot `json:"boat"`
	StartDate       time.Time    `json:"start_date"`
	EndDate         time.Time    `json:"end_date"`
	Guests          int          `json:"guests"`
	SpecialRequests string       `json:"special_requests,omitempty"`
	Days            int          `json:"days"`
	Total           MoneyDTO     `json:"total"`
	Status          string       `json:"status"`
	PaymentStatus   string       `json:"payment_status"`
	CreatedAt       time.Time    `json:"created_at"`
	CanReview       bool         `json:"can_review,omitempty"`
}

type BookingPage struct {
	Items []Booking `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

func MapBooking(b *domainbooking.Booking, boat *domainboats.Boat) Booking {
	if b == nil {
		return Booking{}
	}
	snapshot := BoatSnapshot{ID: string(b.BoatID)}
	if boat != nil {
		snapshot.Name = boat.Name
		snapshot.Type = string(boat.Type)
		snapshot.Location = boat.Location
		snapshot.PhotoURL = boat.PhotoURL
	}
	return Booking{
		ID:              string(b.ID),
		RenterID:        b.RenterID,
		Boat:            snapshot,
		StartDate:       b.Range.Start,
		EndDate:         b.Range.End,
		Guests:          b.Guests,
		SpecialRequests: b.SpecialRequests,
		Days:            b.Price.Days,
		Total:           MapMoney(b.Price.Total),
		Status:          string(b.Status),
		PaymentStatus:   string(b.Payment),
		CreatedAt:       b.CreatedAt,
	}
}
