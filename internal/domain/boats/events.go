package boats

import "time"

type BoatRegistered struct {
	BoatID   BoatID
	OwnerID  string
	Name     string
	Type     BoatType
	Location string
	At       time.Time
}

func (e BoatRegistered) EventName() string     { return "boat.registered" }
func (e BoatRegistered) AggregateID() string   { return string(e.BoatID) }
func (e BoatRegistered) OccurredAt() time.Time { return e.At }

type BoatRatingUpdated struct {
	BoatID BoatID
	Rating float64
	At     time.Time
}

func (e BoatRatingUpdated) EventName() string     { return "boat.rating_updated" }
func (e BoatRatingUpdated) AggregateID() string   { return string(e.BoatID) }
func (e BoatRatingUpdated) OccurredAt() time.Time { return e.At }
