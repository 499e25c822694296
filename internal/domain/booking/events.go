package booking

import (
	"time"

	"seaberth/internal/domain/boats"
	"seaberth/internal/domain/shared/daterange"
	"seaberth/internal/domain/shared/money"
)

type BookingCreated struct {
	BookingID BookingID
	BoatID    boats.BoatID
	RenterID  string
	Range     daterange.DateRange
	Guests    int
	Total     money.Money
	At        time.Time
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID BookingID
	BoatID    boats.BoatID
	Range     daterange.DateRange
	At        time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID
	BoatID    boats.BoatID
	Range     daterange.DateRange
	At        time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BookingCompleted struct {
	BookingID BookingID
	BoatID    boats.BoatID
	At        time.Time
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }

type BookingStatusOverridden struct {
	BookingID BookingID
	Status    Status
	At        time.Time
}

func (e BookingStatusOverridden) EventName() string     { return "booking.status_overridden" }
func (e BookingStatusOverridden) AggregateID() string   { return string(e.BookingID) }
func (e BookingStatusOverridden) OccurredAt() time.Time { return e.At }

type BookingsSwept struct {
	Count int64
	At    time.Time
}

func (e BookingsSwept) EventName() string     { return "booking.swept" }
func (e BookingsSwept) AggregateID() string   { return "sweep" }
func (e BookingsSwept) OccurredAt() time.Time { return e.At }
