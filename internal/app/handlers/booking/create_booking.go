package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/middleware"
	"seaberth/internal/app/outbox"
	"seaberth/internal/app/policies"
	"seaberth/internal/app/uow"
	domainavailability "seaberth/internal/domain/availability"
	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainrange "seaberth/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

// CreateBookingCommand places a new pending booking for a boat.
type CreateBookingCommand struct {
	CommandID       string
	BoatID          string
	RenterID        string
	StartDate       time.Time
	EndDate         time.Time
	Guests          int
	SpecialRequests string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) Validate() error {
	return validateBookingInput(c.BoatID, c.RenterID, c.Guests)
}

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingID string `json:"booking_id"`
	Days      int    `json:"days"`
	Total     int64  `json:"total"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
}

// CreateBookingHandler checks availability, quotes the price and stores the
// booking. The per-boat guard plus the repository's conditional insert make
// the check-and-insert pair atomic against concurrent requests.
type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Guard      *domainavailability.Guard
	Pricing    policies.PricingPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
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

	dr, err := domainrange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := domainbooking.ValidateDateRange(dr, now); err != nil {
		return nil, err
	}

	boat, err := unit.Boats().ByID(ctx, domainboats.BoatID(cmd.BoatID))
	if err != nil {
		return nil, err
	}

	price, err := h.Pricing.Quote(ctx, boat, dr)
	if err != nil {
		return nil, err
	}

	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:              domainbooking.BookingID(cmd.CommandID),
		RenterID:        cmd.RenterID,
		BoatID:          boat.ID,
		Range:           dr,
		Guests:          cmd.Guests,
		SpecialRequests: cmd.SpecialRequests,
		Price:           price,
		CreatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	if h.Guard != nil {
		unlock := h.Guard.Lock(boat.ID)
		defer unlock()
	}
	if err := unit.Bookings().CreateIfAvailable(ctx, booking); err != nil {
		return nil, err
	}

	recorded := booking.PendingEvents()
	booking.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), recorded); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateBookingResult{
		BookingID: string(booking.ID),
		Days:      booking.Price.Days,
		Total:     booking.Price.Total.Amount,
		Currency:  booking.Price.Total.Currency,
		Status:    string(booking.Status),
	}, nil
}

func validateBookingInput(boatID, renterID string, guests int) error {
	if strings.TrimSpace(boatID) == "" {
		return errors.New("booking: boat id required")
	}
	if strings.TrimSpace(renterID) == "" {
		return errors.New("booking: renter id required")
	}
	if guests < 1 {
		return domainbooking.ErrInvalidGuests
	}
	return nil
}

func (h *CreateBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
