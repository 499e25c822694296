package booking

import (
	"context"
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

const instantBookKey = "booking.instant"

// InstantBookCommand books and pays in one step: the booking lands already
// completed with payment settled, skipping the pending/confirmed lifecycle.
type InstantBookCommand struct {
	CommandID       string
	BoatID          string
	RenterID        string
	StartDate       time.Time
	EndDate         time.Time
	Guests          int
	SpecialRequests string
	IdempotencyKeyV string
}

func (c InstantBookCommand) Key() string { return instantBookKey }

func (c InstantBookCommand) Validate() error {
	return validateBookingInput(c.BoatID, c.RenterID, c.Guests)
}

func (c InstantBookCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c InstantBookCommand) ResultPrototype() any { return &CreateBookingResult{} }

type InstantBookHandler struct {
	UoWFactory uow.UoWFactory
	Guard      *domainavailability.Guard
	Pricing    policies.PricingPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *InstantBookHandler) Handle(ctx context.Context, cmd InstantBookCommand) (*CreateBookingResult, error) {
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
	booking.MarkPaid(now)
	if err := booking.Complete(now); err != nil {
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

func (h *InstantBookHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[InstantBookCommand, *CreateBookingResult] = (*InstantBookHandler)(nil)
var _ middleware.IdempotentCommand = (*InstantBookCommand)(nil)
