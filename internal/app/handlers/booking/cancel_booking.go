package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/outbox"
	"seaberth/internal/app/uow"
	domainbooking "seaberth/internal/domain/booking"
	domainuser "seaberth/internal/domain/user"
)

const cancelBookingKey = "booking.cancel"

var ErrCancelForbidden = errors.New("booking: only the renter or an admin may cancel")

// CancelBookingCommand cancels an active booking. Renters may cancel their own
// bookings; admins may cancel anyone's.
type CancelBookingCommand struct {
	BookingID  string
	ActorID    string
	ActorRoles []domainuser.Role
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	BookingID     string `json:"booking_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
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

	booking, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if booking.RenterID != cmd.ActorID && !hasRole(cmd.ActorRoles, domainuser.RoleAdmin) {
		return nil, ErrCancelForbidden
	}

	now := time.Now().UTC()
	if err := booking.Cancel(now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, booking); err != nil {
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

	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", booking.ID, "actor_id", cmd.ActorID)
	}

	return &CancelBookingResult{
		BookingID:     string(booking.ID),
		Status:        string(booking.Status),
		PaymentStatus: string(booking.Payment),
	}, nil
}

func (h *CancelBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func hasRole(roles []domainuser.Role, want domainuser.Role) bool {
	for _, role := range roles {
		if role == want {
			return true
		}
	}
	return false
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
