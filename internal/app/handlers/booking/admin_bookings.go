package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	"seaberth/internal/app/handlers/support"
	"seaberth/internal/app/outbox"
	"seaberth/internal/app/queries"
	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
	domainbooking "seaberth/internal/domain/booking"
	domainuser "seaberth/internal/domain/user"
)

const (
	adminListBookingsKey = "booking.admin.list"
	adminSetStatusKey    = "booking.admin.set_status"
)

// AdminListBookingsQuery pages through every booking, optionally filtered by
// status.
type AdminListBookingsQuery struct {
	Status string
	Page   int
	Limit  int
}

func (q AdminListBookingsQuery) Key() string { return adminListBookingsKey }

type AdminListBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *AdminListBookingsHandler) Handle(ctx context.Context, query AdminListBookingsQuery) (dto.BookingPage, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingPage{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	params := domainbooking.ListParams{Page: query.Page, Limit: query.Limit}
	if query.Status != "" {
		status, err := domainbooking.ParseStatus(query.Status)
		if err != nil {
			return dto.BookingPage{}, err
		}
		params.Status = status
	}
	params = params.Normalized()

	result, err := unit.Bookings().List(execCtx, params)
	if err != nil {
		return dto.BookingPage{}, err
	}

	page := dto.BookingPage{
		Items: make([]dto.Booking, 0, len(result.Items)),
		Total: result.Total,
		Page:  params.Page,
		Limit: params.Limit,
	}
	for _, b := range result.Items {
		boat, err := unit.Boats().ByID(execCtx, b.BoatID)
		if err != nil && !errors.Is(err, domainboats.ErrNotFound) {
			return dto.BookingPage{}, err
		}
		page.Items = append(page.Items, dto.MapBooking(b, boat))
	}
	return page, nil
}

// ErrAdminRequired rejects status overrides dispatched without the admin role.
var ErrAdminRequired = errors.New("booking: admin role required")

// AdminSetStatusCommand overwrites a booking status without consulting the
// transition graph. Only the status enum itself is validated.
type AdminSetStatusCommand struct {
	BookingID  string
	Status     string
	ActorID    string
	ActorRoles []domainuser.Role
}

func (c AdminSetStatusCommand) Key() string { return adminSetStatusKey }

func (c AdminSetStatusCommand) Validate() error {
	if strings.TrimSpace(c.BookingID) == "" {
		return errors.New("booking: booking id required")
	}
	if strings.TrimSpace(c.Status) == "" {
		return domainbooking.ErrInvalidStatus
	}
	return nil
}

func (c AdminSetStatusCommand) Authorize() error {
	if !hasRole(c.ActorRoles, domainuser.RoleAdmin) {
		return ErrAdminRequired
	}
	return nil
}

type AdminSetStatusHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *AdminSetStatusHandler) Handle(ctx context.Context, cmd AdminSetStatusCommand) (*CancelBookingResult, error) {
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

	now := time.Now().UTC()
	if err := booking.ForceStatus(domainbooking.Status(cmd.Status), now); err != nil {
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
		h.Logger.Warn("booking status overridden", "booking_id", booking.ID, "status", booking.Status, "actor_id", cmd.ActorID)
	}

	return &CancelBookingResult{
		BookingID:     string(booking.ID),
		Status:        string(booking.Status),
		PaymentStatus: string(booking.Payment),
	}, nil
}

func (h *AdminSetStatusHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ queries.Handler[AdminListBookingsQuery, dto.BookingPage] = (*AdminListBookingsHandler)(nil)
var _ commands.Handler[AdminSetStatusCommand, *CancelBookingResult] = (*AdminSetStatusHandler)(nil)
