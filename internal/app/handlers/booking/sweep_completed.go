package booking

import (
	"context"
	"log/slog"
	"time"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/outbox"
	"seaberth/internal/app/uow"
	domainbooking "seaberth/internal/domain/booking"
	"seaberth/internal/domain/shared/events"
)

const sweepCompletedKey = "booking.sweep_completed"

// SweepCompletedCommand promotes every active booking whose end date has
// passed to completed. Safe to run repeatedly: already-completed bookings are
// never touched again.
type SweepCompletedCommand struct {
	Now time.Time
}

func (c SweepCompletedCommand) Key() string { return sweepCompletedKey }

type SweepCompletedResult struct {
	Updated int64 `json:"updated"`
}

type SweepCompletedHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *SweepCompletedHandler) Handle(ctx context.Context, cmd SweepCompletedCommand) (*SweepCompletedResult, error) {
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

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	updated, err := unit.Bookings().SweepCompleted(ctx, now)
	if err != nil {
		return nil, err
	}

	if updated > 0 {
		ev := domainbooking.BookingsSwept{Count: updated, At: now}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{ev}); err != nil {
			return nil, err
		}
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil && updated > 0 {
		h.Logger.Info("bookings swept to completed", "updated", updated)
	}

	return &SweepCompletedResult{Updated: updated}, nil
}

func (h *SweepCompletedHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[SweepCompletedCommand, *SweepCompletedResult] = (*SweepCompletedHandler)(nil)
