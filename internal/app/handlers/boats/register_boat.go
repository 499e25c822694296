package boats

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	"seaberth/internal/app/outbox"
	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
	"seaberth/internal/domain/shared/money"
	domainuser "seaberth/internal/domain/user"
)

const registerBoatKey = "boats.register"

// RegisterBoatCommand adds a boat to the owner's fleet. The owner role is
// granted on first registration.
type RegisterBoatCommand struct {
	OwnerID        string
	Name           string
	Type           string
	LengthMeters   float64
	Capacity       int
	DailyRateCents int64
	Currency       string
	Location       string
	PhotoURL       string
}

func (c RegisterBoatCommand) Key() string { return registerBoatKey }

type RegisterBoatHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *RegisterBoatHandler) Handle(ctx context.Context, cmd RegisterBoatCommand) (dto.Boat, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return dto.Boat{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return dto.Boat{}, err
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

	now := time.Now().UTC()
	rate, err := money.New(cmd.DailyRateCents, cmd.Currency)
	if err != nil {
		return dto.Boat{}, err
	}

	boat, err := domainboats.NewBoat(domainboats.CreateParams{
		ID:           domainboats.BoatID(uuid.NewString()),
		OwnerID:      cmd.OwnerID,
		Name:         cmd.Name,
		Type:         domainboats.BoatType(cmd.Type),
		LengthMeters: cmd.LengthMeters,
		Capacity:     cmd.Capacity,
		DailyRate:    rate,
		PhotoURL:     cmd.PhotoURL,
		Location:     cmd.Location,
		CreatedAt:    now,
	})
	if err != nil {
		return dto.Boat{}, err
	}

	if err := unit.Boats().Save(ctx, boat); err != nil {
		return dto.Boat{}, err
	}

	owner, err := unit.Users().ByID(ctx, domainuser.ID(cmd.OwnerID))
	if err != nil {
		return dto.Boat{}, err
	}
	if !owner.HasRole(domainuser.RoleOwner) {
		if err := owner.EnsureRole(domainuser.RoleOwner, now); err != nil {
			return dto.Boat{}, err
		}
		if err := unit.Users().Save(ctx, owner); err != nil {
			return dto.Boat{}, err
		}
	}

	recorded := boat.PendingEvents()
	boat.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), recorded); err != nil {
		return dto.Boat{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.Boat{}, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("boat registered", "boat_id", boat.ID, "owner_id", boat.OwnerID, "type", boat.Type)
	}

	return dto.MapBoat(boat), nil
}

func (h *RegisterBoatHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[RegisterBoatCommand, dto.Boat] = (*RegisterBoatHandler)(nil)
