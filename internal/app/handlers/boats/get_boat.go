package boats

import (
	"context"

	"seaberth/internal/app/dto"
	"seaberth/internal/app/handlers/support"
	"seaberth/internal/app/queries"
	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
)

const getBoatKey = "boats.get"

type GetBoatQuery struct {
	BoatID string
}

func (q GetBoatQuery) Key() string { return getBoatKey }

type GetBoatHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetBoatHandler) Handle(ctx context.Context, query GetBoatQuery) (dto.Boat, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Boat{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	boat, err := unit.Boats().ByID(execCtx, domainboats.BoatID(query.BoatID))
	if err != nil {
		return dto.Boat{}, err
	}
	return dto.MapBoat(boat), nil
}

var _ queries.Handler[GetBoatQuery, dto.Boat] = (*GetBoatHandler)(nil)
