package boats

import (
	"context"

	"seaberth/internal/app/dto"
	"seaberth/internal/app/handlers/support"
	"seaberth/internal/app/queries"
	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
)

const searchCatalogKey = "boats.search"

// SearchCatalogQuery filters the public boat catalog.
type SearchCatalogQuery struct {
	Type          string
	Location      string
	MinCapacity   int
	PriceMinCents int64
	PriceMaxCents int64
	Limit         int
	Offset        int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, query SearchCatalogQuery) (dto.BoatPage, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BoatPage{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	params := domainboats.SearchParams{
		Type:          query.Type,
		Location:      query.Location,
		MinCapacity:   query.MinCapacity,
		PriceMinCents: query.PriceMinCents,
		PriceMaxCents: query.PriceMaxCents,
		Limit:         query.Limit,
		Offset:        query.Offset,
	}.Normalized()

	result, err := unit.Boats().Search(execCtx, params)
	if err != nil {
		return dto.BoatPage{}, err
	}

	page := dto.BoatPage{
		Items: make([]dto.Boat, 0, len(result.Items)),
		Total: result.Total,
	}
	for _, boat := range result.Items {
		page.Items = append(page.Items, dto.MapBoat(boat))
	}
	return page, nil
}

var _ queries.Handler[SearchCatalogQuery, dto.BoatPage] = (*SearchCatalogHandler)(nil)
