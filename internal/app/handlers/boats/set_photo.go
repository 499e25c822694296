package boats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	"seaberth/internal/app/uow"
	domainboats "seaberth/internal/domain/boats"
	"seaberth/internal/infra/storage/s3"
)

const setPhotoKey = "boats.set_photo"

// SetPhotoCommand uploads a photo for the boat and stores its public URL.
// Only the owner may change the photo.
type SetPhotoCommand struct {
	BoatID      string
	OwnerID     string
	Content     io.Reader
	ContentType string
}

func (c SetPhotoCommand) Key() string { return setPhotoKey }

type SetPhotoHandler struct {
	UoWFactory uow.UoWFactory
	Uploader   s3.Uploader
	Logger     *slog.Logger
}

func (h *SetPhotoHandler) Handle(ctx context.Context, cmd SetPhotoCommand) (dto.Boat, error) {
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

	boat, err := unit.Boats().ByID(ctx, domainboats.BoatID(cmd.BoatID))
	if err != nil {
		return dto.Boat{}, err
	}
	if boat.OwnerID != cmd.OwnerID {
		return dto.Boat{}, domainboats.ErrNotOwner
	}

	key := fmt.Sprintf("boats/%s/%s", boat.ID, uuid.NewString())
	url, err := h.Uploader.Upload(ctx, key, cmd.Content, cmd.ContentType)
	if err != nil {
		return dto.Boat{}, err
	}

	boat.SetPhoto(url, time.Now().UTC())
	if err := unit.Boats().Save(ctx, boat); err != nil {
		return dto.Boat{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.Boat{}, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("boat photo updated", "boat_id", boat.ID, "url", url)
	}

	return dto.MapBoat(boat), nil
}

var _ commands.Handler[SetPhotoCommand, dto.Boat] = (*SetPhotoHandler)(nil)
