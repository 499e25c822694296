package reviews

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/outbox"
	"seaberth/internal/app/uow"
	domainreviews "seaberth/internal/domain/reviews"
	"seaberth/internal/domain/shared/events"
	domainuser "seaberth/internal/domain/user"
)

const deleteReviewKey = "reviews.delete"

var ErrDeleteForbidden = errors.New("reviews: only the author or an admin may delete")

// DeleteReviewCommand removes a review and refreshes the boat's rating.
type DeleteReviewCommand struct {
	ReviewID   string
	ActorID    string
	ActorRoles []domainuser.Role
}

func (c DeleteReviewCommand) Key() string { return deleteReviewKey }

type DeleteReviewResult struct {
	ReviewID string `json:"review_id"`
}

type DeleteReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *DeleteReviewHandler) Handle(ctx context.Context, cmd DeleteReviewCommand) (*DeleteReviewResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
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

	review, err := unit.Reviews().ByID(ctx, domainreviews.ReviewID(cmd.ReviewID))
	if err != nil {
		return nil, err
	}
	if review.AuthorID != cmd.ActorID && !isAdmin(cmd.ActorRoles) {
		return nil, ErrDeleteForbidden
	}

	now := time.Now().UTC()
	if err := unit.Reviews().Delete(ctx, review.ID); err != nil {
		return nil, err
	}
	if err := recalcBoatRating(ctx, unit, review.BoatID, now); err != nil {
		return nil, err
	}

	ev := domainreviews.ReviewDeleted{ReviewID: review.ID, BoatID: review.BoatID, At: now}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{ev}); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("review deleted", "review_id", review.ID, "actor_id", cmd.ActorID)
	}

	return &DeleteReviewResult{ReviewID: string(review.ID)}, nil
}

func (h *DeleteReviewHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func isAdmin(roles []domainuser.Role) bool {
	for _, role := range roles {
		if role == domainuser.RoleAdmin {
			return true
		}
	}
	return false
}

var _ commands.Handler[DeleteReviewCommand, *DeleteReviewResult] = (*DeleteReviewHandler)(nil)
