package reviews

import (
	"context"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/dto"
	"seaberth/internal/app/uow"
	domainreviews "seaberth/internal/domain/reviews"
)

const markHelpfulKey = "reviews.helpful"

// MarkHelpfulCommand bumps a review's helpful counter by one. The increment is
// atomic in the repository, so concurrent votes never lose updates.
type MarkHelpfulCommand struct {
	ReviewID string
}

func (c MarkHelpfulCommand) Key() string { return markHelpfulKey }

type MarkHelpfulHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *MarkHelpfulHandler) Handle(ctx context.Context, cmd MarkHelpfulCommand) (dto.Review, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return dto.Review{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return dto.Review{}, err
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

	review, err := unit.Reviews().IncrementHelpful(ctx, domainreviews.ReviewID(cmd.ReviewID))
	if err != nil {
		return dto.Review{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.Review{}, err
		}
		committed = true
	}

	return dto.MapReview(review), nil
}

var _ commands.Handler[MarkHelpfulCommand, dto.Review] = (*MarkHelpfulHandler)(nil)
