// Package account hosts the account-wide operations, chiefly the cascade
// deletion that removes a user and everything hanging off them.
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/outbox"
	"seaberth/internal/app/saga"
	"seaberth/internal/app/uow"
	domainauth "seaberth/internal/domain/auth"
	domainboats "seaberth/internal/domain/boats"
	"seaberth/internal/domain/shared/events"
	domainuser "seaberth/internal/domain/user"
)

const deleteAccountKey = "account.delete"

// ErrActorForbidden rejects deletions requested by someone other than the
// account holder or an admin.
var ErrActorForbidden = errors.New("account: only the owner or an admin may delete an account")

// DeleteAccountCommand removes the user and, in strict order, their bookings,
// reviews, favorites and boats. Bookings and reviews are matched both ways:
// those the user authored and those attached to the user's boats.
type DeleteAccountCommand struct {
	UserID     string
	ActorID    string
	ActorRoles []domainuser.Role
}

func (c DeleteAccountCommand) Key() string { return deleteAccountKey }

func (c DeleteAccountCommand) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return domainuser.ErrIDRequired
	}
	return nil
}

func (c DeleteAccountCommand) Authorize() error {
	if c.ActorID == c.UserID {
		return nil
	}
	for _, role := range c.ActorRoles {
		if role == domainuser.RoleAdmin {
			return nil
		}
	}
	return ErrActorForbidden
}

type DeleteAccountResult struct {
	UserID           string `json:"user_id"`
	BookingsDeleted  int64  `json:"bookings_deleted"`
	ReviewsDeleted   int64  `json:"reviews_deleted"`
	FavoritesDeleted int64  `json:"favorites_deleted"`
	BoatsDeleted     int64  `json:"boats_deleted"`
}

type AccountDeleted struct {
	UserID string
	At     time.Time
}

func (e AccountDeleted) EventName() string     { return "account.deleted" }
func (e AccountDeleted) AggregateID() string   { return e.UserID }
func (e AccountDeleted) OccurredAt() time.Time { return e.At }

type DeleteAccountHandler struct {
	UoWFactory uow.UoWFactory
	Sessions   domainauth.SessionStore
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *DeleteAccountHandler) Handle(ctx context.Context, cmd DeleteAccountCommand) (*DeleteAccountResult, error) {
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

	userID := domainuser.ID(cmd.UserID)
	if _, err := unit.Users().ByID(ctx, userID); err != nil {
		return nil, err
	}

	result := &DeleteAccountResult{UserID: cmd.UserID}
	var ownedBoats []domainboats.BoatID

	steps := []saga.Step{
		{
			Name: "resolve owned boats",
			Run: func(ctx context.Context) error {
				ids, err := unit.Boats().IDsByOwner(ctx, cmd.UserID)
				if err != nil {
					return err
				}
				ownedBoats = ids
				return nil
			},
		},
		{
			Name: "delete bookings",
			Run: func(ctx context.Context) error {
				n, err := unit.Bookings().DeleteByRenterOrBoats(ctx, cmd.UserID, ownedBoats)
				if err != nil {
					return err
				}
				result.BookingsDeleted = n
				return nil
			},
		},
		{
			Name: "delete reviews",
			Run: func(ctx context.Context) error {
				n, err := unit.Reviews().DeleteByAuthorOrBoats(ctx, cmd.UserID, ownedBoats)
				if err != nil {
					return err
				}
				result.ReviewsDeleted = n
				return nil
			},
		},
		{
			Name: "delete favorites",
			Run: func(ctx context.Context) error {
				n, err := unit.Favorites().DeleteByUserOrBoats(ctx, cmd.UserID, ownedBoats)
				if err != nil {
					return err
				}
				result.FavoritesDeleted = n
				return nil
			},
		},
		{
			Name: "delete boats",
			Run: func(ctx context.Context) error {
				n, err := unit.Boats().DeleteByOwner(ctx, cmd.UserID)
				if err != nil {
					return err
				}
				result.BoatsDeleted = n
				return nil
			},
		},
		{
			Name: "delete user",
			Run: func(ctx context.Context) error {
				return unit.Users().Delete(ctx, userID)
			},
		},
	}

	seq := saga.Sequence{Name: "account-deletion", Logger: h.Logger}
	if err := seq.Execute(ctx, steps); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ev := AccountDeleted{UserID: cmd.UserID, At: now}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{ev}); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	// Sessions live outside the transactional store; revoke them only after
	// the deletion is durable.
	if h.Sessions != nil {
		if err := h.Sessions.DeleteByUser(ctx, userID); err != nil && h.Logger != nil {
			h.Logger.Error("session revocation after account deletion failed", "user_id", cmd.UserID, "error", err)
		}
	}

	if h.Logger != nil {
		h.Logger.Info("account deleted",
			"user_id", cmd.UserID,
			"actor_id", cmd.ActorID,
			"bookings", result.BookingsDeleted,
			"reviews", result.ReviewsDeleted,
			"favorites", result.FavoritesDeleted,
			"boats", result.BoatsDeleted,
		)
	}

	return result, nil
}

func (h *DeleteAccountHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[DeleteAccountCommand, *DeleteAccountResult] = (*DeleteAccountHandler)(nil)
var _ events.DomainEvent = AccountDeleted{}
