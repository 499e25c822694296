package middleware

import (
	"context"

	"seaberth/internal/app/commands"
	"seaberth/internal/app/queries"
)

type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// SelfAuthorization delegates to messages that carry their own access rule,
// typically comparing the actor's roles against the operation.
type SelfAuthorization struct{}

func (SelfAuthorization) Authorize(_ context.Context, message any) error {
	if a, ok := message.(interface{ Authorize() error }); ok {
		return a.Authorize()
	}
	return nil
}

func Authorization(a Authorizer) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := a.Authorize(ctx, cmd); err != nil {
				return nil, err
			}
			return nextFn(ctx, cmd)
		})
	}
}

func QueryAuthorization(a Authorizer) QueryMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := a.Authorize(ctx, q); err != nil {
				return nil, err
			}
			return nextFn(ctx, q)
		})
	}
}
