package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/pkg/constants"
)

var ErrNoActor = errors.New("no actor found in context")

// Actor is the authenticated identity performing an operation. The caller is
// trusted to have authorized the category of action before invoking a service;
// state-graph legality stays with the domain.
type Actor struct {
	UserID uuid.UUID
	Name   string
}

func (a Actor) IsZero() bool {
	return a.UserID == uuid.Nil
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, constants.ActorKey, actor)
}

func UseActor(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(constants.ActorKey).(Actor)
	if !ok || actor.IsZero() {
		return Actor{}, ErrNoActor
	}
	return actor, nil
}
