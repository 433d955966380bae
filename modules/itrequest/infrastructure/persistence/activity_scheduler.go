package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/pkg/composables"
)

const activityInsertQuery = `
        INSERT INTO request_activities (request_id, assignee, note)
        VALUES ($1, $2, $3)`

// PgActivityScheduler records follow-up tasks as rows. Whatever surfaces
// them to the assignee (inbox, digest) reads this table.
type PgActivityScheduler struct{}

func NewActivityScheduler() *PgActivityScheduler {
	return &PgActivityScheduler{}
}

func (g *PgActivityScheduler) Schedule(ctx context.Context, assignee uuid.UUID, note string, requestID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, activityInsertQuery, pgUUID(requestID), pgUUID(assignee), note); err != nil {
		return gerrors.Wrap(err, "failed to schedule activity")
	}
	return nil
}
