package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/pkg/composables"
)

const notificationInsertQuery = `
        INSERT INTO request_notifications (request_id, recipients, body)
        VALUES ($1, $2, $3)`

// PgNotificationSink appends status messages to a per-request feed.
// Recipients are stored denormalized; the feed is append-only.
type PgNotificationSink struct{}

func NewNotificationSink() *PgNotificationSink {
	return &PgNotificationSink{}
}

func (g *PgNotificationSink) Post(ctx context.Context, recipients []uuid.UUID, body string, requestID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(recipients))
	for _, r := range recipients {
		ids = append(ids, r.String())
	}
	if _, err := tx.Exec(ctx, notificationInsertQuery, pgUUID(requestID), ids, body); err != nil {
		return gerrors.Wrap(err, "failed to post notification")
	}
	return nil
}
