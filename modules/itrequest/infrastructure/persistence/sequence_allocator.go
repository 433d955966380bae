package persistence

import (
	"context"
	"fmt"

	gerrors "github.com/go-faster/errors"

	"github.com/mexilacteos/itdesk/pkg/composables"
)

const sequenceNextQuery = `
        UPDATE folio_sequences
        SET counter = counter + 1
        WHERE namespace = $1
        RETURNING prefix, padding, counter`

// PgSequenceAllocator issues gapless folios from a per-namespace counter row.
// The UPDATE takes a row lock, so concurrent allocations within the same
// namespace serialize and never hand out the same number twice.
type PgSequenceAllocator struct{}

func NewSequenceAllocator() *PgSequenceAllocator {
	return &PgSequenceAllocator{}
}

func (g *PgSequenceAllocator) Next(ctx context.Context, namespace string) (string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return "", err
	}
	var (
		prefix  string
		padding int
		counter int64
	)
	if err := tx.QueryRow(ctx, sequenceNextQuery, namespace).Scan(&prefix, &padding, &counter); err != nil {
		return "", gerrors.Wrapf(err, "failed to allocate folio for %q", namespace)
	}
	return fmt.Sprintf("%s%0*d", prefix, padding, counter), nil
}
