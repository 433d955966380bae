package request

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	State         State
	Type          Type
	EmployeeID    uuid.UUID
	AssignedAgent uuid.UUID
	Limit         int
	Offset        int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Request, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Request, error)
	GetByFolio(ctx context.Context, folio string) (Request, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, r Request) (Request, error)
	// Update persists r only when the stored row still carries r.Version;
	// a lost race returns ErrStaleVersion.
	Update(ctx context.Context, r Request) (Request, error)
}
