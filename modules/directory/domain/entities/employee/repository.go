package employee

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = gerrors.New("employee not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Employee, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (Employee, error)
	GetAll(ctx context.Context) ([]Employee, error)
	// SupportAgents returns the employees in the support-agent pool, ordered
	// deterministically so auto-assignment is stable.
	SupportAgents(ctx context.Context) ([]Employee, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, e Employee) (Employee, error)
}
