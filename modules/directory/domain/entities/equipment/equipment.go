package equipment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Equipment is an assigned hardware item. The request module only lists it
// for display next to a request; it never takes part in the state machine.
type Equipment struct {
	ID         uuid.UUID
	Name       string
	SerialNo   string
	EmployeeID uuid.UUID
	Department string
	AssignedAt time.Time
}

type Repository interface {
	GetByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Equipment, error)
	GetByDepartment(ctx context.Context, department string) ([]Equipment, error)
}
