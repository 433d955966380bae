package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is a directory entry linking a person to their system user
// account, manager and organizational placement. Read-only from the request
// module's point of view.
type Employee struct {
	id           uuid.UUID
	userID       uuid.UUID
	name         string
	department   string
	jobTitle     string
	managerID    uuid.UUID
	supportAgent bool
	createdAt    time.Time
	updatedAt    time.Time
}

func New(userID uuid.UUID, name string) Employee {
	return Employee{
		userID: userID,
		name:   strings.TrimSpace(name),
	}
}

func Hydrate(
	id uuid.UUID,
	userID uuid.UUID,
	name string,
	department string,
	jobTitle string,
	managerID uuid.UUID,
	supportAgent bool,
	createdAt time.Time,
	updatedAt time.Time,
) Employee {
	return Employee{
		id:           id,
		userID:       userID,
		name:         strings.TrimSpace(name),
		department:   department,
		jobTitle:     jobTitle,
		managerID:    managerID,
		supportAgent: supportAgent,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (e Employee) ID() uuid.UUID        { return e.id }
func (e Employee) UserID() uuid.UUID    { return e.userID }
func (e Employee) Name() string         { return e.name }
func (e Employee) Department() string   { return e.department }
func (e Employee) JobTitle() string     { return e.jobTitle }
func (e Employee) ManagerID() uuid.UUID { return e.managerID }
func (e Employee) IsSupportAgent() bool { return e.supportAgent }
func (e Employee) CreatedAt() time.Time { return e.createdAt }
func (e Employee) UpdatedAt() time.Time { return e.updatedAt }
func (e Employee) IsZero() bool         { return e.id == uuid.Nil && e.userID == uuid.Nil }
