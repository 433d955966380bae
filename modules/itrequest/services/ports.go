package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/modules/directory/domain/entities/employee"
)

// SequenceAllocator issues the human-readable folio for a new request.
// Allocation failure fails creation; a request never exists with a
// placeholder folio.
type SequenceAllocator interface {
	Next(ctx context.Context, namespace string) (string, error)
}

// TaskScheduler creates a follow-up activity for an assignee. Fire-and-forget
// from the state machine's perspective: a scheduling failure never rolls back
// a transition.
type TaskScheduler interface {
	Schedule(ctx context.Context, assignee uuid.UUID, note string, requestID uuid.UUID) error
}

// NotificationSink receives one event per status change. Delivery mechanics
// live behind it.
type NotificationSink interface {
	Post(ctx context.Context, recipients []uuid.UUID, body string, requestID uuid.UUID) error
}

// Directory is the read-only identity lookup surface the request module
// needs. Implemented by the directory module's DirectoryService.
type Directory interface {
	EmployeeByID(ctx context.Context, id uuid.UUID) (employee.Employee, error)
	EmployeeByUserID(ctx context.Context, userID uuid.UUID) (employee.Employee, error)
	SupportAgents(ctx context.Context) ([]uuid.UUID, error)
}
