package request

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAsset    Type = "asset"
	TypeSoftware Type = "software"
	TypeSupport  Type = "support"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeSoftware, TypeSupport:
		return true
	}
	return false
}

// RequiresApproval reports whether the type goes through the manager approval
// step. Support requests go straight to the IT pool.
func (t Type) RequiresApproval() bool {
	return t == TypeAsset || t == TypeSoftware
}

type State string

const (
	StateDraft      State = "draft"
	StateSubmitted  State = "submitted"
	StateApproved   State = "approved"
	StateRejected   State = "rejected"
	StateInProgress State = "in_progress"
	StateDone       State = "done"
)

func (s State) Valid() bool {
	switch s {
	case StateDraft, StateSubmitted, StateApproved, StateRejected, StateInProgress, StateDone:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leads out of s.
func (s State) IsTerminal() bool {
	return s == StateRejected || s == StateDone
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Request is a single IT service ticket. Folio is assigned exactly once at
// creation; the payload in Details is keyed by Type and frozen together with
// the other content fields as soon as the request leaves draft.
type Request struct {
	ID       uuid.UUID
	Folio    string
	Type     Type
	State    State
	Priority Priority

	EmployeeID   uuid.UUID
	Description  string
	DateRequired time.Time
	Details      Details

	ApprovedBy    uuid.UUID
	ApprovedAt    *time.Time
	RejectReason  string
	AssignedAgent uuid.UUID
	Resolution    string
	SubmittedAt   *time.Time
	DoneAt        *time.Time

	// Version is the optimistic-concurrency token checked by the repository
	// on every update.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns a draft request. The folio must come from the sequence
// allocator; creation without one is not allowed.
func New(folio string, typ Type, employeeID uuid.UUID) Request {
	return Request{
		Folio:      folio,
		Type:       typ,
		State:      StateDraft,
		Priority:   PriorityMedium,
		EmployeeID: employeeID,
	}
}

func (r Request) DaysSinceCreation(now time.Time) int {
	if r.CreatedAt.IsZero() {
		return 0
	}
	return int(now.Sub(r.CreatedAt).Hours() / 24)
}

func (r Request) DaysInCurrentState(now time.Time) int {
	var stateDate *time.Time
	switch r.State {
	case StateSubmitted:
		stateDate = r.SubmittedAt
	case StateApproved:
		stateDate = r.ApprovedAt
	case StateInProgress:
		if r.ApprovedAt != nil {
			stateDate = r.ApprovedAt
		} else {
			stateDate = r.SubmittedAt
		}
	case StateDone:
		stateDate = r.DoneAt
	}
	if stateDate == nil || stateDate.IsZero() {
		return 0
	}
	return int(now.Sub(*stateDate).Hours() / 24)
}

// UrgencyClass is the visual urgency bucket derived from priority and age.
type UrgencyClass string

const (
	UrgencyCalm     UrgencyClass = "calm"
	UrgencyAging    UrgencyClass = "aging"
	UrgencyElevated UrgencyClass = "elevated"
	UrgencyCritical UrgencyClass = "critical"
)

func (r Request) Urgency(now time.Time) UrgencyClass {
	switch {
	case r.State.IsTerminal():
		return UrgencyCalm
	case r.Priority == PriorityHigh:
		return UrgencyCritical
	case r.Priority == PriorityMedium:
		return UrgencyElevated
	case r.DaysSinceCreation(now) > 7:
		return UrgencyAging
	default:
		return UrgencyCalm
	}
}
