package viewmodels

import (
	"time"

	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/modules/itrequest/domain/aggregates/request"
)

type Request struct {
	ID            string          `json:"id"`
	Folio         string          `json:"folio"`
	Type          string          `json:"request_type"`
	State         string          `json:"state"`
	Priority      string          `json:"priority"`
	EmployeeID    string          `json:"employee_id"`
	Description   string          `json:"description"`
	DateRequired  time.Time       `json:"date_required"`
	Details       request.Details `json:"details"`
	ApprovedBy    string          `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	RejectReason  string          `json:"reject_reason,omitempty"`
	AssignedAgent string          `json:"assigned_agent,omitempty"`
	Resolution    string          `json:"resolution,omitempty"`
	SubmittedAt   *time.Time      `json:"submitted_at,omitempty"`
	DoneAt        *time.Time      `json:"done_at,omitempty"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	DaysOpen    int    `json:"days_open"`
	DaysInState int    `json:"days_in_state"`
	Urgency     string `json:"urgency"`
}

func RequestToViewModel(r request.Request, now time.Time) Request {
	return Request{
		ID:            r.ID.String(),
		Folio:         r.Folio,
		Type:          string(r.Type),
		State:         string(r.State),
		Priority:      string(r.Priority),
		EmployeeID:    r.EmployeeID.String(),
		Description:   r.Description,
		DateRequired:  r.DateRequired,
		Details:       r.Details,
		ApprovedBy:    uuidOrEmpty(r.ApprovedBy),
		ApprovedAt:    r.ApprovedAt,
		RejectReason:  r.RejectReason,
		AssignedAgent: uuidOrEmpty(r.AssignedAgent),
		Resolution:    r.Resolution,
		SubmittedAt:   r.SubmittedAt,
		DoneAt:        r.DoneAt,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		DaysOpen:      r.DaysSinceCreation(now),
		DaysInState:   r.DaysInCurrentState(now),
		Urgency:       string(r.Urgency(now)),
	}
}

func RequestsToViewModels(items []request.Request, now time.Time) []Request {
	out := make([]Request, 0, len(items))
	for _, r := range items {
		out = append(out, RequestToViewModel(r, now))
	}
	return out
}

func uuidOrEmpty(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
