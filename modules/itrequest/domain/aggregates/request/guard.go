package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/pkg/serrors"
)

// Patch is a partial field update. Content fields describe what is being
// requested and freeze once the request leaves draft; workflow metadata stays
// mutable through the whole lifecycle.
type Patch struct {
	// Content fields.
	Type         *Type
	EmployeeID   *uuid.UUID
	Description  *string
	DateRequired *time.Time
	Details      Details

	// Workflow metadata.
	Priority      *Priority
	AssignedAgent *uuid.UUID
	RejectReason  *string
	Resolution    *string
}

// ContentFields lists the content fields the patch touches.
func (p Patch) ContentFields() []string {
	var fields []string
	if p.Type != nil {
		fields = append(fields, "request_type")
	}
	if p.EmployeeID != nil {
		fields = append(fields, "employee")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.DateRequired != nil {
		fields = append(fields, "date_required")
	}
	if p.Details != nil {
		fields = append(fields, "details")
	}
	return fields
}

// Apply enforces the mutability guard and returns the patched snapshot. A
// patch touching any content field outside draft is rejected wholesale; the
// receiver is never modified.
func (r Request) Apply(p Patch) (Request, error) {
	if blocked := p.ContentFields(); len(blocked) > 0 && r.State != StateDraft {
		return r, NewImmutableFieldError(blocked)
	}
	// A recorded rejection reason is part of the audit trail.
	if p.RejectReason != nil && r.State == StateRejected {
		return r, serrors.NewError(CodeImmutableField, "Reject reason cannot be changed after rejection.")
	}

	if p.Type != nil {
		r.Type = *p.Type
		// A new type invalidates the old payload shape unless the patch
		// replaces it in the same call.
		if p.Details == nil {
			details, err := EmptyDetails(*p.Type)
			if err != nil {
				return r, err
			}
			r.Details = details
		}
	}
	if p.EmployeeID != nil {
		r.EmployeeID = *p.EmployeeID
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.DateRequired != nil {
		r.DateRequired = *p.DateRequired
	}
	if p.Details != nil {
		r.Details = p.Details
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.AssignedAgent != nil {
		r.AssignedAgent = *p.AssignedAgent
	}
	if p.RejectReason != nil {
		r.RejectReason = *p.RejectReason
	}
	if p.Resolution != nil {
		r.Resolution = *p.Resolution
	}
	return r, nil
}
