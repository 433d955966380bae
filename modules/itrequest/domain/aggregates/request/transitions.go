package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/pkg/composables"
)

// Transitions are pure: each takes the current snapshot and a command's
// inputs and returns the next snapshot plus the event to fan out, or an error
// with the snapshot untouched. Persistence and side-effect dispatch belong to
// the service layer.

// Submit moves a draft into submitted. Support requests with no assigned
// agent are auto-assigned the first agent of the pool.
func Submit(r Request, actor composables.Actor, agentPool []uuid.UUID, now time.Time) (Request, SubmittedEvent, error) {
	if r.State != StateDraft {
		return r, SubmittedEvent{}, NewIllegalTransitionError("Only draft requests can be submitted.")
	}
	if r.Description == "" {
		return r, SubmittedEvent{}, NewValidationError("Description is required to submit.", "Description")
	}
	if err := ValidateForSubmission(r); err != nil {
		return r, SubmittedEvent{}, err
	}

	r.State = StateSubmitted
	r.SubmittedAt = &now
	if r.Type == TypeSupport && r.AssignedAgent == uuid.Nil && len(agentPool) > 0 {
		r.AssignedAgent = agentPool[0]
	}

	return r, SubmittedEvent{Request: r, Actor: actor, AgentPool: agentPool}, nil
}

// Approve records the approving actor exactly once and unlocks fulfillment.
// Support requests have no approval step.
func Approve(r Request, actor composables.Actor, now time.Time) (Request, ApprovedEvent, error) {
	if r.State != StateSubmitted {
		return r, ApprovedEvent{}, NewIllegalTransitionError("Only submitted requests can be approved.")
	}
	if !r.Type.RequiresApproval() {
		return r, ApprovedEvent{}, NewIllegalTransitionError("Only asset or software requests can be approved.")
	}

	r.State = StateApproved
	r.ApprovedBy = actor.UserID
	r.ApprovedAt = &now

	return r, ApprovedEvent{Request: r, Actor: actor}, nil
}

// Reject requires a reason. An empty reason argument falls back to one
// already recorded on the request.
func Reject(r Request, actor composables.Actor, reason string) (Request, RejectedEvent, error) {
	if r.State != StateSubmitted {
		return r, RejectedEvent{}, NewIllegalTransitionError("Only submitted requests can be rejected.")
	}
	if !r.Type.RequiresApproval() {
		return r, RejectedEvent{}, NewIllegalTransitionError("Only asset or software requests can be rejected.")
	}
	if reason == "" {
		reason = r.RejectReason
	}
	if reason == "" {
		return r, RejectedEvent{}, NewValidationError("Reject reason is required.", "Reject reason")
	}

	r.State = StateRejected
	r.RejectReason = reason

	return r, RejectedEvent{Request: r, Actor: actor, Reason: reason}, nil
}

// Start moves into in_progress: support from submitted, asset/software from
// approved. An agent must already be assigned; the state machine never
// assigns one silently here.
func Start(r Request, actor composables.Actor) (Request, StartedEvent, error) {
	if r.Type == TypeSupport {
		if r.State != StateSubmitted {
			return r, StartedEvent{}, NewIllegalTransitionError("Support requests must be submitted to start.")
		}
	} else {
		if r.State != StateApproved {
			return r, StartedEvent{}, NewIllegalTransitionError("Asset/software requests must be approved to start.")
		}
	}
	if r.AssignedAgent == uuid.Nil {
		return r, StartedEvent{}, NewMissingAssignmentError()
	}

	r.State = StateInProgress

	return r, StartedEvent{Request: r, Actor: actor}, nil
}

// Complete closes an in-progress request with its resolution. An empty
// resolution argument falls back to one already recorded.
func Complete(r Request, actor composables.Actor, resolution string, now time.Time) (Request, CompletedEvent, error) {
	if r.State != StateInProgress {
		return r, CompletedEvent{}, NewIllegalTransitionError("Only in-progress requests can be done.")
	}
	if resolution == "" {
		resolution = r.Resolution
	}
	if resolution == "" {
		return r, CompletedEvent{}, NewValidationError("Resolution is required to finish.", "Resolution")
	}

	r.State = StateDone
	r.Resolution = resolution
	r.DoneAt = &now

	return r, CompletedEvent{Request: r, Actor: actor, Resolution: resolution}, nil
}
