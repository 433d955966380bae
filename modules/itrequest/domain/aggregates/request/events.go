package request

import (
	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/pkg/composables"
)

// Transition events carry the post-transition snapshot and the acting
// identity. They are published after the transition commits; subscribers
// handle notification fan-out and task scheduling.

type SubmittedEvent struct {
	Request Request
	Actor   composables.Actor
	// AgentPool is the support-agent pool at submission time, used to fan
	// out attention tasks for support requests.
	AgentPool []uuid.UUID
}

type ApprovedEvent struct {
	Request Request
	Actor   composables.Actor
}

type RejectedEvent struct {
	Request Request
	Actor   composables.Actor
	Reason  string
}

type StartedEvent struct {
	Request Request
	Actor   composables.Actor
}

type CompletedEvent struct {
	Request    Request
	Actor      composables.Actor
	Resolution string
}

type CreatedEvent struct {
	Request Request
	Actor   composables.Actor
}

type AgentAssignedEvent struct {
	Request Request
	Actor   composables.Actor
}
