package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/mexilacteos/itdesk/modules/itrequest/domain/aggregates/request"
	"github.com/mexilacteos/itdesk/pkg/composables"
	"github.com/mexilacteos/itdesk/pkg/eventbus"
)

// RequestNotifier turns lifecycle events into status notifications and
// follow-up tasks. It runs off the event bus, outside the transition
// transaction: a delivery or scheduling failure is logged and dropped, it
// never affects the request itself.
type RequestNotifier struct {
	pool      *pgxpool.Pool
	directory Directory
	scheduler TaskScheduler
	sink      NotificationSink
	log       *logrus.Logger
}

func NewRequestNotifier(
	pool *pgxpool.Pool,
	directory Directory,
	scheduler TaskScheduler,
	sink NotificationSink,
	log *logrus.Logger,
) *RequestNotifier {
	return &RequestNotifier{
		pool:      pool,
		directory: directory,
		scheduler: scheduler,
		sink:      sink,
		log:       log,
	}
}

func (n *RequestNotifier) Register(bus eventbus.EventBus) {
	bus.Subscribe(n.onSubmitted)
	bus.Subscribe(n.onApproved)
	bus.Subscribe(n.onRejected)
	bus.Subscribe(n.onStarted)
	bus.Subscribe(n.onCompleted)
	bus.Subscribe(n.onAgentAssigned)
}

func (n *RequestNotifier) onSubmitted(event request.SubmittedEvent) {
	ctx := n.background()
	r := event.Request

	n.notify(ctx, r, fmt.Sprintf("→ Submitted by %s", n.requesterName(ctx, r, event.Actor.Name)))

	if r.Type.RequiresApproval() {
		manager := n.managerUserID(ctx, r.EmployeeID)
		if manager != uuid.Nil {
			n.schedule(ctx, r, manager, fmt.Sprintf("Please review and approve request %s", r.Folio))
		}
		return
	}
	// Support requests skip approval; every agent in the pool gets an
	// attention task so whoever is free can pick it up.
	for _, agent := range event.AgentPool {
		n.schedule(ctx, r, agent, fmt.Sprintf("Support request %s needs attention", r.Folio))
	}
}

func (n *RequestNotifier) onApproved(event request.ApprovedEvent) {
	ctx := n.background()
	r := event.Request

	n.notify(ctx, r, fmt.Sprintf("→ Approved by %s", event.Actor.Name))

	if r.AssignedAgent != uuid.Nil {
		n.schedule(ctx, r, r.AssignedAgent, fmt.Sprintf("Work on approved request %s", r.Folio))
		return
	}
	n.schedule(ctx, r, event.Actor.UserID, fmt.Sprintf("Assign an IT technician to request %s", r.Folio))
}

func (n *RequestNotifier) onRejected(event request.RejectedEvent) {
	ctx := n.background()
	n.notify(ctx, event.Request, fmt.Sprintf("→ Rejected by %s. Reason: %s", event.Actor.Name, event.Reason))
}

func (n *RequestNotifier) onStarted(event request.StartedEvent) {
	ctx := n.background()
	n.notify(ctx, event.Request, fmt.Sprintf("→ Work started by %s", n.agentName(ctx, event.Request, event.Actor.Name)))
}

func (n *RequestNotifier) onCompleted(event request.CompletedEvent) {
	ctx := n.background()
	n.notify(ctx, event.Request, fmt.Sprintf("→ Completed by %s. Resolution: %s", event.Actor.Name, event.Resolution))
}

func (n *RequestNotifier) onAgentAssigned(event request.AgentAssignedEvent) {
	if event.Request.State != request.StateApproved {
		return
	}
	ctx := n.background()
	n.schedule(ctx, event.Request, event.Request.AssignedAgent, fmt.Sprintf("Work on approved request %s", event.Request.Folio))
}

func (n *RequestNotifier) notify(ctx context.Context, r request.Request, body string) {
	recipients := n.recipients(ctx, r)
	if len(recipients) == 0 {
		return
	}
	if err := n.sink.Post(ctx, recipients, body, r.ID); err != nil {
		n.log.WithError(err).WithField("request", r.Folio).Warn("notification delivery failed")
	}
}

func (n *RequestNotifier) schedule(ctx context.Context, r request.Request, assignee uuid.UUID, note string) {
	if err := n.scheduler.Schedule(ctx, assignee, note, r.ID); err != nil {
		n.log.WithError(err).WithField("request", r.Folio).Warn("task scheduling failed")
	}
}

// recipients resolves the follower set for a request: the requesting
// employee, their manager, whoever approved and the assigned agent.
// Insertion-ordered, deduplicated, Nil entries skipped.
func (n *RequestNotifier) recipients(ctx context.Context, r request.Request) []uuid.UUID {
	var candidates []uuid.UUID

	emp, err := n.directory.EmployeeByID(ctx, r.EmployeeID)
	if err != nil {
		n.log.WithError(err).WithField("request", r.Folio).Warn("employee lookup failed")
	} else {
		candidates = append(candidates, emp.UserID())
		if emp.ManagerID() != uuid.Nil {
			candidates = append(candidates, n.userIDOf(ctx, r, emp.ManagerID()))
		}
	}
	candidates = append(candidates, r.ApprovedBy, r.AssignedAgent)

	seen := make(map[uuid.UUID]struct{}, len(candidates))
	out := make([]uuid.UUID, 0, len(candidates))
	for _, id := range candidates {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// requesterName resolves the requesting employee's display name, falling
// back when the directory lookup fails.
func (n *RequestNotifier) requesterName(ctx context.Context, r request.Request, fallback string) string {
	emp, err := n.directory.EmployeeByID(ctx, r.EmployeeID)
	if err != nil {
		return fallback
	}
	return emp.Name()
}

// agentName resolves the assigned agent's display name, falling back when
// no agent record exists for the user.
func (n *RequestNotifier) agentName(ctx context.Context, r request.Request, fallback string) string {
	emp, err := n.directory.EmployeeByUserID(ctx, r.AssignedAgent)
	if err != nil {
		return fallback
	}
	return emp.Name()
}

func (n *RequestNotifier) managerUserID(ctx context.Context, employeeID uuid.UUID) uuid.UUID {
	emp, err := n.directory.EmployeeByID(ctx, employeeID)
	if err != nil || emp.ManagerID() == uuid.Nil {
		return uuid.Nil
	}
	return n.userIDOf(ctx, request.Request{}, emp.ManagerID())
}

func (n *RequestNotifier) userIDOf(ctx context.Context, r request.Request, employeeID uuid.UUID) uuid.UUID {
	emp, err := n.directory.EmployeeByID(ctx, employeeID)
	if err != nil {
		n.log.WithError(err).WithField("request", r.Folio).Warn("manager lookup failed")
		return uuid.Nil
	}
	return emp.UserID()
}

// background builds a pool-bearing context for handlers, which run outside
// any request scope.
func (n *RequestNotifier) background() context.Context {
	ctx := context.Background()
	if n.pool != nil {
		ctx = composables.WithPool(ctx, n.pool)
	}
	return ctx
}
