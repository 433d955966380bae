package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/modules/itrequest/domain/aggregates/request"
	"github.com/mexilacteos/itdesk/pkg/composables"
	"github.com/mexilacteos/itdesk/pkg/eventbus"
)

// RequestService owns the request lifecycle. Every transition runs as one
// transaction: guard check, field mutation and the optimistic version check
// commit together or not at all. Events fan out only after a successful
// commit.
type RequestService struct {
	repo      request.Repository
	sequences SequenceAllocator
	directory Directory
	publisher eventbus.EventBus

	folioNamespace string
	now            func() time.Time
}

func NewRequestService(
	repo request.Repository,
	sequences SequenceAllocator,
	directory Directory,
	publisher eventbus.EventBus,
	folioNamespace string,
) *RequestService {
	return &RequestService{
		repo:           repo,
		sequences:      sequences,
		directory:      directory,
		publisher:      publisher,
		folioNamespace: folioNamespace,
		now:            time.Now,
	}
}

func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (request.Request, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (request.Request, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *RequestService) GetByFolio(ctx context.Context, folio string) (request.Request, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (request.Request, error) {
		return s.repo.GetByFolio(txCtx, folio)
	})
}

func (s *RequestService) GetPaginated(ctx context.Context, params *request.FindParams) ([]request.Request, int64, error) {
	var total int64
	items, err := composables.InTxResult(ctx, func(txCtx context.Context) ([]request.Request, error) {
		var innerErr error
		items, count, innerErr := s.repo.GetPaginated(txCtx, params)
		total = count
		return items, innerErr
	})
	return items, total, err
}

func (s *RequestService) Count(ctx context.Context) (int64, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

// Create allocates a folio and stores the draft. A failed allocation fails
// the whole creation.
func (s *RequestService) Create(ctx context.Context, dto *request.CreateDTO) (request.Request, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return request.Request{}, err
	}
	dto.Normalize()
	if errs, ok := dto.Ok(); !ok {
		return request.Request{}, errs
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (request.Request, error) {
		folio, err := s.sequences.Next(txCtx, s.folioNamespace)
		if err != nil {
			return request.Request{}, err
		}
		entity, err := dto.ToEntity(folio, s.now())
		if err != nil {
			return request.Request{}, err
		}
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return request.Request{}, err
	}

	s.publisher.Publish(request.CreatedEvent{Request: created, Actor: actor})
	return created, nil
}

// Update applies a guarded field patch. Content fields are rejected outside
// draft; the mutability guard runs before any field is written.
func (s *RequestService) Update(ctx context.Context, id uuid.UUID, dto *request.UpdateDTO) (request.Request, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return request.Request{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return request.Request{}, errs
	}

	var agentChanged bool
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (request.Request, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return request.Request{}, err
		}
		patch := dto.ToPatch()
		next, err := entity.Apply(patch)
		if err != nil {
			return request.Request{}, err
		}
		agentChanged = patch.AssignedAgent != nil && *patch.AssignedAgent != entity.AssignedAgent
		return s.repo.Update(txCtx, next)
	})
	if err != nil {
		return request.Request{}, err
	}

	if agentChanged {
		s.publisher.Publish(request.AgentAssignedEvent{Request: updated, Actor: actor})
	}
	return updated, nil
}

func (s *RequestService) Submit(ctx context.Context, id uuid.UUID) (request.Request, error) {
	var event request.SubmittedEvent
	updated, err := s.transition(ctx, id, func(entity request.Request, actor composables.Actor, txCtx context.Context) (request.Request, error) {
		var pool []uuid.UUID
		if entity.Type == request.TypeSupport {
			var err error
			pool, err = s.directory.SupportAgents(txCtx)
			if err != nil {
				return request.Request{}, err
			}
		}
		next, ev, err := request.Submit(entity, actor, pool, s.now())
		event = ev
		return next, err
	})
	if err != nil {
		return request.Request{}, err
	}
	event.Request = updated
	s.publisher.Publish(event)
	return updated, nil
}

func (s *RequestService) Approve(ctx context.Context, id uuid.UUID) (request.Request, error) {
	var event request.ApprovedEvent
	updated, err := s.transition(ctx, id, func(entity request.Request, actor composables.Actor, _ context.Context) (request.Request, error) {
		next, ev, err := request.Approve(entity, actor, s.now())
		event = ev
		return next, err
	})
	if err != nil {
		return request.Request{}, err
	}
	event.Request = updated
	s.publisher.Publish(event)
	return updated, nil
}

func (s *RequestService) Reject(ctx context.Context, id uuid.UUID, reason string) (request.Request, error) {
	var event request.RejectedEvent
	updated, err := s.transition(ctx, id, func(entity request.Request, actor composables.Actor, _ context.Context) (request.Request, error) {
		next, ev, err := request.Reject(entity, actor, reason)
		event = ev
		return next, err
	})
	if err != nil {
		return request.Request{}, err
	}
	event.Request = updated
	s.publisher.Publish(event)
	return updated, nil
}

func (s *RequestService) Start(ctx context.Context, id uuid.UUID) (request.Request, error) {
	var event request.StartedEvent
	updated, err := s.transition(ctx, id, func(entity request.Request, actor composables.Actor, _ context.Context) (request.Request, error) {
		next, ev, err := request.Start(entity, actor)
		event = ev
		return next, err
	})
	if err != nil {
		return request.Request{}, err
	}
	event.Request = updated
	s.publisher.Publish(event)
	return updated, nil
}

func (s *RequestService) Complete(ctx context.Context, id uuid.UUID, resolution string) (request.Request, error) {
	var event request.CompletedEvent
	updated, err := s.transition(ctx, id, func(entity request.Request, actor composables.Actor, _ context.Context) (request.Request, error) {
		next, ev, err := request.Complete(entity, actor, resolution, s.now())
		event = ev
		return next, err
	})
	if err != nil {
		return request.Request{}, err
	}
	event.Request = updated
	s.publisher.Publish(event)
	return updated, nil
}

func (s *RequestService) transition(
	ctx context.Context,
	id uuid.UUID,
	fn func(entity request.Request, actor composables.Actor, txCtx context.Context) (request.Request, error),
) (request.Request, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return request.Request{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (request.Request, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return request.Request{}, err
		}
		next, err := fn(entity, actor, txCtx)
		if err != nil {
			return request.Request{}, err
		}
		return s.repo.Update(txCtx, next)
	})
}
