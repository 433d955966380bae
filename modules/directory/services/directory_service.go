package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/modules/directory/domain/entities/employee"
	"github.com/mexilacteos/itdesk/pkg/composables"
)

// DirectoryService answers identity lookups for the rest of the system:
// who the acting user is as an employee, who manages whom, and which user
// accounts form the support-agent pool.
type DirectoryService struct {
	repo employee.Repository
}

func NewDirectoryService(repo employee.Repository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

func (s *DirectoryService) EmployeeByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *DirectoryService) EmployeeByUserID(ctx context.Context, userID uuid.UUID) (employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.GetByUserID(txCtx, userID)
	})
}

// CurrentEmployee resolves the acting identity to its directory entry.
func (s *DirectoryService) CurrentEmployee(ctx context.Context) (employee.Employee, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	return s.EmployeeByUserID(ctx, actor.UserID)
}

func (s *DirectoryService) GetAll(ctx context.Context) ([]employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]employee.Employee, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *DirectoryService) Count(ctx context.Context) (int64, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *DirectoryService) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.Create(txCtx, e)
	})
}

// SupportAgents returns the user ids of the support-agent pool, in the
// repository's stable order.
func (s *DirectoryService) SupportAgents(ctx context.Context) ([]uuid.UUID, error) {
	agents, err := composables.InTxResult(ctx, func(txCtx context.Context) ([]employee.Employee, error) {
		return s.repo.SupportAgents(txCtx)
	})
	if err != nil {
		return nil, err
	}
	userIDs := make([]uuid.UUID, 0, len(agents))
	for _, a := range agents {
		if a.UserID() != uuid.Nil {
			userIDs = append(userIDs, a.UserID())
		}
	}
	return userIDs, nil
}
