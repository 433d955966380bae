package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mexilacteos/itdesk/modules/directory/domain/entities/equipment"
	"github.com/mexilacteos/itdesk/pkg/composables"
)

// EquipmentService lists assigned hardware for display alongside a request.
type EquipmentService struct {
	repo equipment.Repository
}

func NewEquipmentService(repo equipment.Repository) *EquipmentService {
	return &EquipmentService{repo: repo}
}

func (s *EquipmentService) ForEmployee(ctx context.Context, employeeID uuid.UUID) ([]equipment.Equipment, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]equipment.Equipment, error) {
		return s.repo.GetByEmployee(txCtx, employeeID)
	})
}

func (s *EquipmentService) ForDepartment(ctx context.Context, department string) ([]equipment.Equipment, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]equipment.Equipment, error) {
		return s.repo.GetByDepartment(txCtx, department)
	})
}
