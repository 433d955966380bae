package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mexilacteos/itdesk/modules/directory/domain/entities/equipment"
	"github.com/mexilacteos/itdesk/pkg/composables"
)

const equipmentFindQuery = `
        SELECT
            q.id,
            q.name,
            q.serial_no,
            q.employee_id,
            q.department,
            q.assigned_at
        FROM equipment q`

type PgEquipmentRepository struct{}

func NewEquipmentRepository() equipment.Repository {
	return &PgEquipmentRepository{}
}

func (g *PgEquipmentRepository) GetByEmployee(ctx context.Context, employeeID uuid.UUID) ([]equipment.Equipment, error) {
	return g.getMany(ctx, equipmentFindQuery+" WHERE q.employee_id = $1 ORDER BY q.assigned_at DESC", employeeID)
}

func (g *PgEquipmentRepository) GetByDepartment(ctx context.Context, department string) ([]equipment.Equipment, error) {
	return g.getMany(ctx, equipmentFindQuery+" WHERE q.department = $1 ORDER BY q.assigned_at DESC", department)
}

func (g *PgEquipmentRepository) getMany(ctx context.Context, query string, args ...any) ([]equipment.Equipment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []equipment.Equipment
	for rows.Next() {
		var (
			item       equipment.Equipment
			id         pgtype.UUID
			employeeID pgtype.UUID
			assignedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &item.Name, &item.SerialNo, &employeeID, &item.Department, &assignedAt); err != nil {
			return nil, err
		}
		item.ID = asUUID(id)
		item.EmployeeID = asUUID(employeeID)
		item.AssignedAt = assignedAt.Time
		out = append(out, item)
	}
	return out, rows.Err()
}
