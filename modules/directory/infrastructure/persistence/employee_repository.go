package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mexilacteos/itdesk/modules/directory/domain/entities/employee"
	"github.com/mexilacteos/itdesk/pkg/composables"
)

const (
	employeeFindQuery = `
        SELECT
            e.id,
            e.user_id,
            e.name,
            e.department,
            e.job_title,
            e.manager_id,
            e.support_agent,
            e.created_at,
            e.updated_at
        FROM employees e`

	employeeCountQuery = `SELECT COUNT(e.id) FROM employees e`

	employeeInsertQuery = `
        INSERT INTO employees (user_id, name, department, job_title, manager_id, support_agent)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, user_id, name, department, job_title, manager_id, support_agent, created_at, updated_at`
)

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (g *PgEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	return g.getOne(ctx, employeeFindQuery+" WHERE e.id = $1", id)
}

func (g *PgEmployeeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (employee.Employee, error) {
	return g.getOne(ctx, employeeFindQuery+" WHERE e.user_id = $1", userID)
}

func (g *PgEmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	return g.getMany(ctx, employeeFindQuery+" ORDER BY e.name")
}

func (g *PgEmployeeRepository) SupportAgents(ctx context.Context) ([]employee.Employee, error) {
	return g.getMany(ctx, employeeFindQuery+" WHERE e.support_agent ORDER BY e.created_at, e.id")
}

func (g *PgEmployeeRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, employeeCountQuery).Scan(&count); err != nil {
		return 0, gerrors.Wrap(err, "failed to count employees")
	}
	return count, nil
}

func (g *PgEmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	row := tx.QueryRow(
		ctx,
		employeeInsertQuery,
		pgUUID(e.UserID()),
		e.Name(),
		e.Department(),
		e.JobTitle(),
		pgUUIDOrNull(e.ManagerID()),
		e.IsSupportAgent(),
	)
	created, err := scanEmployee(row)
	if err != nil {
		return employee.Employee{}, gerrors.Wrap(err, "failed to create employee")
	}
	return created, nil
}

func (g *PgEmployeeRepository) getOne(ctx context.Context, query string, args ...any) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	e, err := scanEmployee(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (g *PgEmployeeRepository) getMany(ctx context.Context, query string, args ...any) ([]employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		id           pgtype.UUID
		userID       pgtype.UUID
		name         string
		department   string
		jobTitle     string
		managerID    pgtype.UUID
		supportAgent bool
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	if err := row.Scan(&id, &userID, &name, &department, &jobTitle, &managerID, &supportAgent, &createdAt, &updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return employee.Hydrate(
		asUUID(id),
		asUUID(userID),
		name,
		department,
		jobTitle,
		asUUID(managerID),
		supportAgent,
		createdAt.Time,
		updatedAt.Time,
	), nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgUUIDOrNull(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgUUID(id)
}

func asUUID(v pgtype.UUID) uuid.UUID {
	if !v.Valid {
		return uuid.Nil
	}
	return uuid.UUID(v.Bytes)
}
