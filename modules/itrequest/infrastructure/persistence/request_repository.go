package persistence

import (
	"context"
	"errors"
	"fmt"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mexilacteos/itdesk/modules/itrequest/domain/aggregates/request"
	"github.com/mexilacteos/itdesk/pkg/composables"
	"github.com/mexilacteos/itdesk/pkg/repo"
)

const (
	requestFindQuery = `
        SELECT
            r.id,
            r.folio,
            r.request_type,
            r.state,
            r.priority,
            r.employee_id,
            r.description,
            r.date_required,
            r.details,
            r.approved_by,
            r.approved_at,
            r.reject_reason,
            r.assigned_agent,
            r.resolution,
            r.submitted_at,
            r.done_at,
            r.version,
            r.created_at,
            r.updated_at
        FROM it_requests r`

	requestCountQuery = `SELECT COUNT(r.id) FROM it_requests r`

	requestInsertQuery = `
        INSERT INTO it_requests (
            folio, request_type, state, priority, employee_id, description,
            date_required, details, assigned_agent
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, folio, request_type, state, priority, employee_id, description,
            date_required, details, approved_by, approved_at, reject_reason,
            assigned_agent, resolution, submitted_at, done_at, version, created_at, updated_at`

	requestUpdateQuery = `
        UPDATE it_requests SET
            request_type = $1,
            state = $2,
            priority = $3,
            employee_id = $4,
            description = $5,
            date_required = $6,
            details = $7,
            approved_by = $8,
            approved_at = $9,
            reject_reason = $10,
            assigned_agent = $11,
            resolution = $12,
            submitted_at = $13,
            done_at = $14,
            version = version + 1,
            updated_at = now()
        WHERE id = $15 AND version = $16
        RETURNING id, folio, request_type, state, priority, employee_id, description,
            date_required, details, approved_by, approved_at, reject_reason,
            assigned_agent, resolution, submitted_at, done_at, version, created_at, updated_at`

	requestExistsQuery = `SELECT EXISTS (SELECT 1 FROM it_requests WHERE id = $1)`
)

type PgRequestRepository struct{}

func NewRequestRepository() request.Repository {
	return &PgRequestRepository{}
}

func (g *PgRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (request.Request, error) {
	return g.getOne(ctx, requestFindQuery+" WHERE r.id = $1", id)
}

func (g *PgRequestRepository) GetByFolio(ctx context.Context, folio string) (request.Request, error) {
	return g.getOne(ctx, requestFindQuery+" WHERE r.folio = $1", folio)
}

func (g *PgRequestRepository) GetPaginated(ctx context.Context, params *request.FindParams) ([]request.Request, int64, error) {
	where, args := requestFilters(params)

	items, err := g.getMany(ctx, repo.Join(
		requestFindQuery,
		where,
		"ORDER BY r.created_at DESC, r.id",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	), args...)
	if err != nil {
		return nil, 0, err
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := tx.QueryRow(ctx, repo.Join(requestCountQuery, where), args...).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "failed to count requests")
	}
	return items, total, nil
}

func (g *PgRequestRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, requestCountQuery).Scan(&count); err != nil {
		return 0, gerrors.Wrap(err, "failed to count requests")
	}
	return count, nil
}

func (g *PgRequestRepository) Create(ctx context.Context, r request.Request) (request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return request.Request{}, err
	}
	details, err := request.MarshalDetails(r.Details)
	if err != nil {
		return request.Request{}, err
	}
	row := tx.QueryRow(
		ctx,
		requestInsertQuery,
		r.Folio,
		string(r.Type),
		string(r.State),
		string(r.Priority),
		pgUUID(r.EmployeeID),
		r.Description,
		r.DateRequired,
		details,
		pgUUIDOrNull(r.AssignedAgent),
	)
	created, err := scanRequest(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return request.Request{}, request.ErrFolioTaken
		}
		return request.Request{}, gerrors.Wrap(err, "failed to create request")
	}
	return created, nil
}

func (g *PgRequestRepository) Update(ctx context.Context, r request.Request) (request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return request.Request{}, err
	}
	details, err := request.MarshalDetails(r.Details)
	if err != nil {
		return request.Request{}, err
	}
	row := tx.QueryRow(
		ctx,
		requestUpdateQuery,
		string(r.Type),
		string(r.State),
		string(r.Priority),
		pgUUID(r.EmployeeID),
		r.Description,
		r.DateRequired,
		details,
		pgUUIDOrNull(r.ApprovedBy),
		r.ApprovedAt,
		r.RejectReason,
		pgUUIDOrNull(r.AssignedAgent),
		r.Resolution,
		r.SubmittedAt,
		r.DoneAt,
		pgUUID(r.ID),
		r.Version,
	)
	updated, err := scanRequest(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return request.Request{}, gerrors.Wrap(err, "failed to update request")
	}

	// No row matched: either the id is gone or the version moved on.
	var exists bool
	if scanErr := tx.QueryRow(ctx, requestExistsQuery, pgUUID(r.ID)).Scan(&exists); scanErr != nil {
		return request.Request{}, gerrors.Wrap(scanErr, "failed to update request")
	}
	if exists {
		return request.Request{}, request.ErrStaleVersion
	}
	return request.Request{}, request.ErrNotFound
}

func requestFilters(params *request.FindParams) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if params.State != "" {
		conditions = append(conditions, "r.state = "+arg(string(params.State)))
	}
	if params.Type != "" {
		conditions = append(conditions, "r.request_type = "+arg(string(params.Type)))
	}
	if params.EmployeeID != uuid.Nil {
		conditions = append(conditions, "r.employee_id = "+arg(pgUUID(params.EmployeeID)))
	}
	if params.AssignedAgent != uuid.Nil {
		conditions = append(conditions, "r.assigned_agent = "+arg(pgUUID(params.AssignedAgent)))
	}
	return repo.JoinWhere(conditions...), args
}

func (g *PgRequestRepository) getOne(ctx context.Context, query string, args ...any) (request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return request.Request{}, err
	}
	r, err := scanRequest(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrNotFound
		}
		return request.Request{}, err
	}
	return r, nil
}

func (g *PgRequestRepository) getMany(ctx context.Context, query string, args ...any) ([]request.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []request.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRequest(row pgx.Row) (request.Request, error) {
	var (
		r             request.Request
		id            pgtype.UUID
		typ           string
		state         string
		priority      string
		employeeID    pgtype.UUID
		dateRequired  pgtype.Timestamptz
		details       []byte
		approvedBy    pgtype.UUID
		approvedAt    pgtype.Timestamptz
		assignedAgent pgtype.UUID
		submittedAt   pgtype.Timestamptz
		doneAt        pgtype.Timestamptz
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	if err := row.Scan(
		&id,
		&r.Folio,
		&typ,
		&state,
		&priority,
		&employeeID,
		&r.Description,
		&dateRequired,
		&details,
		&approvedBy,
		&approvedAt,
		&r.RejectReason,
		&assignedAgent,
		&r.Resolution,
		&submittedAt,
		&doneAt,
		&r.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return request.Request{}, err
	}

	r.ID = asUUID(id)
	r.Type = request.Type(typ)
	r.State = request.State(state)
	r.Priority = request.Priority(priority)
	r.EmployeeID = asUUID(employeeID)
	r.DateRequired = dateRequired.Time
	r.ApprovedBy = asUUID(approvedBy)
	r.AssignedAgent = asUUID(assignedAgent)
	r.CreatedAt = createdAt.Time
	r.UpdatedAt = updatedAt.Time
	if approvedAt.Valid {
		t := approvedAt.Time
		r.ApprovedAt = &t
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		r.SubmittedAt = &t
	}
	if doneAt.Valid {
		t := doneAt.Time
		r.DoneAt = &t
	}

	payload, err := request.UnmarshalDetails(r.Type, details)
	if err != nil {
		return request.Request{}, gerrors.Wrap(err, "failed to decode request details")
	}
	r.Details = payload
	return r, nil
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
