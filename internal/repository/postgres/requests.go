package postgres

import (
	"context"
	"database/sql"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const requestColumns = `id, tenant_id, title, content, employee_id, department_id, status, priority,
	request_type, created_by, approved_by, hr_comments, closed_by, closed_at, created_at, updated_at`

func scanRequest(row scanner) (*domain.GenerateRequest, error) {
	g := &domain.GenerateRequest{}
	var departmentID sql.NullString
	var closedAt sql.NullTime
	var status, priority, requestType, createdBy string
	err := row.Scan(
		&g.ID,
		&g.TenantID,
		&g.Title,
		&g.Content,
		&g.EmployeeID,
		&departmentID,
		&status,
		&priority,
		&requestType,
		&createdBy,
		&g.ApprovedBy,
		&g.HRComments,
		&g.ClosedBy,
		&closedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.DepartmentID = departmentID.String
	g.ClosedAt = timePtr(closedAt)
	g.Status = domain.RequestStatus(status)
	g.Priority = domain.Priority(priority)
	g.RequestType = domain.RequestType(requestType)
	g.CreatedBy = domain.Role(createdBy)
	return g, nil
}

type requestRepo struct{ t *tenantStore }

func (r *requestRepo) Create(ctx context.Context, g *domain.GenerateRequest) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if g.ID == "" {
		g.ID = newID()
	}
	ts := now()
	g.TenantID, g.CreatedAt, g.UpdatedAt = tid, ts, ts
	return r.t.exec(ctx, "create request", `
		INSERT INTO generate_requests (tenant_id, id, title, content, employee_id, department_id, status, priority,
			request_type, created_by, approved_by, hr_comments, closed_by, closed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
	`,
		tid,
		g.ID,
		g.Title,
		g.Content,
		g.EmployeeID,
		nullable(g.DepartmentID),
		string(g.Status),
		string(g.Priority),
		string(g.RequestType),
		string(g.CreatedBy),
		g.ApprovedBy,
		g.HRComments,
		g.ClosedBy,
		nullTime(g.ClosedAt),
		ts,
	)
}

func (r *requestRepo) Get(ctx context.Context, id string) (*domain.GenerateRequest, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	g, err := scanRequest(r.t.q.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM generate_requests WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get request", err)
	}
	return g, nil
}

func (r *requestRepo) List(ctx context.Context) ([]*domain.GenerateRequest, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM generate_requests WHERE tenant_id = $1 ORDER BY created_at`, tid)
	if err != nil {
		return nil, r.t.fail("list requests", err)
	}
	return collect(rows, scanRequest)
}

func (r *requestRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.GenerateRequest, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM generate_requests WHERE tenant_id = $1 AND employee_id = $2 ORDER BY created_at`,
		tid, employeeID)
	if err != nil {
		return nil, r.t.fail("list employee requests", err)
	}
	return collect(rows, scanRequest)
}

func (r *requestRepo) Update(ctx context.Context, g *domain.GenerateRequest) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	g.UpdatedAt = now()
	return r.t.exec(ctx, "update request", `
		UPDATE generate_requests
		SET title = $3, content = $4, department_id = $5, status = $6, priority = $7, request_type = $8,
		    approved_by = $9, hr_comments = $10, closed_by = $11, closed_at = $12, updated_at = $13
		WHERE tenant_id = $1 AND id = $2
	`,
		tid,
		g.ID,
		g.Title,
		g.Content,
		nullable(g.DepartmentID),
		string(g.Status),
		string(g.Priority),
		string(g.RequestType),
		g.ApprovedBy,
		g.HRComments,
		g.ClosedBy,
		nullTime(g.ClosedAt),
		g.UpdatedAt,
	)
}

func (r *requestRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete request", `DELETE FROM generate_requests WHERE tenant_id = $1 AND id = $2`, tid, id)
}

func (r *requestRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.execMany(ctx, "delete employee requests",
		`DELETE FROM generate_requests WHERE tenant_id = $1 AND employee_id = $2`, tid, employeeID)
}
