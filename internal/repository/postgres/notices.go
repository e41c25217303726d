package postgres

import (
	"context"
	"database/sql"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const noticeColumns = `id, tenant_id, title, content, audience, department_id, employee_id, created_by,
	created_at, updated_at`

func scanNotice(row scanner) (*domain.Notice, error) {
	n := &domain.Notice{}
	var audience string
	var departmentID, employeeID sql.NullString
	err := row.Scan(&n.ID, &n.TenantID, &n.Title, &n.Content, &audience, &departmentID, &employeeID,
		&n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.Audience = domain.NoticeAudience(audience)
	n.DepartmentID = departmentID.String
	n.EmployeeID = employeeID.String
	return n, nil
}

type noticeRepo struct{ t *tenantStore }

func (r *noticeRepo) Create(ctx context.Context, n *domain.Notice) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = newID()
	}
	ts := now()
	n.TenantID, n.CreatedAt, n.UpdatedAt = tid, ts, ts
	return r.t.exec(ctx, "create notice", `
		INSERT INTO notices (tenant_id, id, title, content, audience, department_id, employee_id, created_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`, tid, n.ID, n.Title, n.Content, string(n.Audience), nullable(n.DepartmentID), nullable(n.EmployeeID),
		n.CreatedBy, ts)
}

func (r *noticeRepo) Get(ctx context.Context, id string) (*domain.Notice, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	n, err := scanNotice(r.t.q.QueryRowContext(ctx,
		`SELECT `+noticeColumns+` FROM notices WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get notice", err)
	}
	return n, nil
}

func (r *noticeRepo) List(ctx context.Context) ([]*domain.Notice, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+noticeColumns+` FROM notices WHERE tenant_id = $1 ORDER BY created_at DESC`, tid)
	if err != nil {
		return nil, r.t.fail("list notices", err)
	}
	return collect(rows, scanNotice)
}

func (r *noticeRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete notice", `DELETE FROM notices WHERE tenant_id = $1 AND id = $2`, tid, id)
}

func (r *noticeRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.execMany(ctx, "delete employee notices",
		`DELETE FROM notices WHERE tenant_id = $1 AND employee_id = $2`, tid, employeeID)
}
