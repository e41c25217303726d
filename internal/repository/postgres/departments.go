package postgres

import (
	"context"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const departmentColumns = `id, tenant_id, name, description, created_at, updated_at`

func scanDepartment(row scanner) (*domain.Department, error) {
	d := &domain.Department{}
	if err := row.Scan(&d.ID, &d.TenantID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return d, nil
}

type departmentRepo struct{ t *tenantStore }

func (r *departmentRepo) Create(ctx context.Context, d *domain.Department) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = newID()
	}
	ts := now()
	d.TenantID, d.CreatedAt, d.UpdatedAt = tid, ts, ts
	return r.t.exec(ctx, "create department", `
		INSERT INTO departments (tenant_id, id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, tid, d.ID, d.Name, d.Description, ts)
}

func (r *departmentRepo) Get(ctx context.Context, id string) (*domain.Department, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	d, err := scanDepartment(r.t.q.QueryRowContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get department", err)
	}
	return d, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]*domain.Department, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE tenant_id = $1 ORDER BY created_at`, tid)
	if err != nil {
		return nil, r.t.fail("list departments", err)
	}
	return collect(rows, scanDepartment)
}

func (r *departmentRepo) Update(ctx context.Context, d *domain.Department) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	d.UpdatedAt = now()
	return r.t.exec(ctx, "update department", `
		UPDATE departments SET name = $3, description = $4, updated_at = $5
		WHERE tenant_id = $1 AND id = $2
	`, tid, d.ID, d.Name, d.Description, d.UpdatedAt)
}

func (r *departmentRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete department", `DELETE FROM departments WHERE tenant_id = $1 AND id = $2`, tid, id)
}
