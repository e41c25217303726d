package postgres

import (
	"context"
	"database/sql"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const recruitmentColumns = `id, tenant_id, job_title, description, department_id, created_at, updated_at`

func scanRecruitment(row scanner) (*domain.Recruitment, error) {
	rc := &domain.Recruitment{}
	var departmentID sql.NullString
	if err := row.Scan(&rc.ID, &rc.TenantID, &rc.JobTitle, &rc.Description, &departmentID,
		&rc.CreatedAt, &rc.UpdatedAt); err != nil {
		return nil, err
	}
	rc.DepartmentID = departmentID.String
	return rc, nil
}

type recruitmentRepo struct{ t *tenantStore }

func (r *recruitmentRepo) Create(ctx context.Context, rc *domain.Recruitment) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if rc.ID == "" {
		rc.ID = newID()
	}
	ts := now()
	rc.TenantID, rc.CreatedAt, rc.UpdatedAt = tid, ts, ts
	return r.t.exec(ctx, "create recruitment", `
		INSERT INTO recruitments (tenant_id, id, job_title, description, department_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, tid, rc.ID, rc.JobTitle, rc.Description, nullable(rc.DepartmentID), ts)
}

func (r *recruitmentRepo) Get(ctx context.Context, id string) (*domain.Recruitment, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rc, err := scanRecruitment(r.t.q.QueryRowContext(ctx,
		`SELECT `+recruitmentColumns+` FROM recruitments WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get recruitment", err)
	}
	return rc, nil
}

func (r *recruitmentRepo) List(ctx context.Context) ([]*domain.Recruitment, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+recruitmentColumns+` FROM recruitments WHERE tenant_id = $1 ORDER BY created_at`, tid)
	if err != nil {
		return nil, r.t.fail("list recruitments", err)
	}
	return collect(rows, scanRecruitment)
}

func (r *recruitmentRepo) Update(ctx context.Context, rc *domain.Recruitment) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	rc.UpdatedAt = now()
	return r.t.exec(ctx, "update recruitment", `
		UPDATE recruitments SET job_title = $3, description = $4, department_id = $5, updated_at = $6
		WHERE tenant_id = $1 AND id = $2
	`, tid, rc.ID, rc.JobTitle, rc.Description, nullable(rc.DepartmentID), rc.UpdatedAt)
}

func (r *recruitmentRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete recruitment", `DELETE FROM recruitments WHERE tenant_id = $1 AND id = $2`, tid, id)
}
