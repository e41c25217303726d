package postgres

import (
	"context"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const leaveColumns = `id, tenant_id, employee_id, title, reason, start_date, end_date, status, approved_by,
	created_at, updated_at`

func scanLeave(row scanner) (*domain.Leave, error) {
	l := &domain.Leave{}
	var status string
	err := row.Scan(&l.ID, &l.TenantID, &l.EmployeeID, &l.Title, &l.Reason, &l.StartDate, &l.EndDate,
		&status, &l.ApprovedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Status = domain.LeaveStatus(status)
	return l, nil
}

type leaveRepo struct{ t *tenantStore }

func (r *leaveRepo) Create(ctx context.Context, l *domain.Leave) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = newID()
	}
	ts := now()
	l.TenantID, l.CreatedAt, l.UpdatedAt = tid, ts, ts
	return r.t.exec(ctx, "create leave", `
		INSERT INTO leaves (tenant_id, id, employee_id, title, reason, start_date, end_date, status, approved_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`, tid, l.ID, l.EmployeeID, l.Title, l.Reason, l.StartDate, l.EndDate, string(l.Status), l.ApprovedBy, ts)
}

func (r *leaveRepo) Get(ctx context.Context, id string) (*domain.Leave, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	l, err := scanLeave(r.t.q.QueryRowContext(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get leave", err)
	}
	return l, nil
}

func (r *leaveRepo) List(ctx context.Context) ([]*domain.Leave, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE tenant_id = $1 ORDER BY created_at`, tid)
	if err != nil {
		return nil, r.t.fail("list leaves", err)
	}
	return collect(rows, scanLeave)
}

func (r *leaveRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Leave, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE tenant_id = $1 AND employee_id = $2 ORDER BY created_at`,
		tid, employeeID)
	if err != nil {
		return nil, r.t.fail("list employee leaves", err)
	}
	return collect(rows, scanLeave)
}

func (r *leaveRepo) Update(ctx context.Context, l *domain.Leave) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	l.UpdatedAt = now()
	return r.t.exec(ctx, "update leave", `
		UPDATE leaves
		SET title = $3, reason = $4, start_date = $5, end_date = $6, status = $7, approved_by = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2
	`, tid, l.ID, l.Title, l.Reason, l.StartDate, l.EndDate, string(l.Status), l.ApprovedBy, l.UpdatedAt)
}

func (r *leaveRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete leave", `DELETE FROM leaves WHERE tenant_id = $1 AND id = $2`, tid, id)
}

func (r *leaveRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.execMany(ctx, "delete employee leaves",
		`DELETE FROM leaves WHERE tenant_id = $1 AND employee_id = $2`, tid, employeeID)
}
