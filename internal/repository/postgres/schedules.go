package postgres

import (
	"context"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const scheduleColumns = `id, tenant_id, employee_id, day, start_time, end_time, shift, location, notes, status,
	created_by, created_at, updated_at`

func scanSchedule(row scanner) (*domain.Schedule, error) {
	s := &domain.Schedule{}
	var shift, status string
	err := row.Scan(&s.ID, &s.TenantID, &s.EmployeeID, &s.Date, &s.StartTime, &s.EndTime, &shift, &s.Location,
		&s.Notes, &status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Shift = domain.Shift(shift)
	s.Status = domain.ScheduleStatus(status)
	return s, nil
}

type scheduleRepo struct{ t *tenantStore }

func (r *scheduleRepo) Create(ctx context.Context, s *domain.Schedule) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = newID()
	}
	ts := now()
	s.TenantID, s.CreatedAt, s.UpdatedAt = tid, ts, ts
	return r.t.exec(ctx, "create schedule", `
		INSERT INTO schedules (tenant_id, id, employee_id, day, start_time, end_time, shift, location, notes, status,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`, tid, s.ID, s.EmployeeID, s.Date, s.StartTime, s.EndTime, string(s.Shift), s.Location, s.Notes,
		string(s.Status), s.CreatedBy, ts)
}

func (r *scheduleRepo) Get(ctx context.Context, id string) (*domain.Schedule, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	s, err := scanSchedule(r.t.q.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get schedule", err)
	}
	return s, nil
}

func (r *scheduleRepo) List(ctx context.Context) ([]*domain.Schedule, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE tenant_id = $1 ORDER BY day, start_time`, tid)
	if err != nil {
		return nil, r.t.fail("list schedules", err)
	}
	return collect(rows, scanSchedule)
}

func (r *scheduleRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Schedule, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE tenant_id = $1 AND employee_id = $2 ORDER BY day, start_time`,
		tid, employeeID)
	if err != nil {
		return nil, r.t.fail("list employee schedules", err)
	}
	return collect(rows, scanSchedule)
}

func (r *scheduleRepo) Update(ctx context.Context, s *domain.Schedule) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	s.UpdatedAt = now()
	return r.t.exec(ctx, "update schedule", `
		UPDATE schedules
		SET day = $3, start_time = $4, end_time = $5, shift = $6, location = $7, notes = $8, status = $9,
		    updated_at = $10
		WHERE tenant_id = $1 AND id = $2
	`, tid, s.ID, s.Date, s.StartTime, s.EndTime, string(s.Shift), s.Location, s.Notes, string(s.Status),
		s.UpdatedAt)
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete schedule", `DELETE FROM schedules WHERE tenant_id = $1 AND id = $2`, tid, id)
}

func (r *scheduleRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.execMany(ctx, "delete employee schedules",
		`DELETE FROM schedules WHERE tenant_id = $1 AND employee_id = $2`, tid, employeeID)
}
