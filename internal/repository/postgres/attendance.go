package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const attendanceColumns = `id, tenant_id, employee_id, day, status, check_in, check_out, work_hours, comments,
	created_at, updated_at`

func scanAttendance(row scanner) (*domain.Attendance, error) {
	a := &domain.Attendance{}
	var in, out sql.NullTime
	var status string
	err := row.Scan(&a.ID, &a.TenantID, &a.EmployeeID, &a.Date, &status, &in, &out, &a.WorkHours, &a.Comments,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = domain.AttendanceStatus(status)
	a.CheckIn = timePtr(in)
	a.CheckOut = timePtr(out)
	return a, nil
}

type attendanceRepo struct{ t *tenantStore }

func (r *attendanceRepo) Create(ctx context.Context, a *domain.Attendance) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = newID()
	}
	ts := now()
	a.TenantID, a.CreatedAt, a.UpdatedAt = tid, ts, ts
	a.Date = domain.Day(a.Date)
	return r.t.exec(ctx, "create attendance", `
		INSERT INTO attendance (tenant_id, id, employee_id, day, status, check_in, check_out, work_hours, comments,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`, tid, a.ID, a.EmployeeID, a.Date, string(a.Status), nullTime(a.CheckIn), nullTime(a.CheckOut), a.WorkHours,
		a.Comments, ts)
}

func (r *attendanceRepo) Get(ctx context.Context, id string) (*domain.Attendance, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	a, err := scanAttendance(r.t.q.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get attendance", err)
	}
	return a, nil
}

func (r *attendanceRepo) List(ctx context.Context) ([]*domain.Attendance, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE tenant_id = $1 ORDER BY day DESC`, tid)
	if err != nil {
		return nil, r.t.fail("list attendance", err)
	}
	return collect(rows, scanAttendance)
}

func (r *attendanceRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Attendance, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE tenant_id = $1 AND employee_id = $2 ORDER BY day DESC`,
		tid, employeeID)
	if err != nil {
		return nil, r.t.fail("list employee attendance", err)
	}
	return collect(rows, scanAttendance)
}

func (r *attendanceRepo) FindByDay(ctx context.Context, employeeID string, day time.Time) (*domain.Attendance, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	a, err := scanAttendance(r.t.q.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE tenant_id = $1 AND employee_id = $2 AND day = $3`,
		tid, employeeID, domain.Day(day)))
	if err != nil {
		return nil, r.t.fail("find attendance", err)
	}
	return a, nil
}

func (r *attendanceRepo) Update(ctx context.Context, a *domain.Attendance) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	a.UpdatedAt = now()
	a.Date = domain.Day(a.Date)
	return r.t.exec(ctx, "update attendance", `
		UPDATE attendance
		SET day = $3, status = $4, check_in = $5, check_out = $6, work_hours = $7, comments = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2
	`, tid, a.ID, a.Date, string(a.Status), nullTime(a.CheckIn), nullTime(a.CheckOut), a.WorkHours, a.Comments,
		a.UpdatedAt)
}

func (r *attendanceRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete attendance", `DELETE FROM attendance WHERE tenant_id = $1 AND id = $2`, tid, id)
}

func (r *attendanceRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.execMany(ctx, "delete employee attendance",
		`DELETE FROM attendance WHERE tenant_id = $1 AND employee_id = $2`, tid, employeeID)
}
