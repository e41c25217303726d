package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const salaryColumns = `id, tenant_id, employee_id, basic_pay, bonus_percent, deduction_percent, bonuses,
	deductions, net_pay, currency, due_date, payment_date, status, payment_type, hourly_rate, work_hours,
	overtime_hours, created_at, updated_at`

func scanSalary(row scanner) (*domain.Salary, error) {
	s := &domain.Salary{}
	var paid sql.NullTime
	var status, paymentType string
	err := row.Scan(
		&s.ID,
		&s.TenantID,
		&s.EmployeeID,
		&s.BasicPay,
		&s.BonusPercent,
		&s.DeductionPercent,
		&s.Bonuses,
		&s.Deductions,
		&s.NetPay,
		&s.Currency,
		&s.DueDate,
		&paid,
		&status,
		&paymentType,
		&s.HourlyRate,
		&s.WorkHours,
		&s.OvertimeHours,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.PaymentDate = timePtr(paid)
	s.Status = domain.SalaryStatus(status)
	s.PaymentType = domain.PaymentType(paymentType)
	return s, nil
}

type salaryRepo struct{ t *tenantStore }

func (r *salaryRepo) Create(ctx context.Context, s *domain.Salary) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = newID()
	}
	ts := now()
	s.TenantID, s.CreatedAt, s.UpdatedAt = tid, ts, ts
	return r.t.exec(ctx, "create salary", `
		INSERT INTO salaries (tenant_id, id, employee_id, basic_pay, bonus_percent, deduction_percent, bonuses,
			deductions, net_pay, currency, due_date, payment_date, status, payment_type, hourly_rate, work_hours,
			overtime_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
	`,
		tid,
		s.ID,
		s.EmployeeID,
		s.BasicPay,
		s.BonusPercent,
		s.DeductionPercent,
		s.Bonuses,
		s.Deductions,
		s.NetPay,
		s.Currency,
		s.DueDate,
		nullTime(s.PaymentDate),
		string(s.Status),
		string(s.PaymentType),
		s.HourlyRate,
		s.WorkHours,
		s.OvertimeHours,
		ts,
	)
}

func (r *salaryRepo) Get(ctx context.Context, id string) (*domain.Salary, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	s, err := scanSalary(r.t.q.QueryRowContext(ctx,
		`SELECT `+salaryColumns+` FROM salaries WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get salary", err)
	}
	return s, nil
}

func (r *salaryRepo) List(ctx context.Context) ([]*domain.Salary, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+salaryColumns+` FROM salaries WHERE tenant_id = $1 ORDER BY due_date`, tid)
	if err != nil {
		return nil, r.t.fail("list salaries", err)
	}
	return collect(rows, scanSalary)
}

func (r *salaryRepo) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Salary, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+salaryColumns+` FROM salaries WHERE tenant_id = $1 AND employee_id = $2 ORDER BY due_date`,
		tid, employeeID)
	if err != nil {
		return nil, r.t.fail("list employee salaries", err)
	}
	return collect(rows, scanSalary)
}

func (r *salaryRepo) ListDue(ctx context.Context, status domain.SalaryStatus, cutoff time.Time) ([]*domain.Salary, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+salaryColumns+` FROM salaries WHERE tenant_id = $1 AND status = $2 AND due_date < $3 ORDER BY due_date`,
		tid, string(status), cutoff)
	if err != nil {
		return nil, r.t.fail("list due salaries", err)
	}
	return collect(rows, scanSalary)
}

func (r *salaryRepo) Update(ctx context.Context, s *domain.Salary) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	s.UpdatedAt = now()
	return r.t.exec(ctx, "update salary", `
		UPDATE salaries
		SET basic_pay = $3, bonus_percent = $4, deduction_percent = $5, bonuses = $6, deductions = $7,
		    net_pay = $8, currency = $9, due_date = $10, payment_date = $11, status = $12, payment_type = $13,
		    hourly_rate = $14, work_hours = $15, overtime_hours = $16, updated_at = $17
		WHERE tenant_id = $1 AND id = $2
	`,
		tid,
		s.ID,
		s.BasicPay,
		s.BonusPercent,
		s.DeductionPercent,
		s.Bonuses,
		s.Deductions,
		s.NetPay,
		s.Currency,
		s.DueDate,
		nullTime(s.PaymentDate),
		string(s.Status),
		string(s.PaymentType),
		s.HourlyRate,
		s.WorkHours,
		s.OvertimeHours,
		s.UpdatedAt,
	)
}

func (r *salaryRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete salary", `DELETE FROM salaries WHERE tenant_id = $1 AND id = $2`, tid, id)
}

func (r *salaryRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.execMany(ctx, "delete employee salaries",
		`DELETE FROM salaries WHERE tenant_id = $1 AND employee_id = $2`, tid, employeeID)
}
