package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const employeeColumns = principalColumns + `,
	department_id, employee_code, position, joining_date, employment_type, status, manager_id,
	work_location, date_of_birth, gender, address, emergency_name, emergency_relationship,
	emergency_phone, skills`

func scanEmployee(row scanner) (*domain.Employee, error) {
	e := &domain.Employee{}
	var verifyExp, resetExp, lastLogin, joining, dob sql.NullTime
	var departmentID, managerID sql.NullString
	var role, employmentType, status string
	err := row.Scan(
		&e.ID,
		&e.TenantID,
		&e.FirstName,
		&e.LastName,
		&e.Email,
		&e.PasswordHash,
		&e.ContactNumber,
		&role,
		&e.IsVerified,
		&e.VerificationCode,
		&verifyExp,
		&e.ResetToken,
		&resetExp,
		&lastLogin,
		&e.CreatedAt,
		&e.UpdatedAt,
		&departmentID,
		&e.EmployeeCode,
		&e.Position,
		&joining,
		&employmentType,
		&status,
		&managerID,
		&e.WorkLocation,
		&dob,
		&e.Gender,
		&e.Address,
		&e.EmergencyContact.Name,
		&e.EmergencyContact.Relationship,
		&e.EmergencyContact.Phone,
		pq.Array(&e.Skills),
	)
	if err != nil {
		return nil, err
	}
	e.Role = domain.Role(role)
	e.VerificationExpiresAt = timePtr(verifyExp)
	e.ResetExpiresAt = timePtr(resetExp)
	e.LastLogin = timePtr(lastLogin)
	e.JoiningDate = timePtr(joining)
	e.DateOfBirth = timePtr(dob)
	e.DepartmentID = departmentID.String
	e.ManagerID = managerID.String
	e.EmploymentType = domain.EmploymentType(employmentType)
	e.Status = domain.EmployeeStatus(status)
	return e, nil
}

type employeeRepo struct{ t *tenantStore }

// Create inserts an employee unless an HR-Admin already owns the email.
func (r *employeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = newID()
	}
	ts := now()
	e.TenantID = tid
	e.Role = domain.RoleEmployee
	e.CreatedAt, e.UpdatedAt = ts, ts

	query := `
		INSERT INTO employees (tenant_id, id, first_name, last_name, email, password_hash, contact_number, role,
			is_verified, verification_code, verification_expires_at, department_id, employee_code, position,
			joining_date, employment_type, status, manager_id, work_location, date_of_birth, gender, address,
			emergency_name, emergency_relationship, emergency_phone, skills, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $27
		WHERE NOT EXISTS (SELECT 1 FROM hr_admins WHERE email = $5)
	`
	res, err := r.t.q.ExecContext(ctx, query,
		tid,
		e.ID,
		e.FirstName,
		e.LastName,
		e.Email,
		e.PasswordHash,
		e.ContactNumber,
		string(e.Role),
		e.IsVerified,
		e.VerificationCode,
		nullTime(e.VerificationExpiresAt),
		nullable(e.DepartmentID),
		e.EmployeeCode,
		e.Position,
		nullTime(e.JoiningDate),
		string(e.EmploymentType),
		string(e.Status),
		nullable(e.ManagerID),
		e.WorkLocation,
		nullTime(e.DateOfBirth),
		e.Gender,
		e.Address,
		e.EmergencyContact.Name,
		e.EmergencyContact.Relationship,
		e.EmergencyContact.Phone,
		pq.Array(e.Skills),
		ts,
	)
	if err != nil {
		return r.t.fail("create employee", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *employeeRepo) Get(ctx context.Context, id string) (*domain.Employee, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	e, err := scanEmployee(r.t.q.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE tenant_id = $1 AND id = $2`, tid, id))
	if err != nil {
		return nil, r.t.fail("get employee", err)
	}
	return e, nil
}

func (r *employeeRepo) List(ctx context.Context) ([]*domain.Employee, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE tenant_id = $1 ORDER BY created_at`, tid)
	if err != nil {
		return nil, r.t.fail("list employees", err)
	}
	return collect(rows, scanEmployee)
}

func (r *employeeRepo) ListByDepartment(ctx context.Context, departmentID string) ([]*domain.Employee, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE tenant_id = $1 AND department_id = $2 ORDER BY created_at`,
		tid, departmentID)
	if err != nil {
		return nil, r.t.fail("list department employees", err)
	}
	return collect(rows, scanEmployee)
}

func (r *employeeRepo) Update(ctx context.Context, e *domain.Employee) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	e.UpdatedAt = now()
	return r.t.execEmailGuarded(ctx, "update employee", "hr_admins", e.Email, `
		UPDATE employees
		SET first_name = $3, last_name = $4, email = $5, contact_number = $6, department_id = $7,
		    employee_code = $8, position = $9, joining_date = $10, employment_type = $11, status = $12,
		    manager_id = $13, work_location = $14, date_of_birth = $15, gender = $16, address = $17,
		    emergency_name = $18, emergency_relationship = $19, emergency_phone = $20, skills = $21,
		    updated_at = $22
		WHERE tenant_id = $1 AND id = $2
			AND NOT EXISTS (SELECT 1 FROM hr_admins WHERE email = $5)
	`,
		tid,
		e.ID,
		e.FirstName,
		e.LastName,
		e.Email,
		e.ContactNumber,
		nullable(e.DepartmentID),
		e.EmployeeCode,
		e.Position,
		nullTime(e.JoiningDate),
		string(e.EmploymentType),
		string(e.Status),
		nullable(e.ManagerID),
		e.WorkLocation,
		nullTime(e.DateOfBirth),
		e.Gender,
		e.Address,
		e.EmergencyContact.Name,
		e.EmergencyContact.Relationship,
		e.EmergencyContact.Phone,
		pq.Array(e.Skills),
		e.UpdatedAt,
	)
}

func (r *employeeRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	if err := r.t.execMany(ctx, "detach reports", `
		UPDATE employees SET manager_id = NULL WHERE tenant_id = $1 AND manager_id = $2
	`, tid, id); err != nil {
		return err
	}
	return r.t.exec(ctx, "delete employee", `DELETE FROM employees WHERE tenant_id = $1 AND id = $2`, tid, id)
}

func (r *employeeRepo) ClearDepartment(ctx context.Context, departmentID string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.execMany(ctx, "clear department", `
		UPDATE employees SET department_id = NULL, updated_at = $3 WHERE tenant_id = $1 AND department_id = $2
	`, tid, departmentID, now())
}
