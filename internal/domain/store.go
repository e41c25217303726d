package domain

import (
	"context"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

// Store is the persistence boundary. Tenant data is only reachable through
// Scoped or WithinTx, both of which require a tenancy.Scope.
type Store interface {
	Credentials() CredentialStore
	Scoped(scope tenancy.Scope) TenantStore
	// WithinTx runs fn against a TenantStore whose writes commit together or not at all.
	WithinTx(ctx context.Context, scope tenancy.Scope, fn func(TenantStore) error) error
	Ping(ctx context.Context) error
}

// TenantStore exposes repositories bound to one organization. None of them
// has a method that reads or writes outside that organization.
type TenantStore interface {
	Organization() OrganizationRepository
	HRAdmins() HRRepository
	Employees() EmployeeRepository
	Departments() DepartmentRepository
	Leaves() LeaveRepository
	Salaries() SalaryRepository
	Notices() NoticeRepository
	Requests() RequestRepository
	Attendance() AttendanceRepository
	Schedules() ScheduleRepository
	Recruitments() RecruitmentRepository
}

type OrganizationRepository interface {
	Get(ctx context.Context) (*Organization, error)
	Update(ctx context.Context, org *Organization) error
}

type HRRepository interface {
	Create(ctx context.Context, p *Principal) error
	Get(ctx context.Context, id string) (*Principal, error)
	List(ctx context.Context) ([]*Principal, error)
	Update(ctx context.Context, p *Principal) error
	Delete(ctx context.Context, id string) error
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	Get(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	// ClearDepartment detaches every employee from the department.
	ClearDepartment(ctx context.Context, departmentID string) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, d *Department) error
	Get(ctx context.Context, id string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id string) error
}

type RecruitmentRepository interface {
	Create(ctx context.Context, r *Recruitment) error
	Get(ctx context.Context, id string) (*Recruitment, error)
	List(ctx context.Context) ([]*Recruitment, error)
	Update(ctx context.Context, r *Recruitment) error
	Delete(ctx context.Context, id string) error
}

type LeaveRepository interface {
	Create(ctx context.Context, l *Leave) error
	Get(ctx context.Context, id string) (*Leave, error)
	List(ctx context.Context) ([]*Leave, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, id string) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

type SalaryRepository interface {
	Create(ctx context.Context, s *Salary) error
	Get(ctx context.Context, id string) (*Salary, error)
	List(ctx context.Context) ([]*Salary, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Salary, error)
	// ListDue returns salaries in status whose due date is before cutoff.
	ListDue(ctx context.Context, status SalaryStatus, cutoff time.Time) ([]*Salary, error)
	Update(ctx context.Context, s *Salary) error
	Delete(ctx context.Context, id string) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

type NoticeRepository interface {
	Create(ctx context.Context, n *Notice) error
	Get(ctx context.Context, id string) (*Notice, error)
	List(ctx context.Context) ([]*Notice, error)
	Delete(ctx context.Context, id string) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

type RequestRepository interface {
	Create(ctx context.Context, r *GenerateRequest) error
	Get(ctx context.Context, id string) (*GenerateRequest, error)
	List(ctx context.Context) ([]*GenerateRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*GenerateRequest, error)
	Update(ctx context.Context, r *GenerateRequest) error
	Delete(ctx context.Context, id string) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

type AttendanceRepository interface {
	Create(ctx context.Context, a *Attendance) error
	Get(ctx context.Context, id string) (*Attendance, error)
	List(ctx context.Context) ([]*Attendance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Attendance, error)
	// FindByDay returns the employee's record for the day, or ErrNotFound.
	FindByDay(ctx context.Context, employeeID string, day time.Time) (*Attendance, error)
	Update(ctx context.Context, a *Attendance) error
	Delete(ctx context.Context, id string) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	Get(ctx context.Context, id string) (*Schedule, error)
	List(ctx context.Context) ([]*Schedule, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Schedule, error)
	Update(ctx context.Context, s *Schedule) error
	Delete(ctx context.Context, id string) error
	DeleteByEmployee(ctx context.Context, employeeID string) error
}
