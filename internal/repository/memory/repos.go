package memory

import (
	"context"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

func (t *tenantStore) Organization() domain.OrganizationRepository { return orgRepo{t} }
func (t *tenantStore) HRAdmins() domain.HRRepository { return hrRepo{t} }
func (t *tenantStore) Employees() domain.EmployeeRepository { return employeeRepo{t} }
func (t *tenantStore) Departments() domain.DepartmentRepository { return departmentRepo{t} }
func (t *tenantStore) Leaves() domain.LeaveRepository { return leaveRepo{t} }
func (t *tenantStore) Salaries() domain.SalaryRepository { return salaryRepo{t} }
func (t *tenantStore) Notices() domain.NoticeRepository { return noticeRepo{t} }
func (t *tenantStore) Requests() domain.RequestRepository { return requestRepo{t} }
func (t *tenantStore) Attendance() domain.AttendanceRepository { return attendanceRepo{t} }
func (t *tenantStore) Schedules() domain.ScheduleRepository { return scheduleRepo{t} }
func (t *tenantStore) Recruitments() domain.RecruitmentRepository { return recruitmentRepo{t} }

// organization

type orgRepo struct{ t *tenantStore }

func (r orgRepo) Get(context.Context) (*domain.Organization, error) {
	var out *domain.Organization
	err := r.t.do(func(d *dataset) error {
		o, ok := d.orgs[r.t.tenantID]
		if !ok {
			return domain.ErrNotFound
		}
		out = clone(o)
		return nil
	})
	return out, err
}

func (r orgRepo) Update(_ context.Context, org *domain.Organization) error {
	return r.t.do(func(d *dataset) error {
		cur, ok := d.orgs[r.t.tenantID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, o := range d.orgs {
			if id != cur.ID && sameFold(o.Name, org.Name) {
				return domain.ErrConflict
			}
		}
		org.ID = cur.ID
		org.CreatedAt = cur.CreatedAt
		r.t.stamp(&org.CreatedAt, &org.UpdatedAt)
		d.orgs[cur.ID] = clone(org)
		return nil
	})
}

// HR admins

type hrRepo struct{ t *tenantStore }

func (r hrRepo) owned(p *domain.Principal) bool { return p.TenantID == r.t.tenantID }

func (r hrRepo) Create(_ context.Context, p *domain.Principal) error {
	return r.t.do(func(d *dataset) error {
		if emailInUse(d, p.Email, "") {
			return domain.ErrConflict
		}
		if p.ID == "" {
			p.ID = newID()
		}
		p.TenantID = r.t.tenantID
		p.Role = domain.RoleHRAdmin
		r.t.stamp(&p.CreatedAt, &p.UpdatedAt)
		d.hrs[p.ID] = clone(p)
		return nil
	})
}

func (r hrRepo) Get(_ context.Context, id string) (*domain.Principal, error) {
	var out *domain.Principal
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.hrs, id, r.owned)
		return err
	})
	return out, err
}

func (r hrRepo) List(context.Context) ([]*domain.Principal, error) {
	var out []*domain.Principal
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.hrs, r.owned, func(p *domain.Principal) time.Time { return p.CreatedAt })
		return nil
	})
	return out, err
}

func (r hrRepo) Update(_ context.Context, p *domain.Principal) error {
	return r.t.do(func(d *dataset) error {
		cur, ok := d.hrs[p.ID]
		if !ok || !r.owned(cur) {
			return domain.ErrNotFound
		}
		if emailInUse(d, p.Email, p.ID) {
			return domain.ErrConflict
		}
		p.TenantID = cur.TenantID
		p.CreatedAt = cur.CreatedAt
		r.t.stamp(&p.CreatedAt, &p.UpdatedAt)
		d.hrs[p.ID] = clone(p)
		return nil
	})
}

func (r hrRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error { return removeRow(d.hrs, id, r.owned) })
}

// employees

type employeeRepo struct{ t *tenantStore }

func (r employeeRepo) owned(e *domain.Employee) bool { return e.TenantID == r.t.tenantID }

func employeeCreated(e *domain.Employee) time.Time { return e.CreatedAt }

func (r employeeRepo) codeTaken(d *dataset, e *domain.Employee) bool {
	if e.EmployeeCode == "" {
		return false
	}
	for _, other := range d.employees {
		if other.ID != e.ID && r.owned(other) && other.EmployeeCode == e.EmployeeCode {
			return true
		}
	}
	return false
}

func (r employeeRepo) Create(_ context.Context, e *domain.Employee) error {
	return r.t.do(func(d *dataset) error {
		if emailInUse(d, e.Email, "") || r.codeTaken(d, e) {
			return domain.ErrConflict
		}
		if e.ID == "" {
			e.ID = newID()
		}
		e.TenantID = r.t.tenantID
		e.Role = domain.RoleEmployee
		r.t.stamp(&e.CreatedAt, &e.UpdatedAt)
		d.employees[e.ID] = copySkills(clone(e))
		return nil
	})
}

func (r employeeRepo) Get(_ context.Context, id string) (*domain.Employee, error) {
	var out *domain.Employee
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.employees, id, r.owned)
		if out != nil {
			copySkills(out)
		}
		return err
	})
	return out, err
}

func (r employeeRepo) List(context.Context) ([]*domain.Employee, error) {
	var out []*domain.Employee
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.employees, r.owned, employeeCreated)
		return nil
	})
	return out, err
}

func (r employeeRepo) ListByDepartment(_ context.Context, departmentID string) ([]*domain.Employee, error) {
	var out []*domain.Employee
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.employees, func(e *domain.Employee) bool {
			return r.owned(e) && e.DepartmentID == departmentID
		}, employeeCreated)
		return nil
	})
	return out, err
}

func (r employeeRepo) Update(_ context.Context, e *domain.Employee) error {
	return r.t.do(func(d *dataset) error {
		cur, ok := d.employees[e.ID]
		if !ok || !r.owned(cur) {
			return domain.ErrNotFound
		}
		if emailInUse(d, e.Email, e.ID) || r.codeTaken(d, e) {
			return domain.ErrConflict
		}
		e.TenantID = cur.TenantID
		e.CreatedAt = cur.CreatedAt
		r.t.stamp(&e.CreatedAt, &e.UpdatedAt)
		d.employees[e.ID] = copySkills(clone(e))
		return nil
	})
}

func (r employeeRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error {
		if err := removeRow(d.employees, id, r.owned); err != nil {
			return err
		}
		for _, e := range d.employees {
			if r.owned(e) && e.ManagerID == id {
				e.ManagerID = ""
			}
		}
		return nil
	})
}

func (r employeeRepo) ClearDepartment(_ context.Context, departmentID string) error {
	return r.t.do(func(d *dataset) error {
		for _, e := range d.employees {
			if r.owned(e) && e.DepartmentID == departmentID {
				e.DepartmentID = ""
			}
		}
		return nil
	})
}

// departments

type departmentRepo struct{ t *tenantStore }

func (r departmentRepo) owned(v *domain.Department) bool { return v.TenantID == r.t.tenantID }

func (r departmentRepo) nameTaken(d *dataset, v *domain.Department) bool {
	for _, other := range d.departments {
		if other.ID != v.ID && r.owned(other) && sameFold(other.Name, v.Name) {
			return true
		}
	}
	return false
}

func (r departmentRepo) Create(_ context.Context, v *domain.Department) error {
	return r.t.do(func(d *dataset) error {
		if r.nameTaken(d, v) {
			return domain.ErrConflict
		}
		if v.ID == "" {
			v.ID = newID()
		}
		v.TenantID = r.t.tenantID
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.departments[v.ID] = clone(v)
		return nil
	})
}

func (r departmentRepo) Get(_ context.Context, id string) (*domain.Department, error) {
	var out *domain.Department
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.departments, id, r.owned)
		return err
	})
	return out, err
}

func (r departmentRepo) List(context.Context) ([]*domain.Department, error) {
	var out []*domain.Department
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.departments, r.owned, func(v *domain.Department) time.Time { return v.CreatedAt })
		return nil
	})
	return out, err
}

func (r departmentRepo) Update(_ context.Context, v *domain.Department) error {
	return r.t.do(func(d *dataset) error {
		cur, ok := d.departments[v.ID]
		if !ok || !r.owned(cur) {
			return domain.ErrNotFound
		}
		if r.nameTaken(d, v) {
			return domain.ErrConflict
		}
		v.TenantID, v.CreatedAt = cur.TenantID, cur.CreatedAt
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.departments[v.ID] = clone(v)
		return nil
	})
}

// Delete mirrors the foreign keys of the SQL schema: department notices go
// with the department, requests and employees are detached.
func (r departmentRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error {
		if err := removeRow(d.departments, id, r.owned); err != nil {
			return err
		}
		deleteRows(d.notices, func(n *domain.Notice) bool {
			return n.TenantID == r.t.tenantID && n.DepartmentID == id
		})
		for _, rq := range d.requests {
			if rq.TenantID == r.t.tenantID && rq.DepartmentID == id {
				rq.DepartmentID = ""
			}
		}
		for _, e := range d.employees {
			if e.TenantID == r.t.tenantID && e.DepartmentID == id {
				e.DepartmentID = ""
			}
		}
		for _, o := range d.openings {
			if o.TenantID == r.t.tenantID && o.DepartmentID == id {
				o.DepartmentID = ""
			}
		}
		return nil
	})
}

// leaves

type leaveRepo struct{ t *tenantStore }

func (r leaveRepo) owned(v *domain.Leave) bool { return v.TenantID == r.t.tenantID }
func leaveCreated(v *domain.Leave) time.Time { return v.CreatedAt }

func (r leaveRepo) Create(_ context.Context, v *domain.Leave) error {
	return r.t.do(func(d *dataset) error {
		if v.ID == "" {
			v.ID = newID()
		}
		v.TenantID = r.t.tenantID
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.leaves[v.ID] = clone(v)
		return nil
	})
}

func (r leaveRepo) Get(_ context.Context, id string) (*domain.Leave, error) {
	var out *domain.Leave
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.leaves, id, r.owned)
		return err
	})
	return out, err
}

func (r leaveRepo) List(context.Context) ([]*domain.Leave, error) {
	var out []*domain.Leave
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.leaves, r.owned, leaveCreated)
		return nil
	})
	return out, err
}

func (r leaveRepo) ListByEmployee(_ context.Context, employeeID string) ([]*domain.Leave, error) {
	var out []*domain.Leave
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.leaves, func(v *domain.Leave) bool {
			return r.owned(v) && v.EmployeeID == employeeID
		}, leaveCreated)
		return nil
	})
	return out, err
}

func (r leaveRepo) Update(_ context.Context, v *domain.Leave) error {
	return r.t.do(func(d *dataset) error {
		if cur, ok := d.leaves[v.ID]; ok && r.owned(cur) {
			v.TenantID, v.CreatedAt = cur.TenantID, cur.CreatedAt
		}
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		return putExisting(d.leaves, v.ID, v, r.owned)
	})
}

func (r leaveRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error { return removeRow(d.leaves, id, r.owned) })
}

func (r leaveRepo) DeleteByEmployee(_ context.Context, employeeID string) error {
	return r.t.do(func(d *dataset) error {
		deleteRows(d.leaves, func(v *domain.Leave) bool { return r.owned(v) && v.EmployeeID == employeeID })
		return nil
	})
}

// salaries

type salaryRepo struct{ t *tenantStore }

func (r salaryRepo) owned(v *domain.Salary) bool { return v.TenantID == r.t.tenantID }
func salaryCreated(v *domain.Salary) time.Time { return v.CreatedAt }

func (r salaryRepo) Create(_ context.Context, v *domain.Salary) error {
	return r.t.do(func(d *dataset) error {
		if v.ID == "" {
			v.ID = newID()
		}
		v.TenantID = r.t.tenantID
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.salaries[v.ID] = clone(v)
		return nil
	})
}

func (r salaryRepo) Get(_ context.Context, id string) (*domain.Salary, error) {
	var out *domain.Salary
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.salaries, id, r.owned)
		return err
	})
	return out, err
}

func (r salaryRepo) List(context.Context) ([]*domain.Salary, error) {
	var out []*domain.Salary
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.salaries, r.owned, salaryCreated)
		return nil
	})
	return out, err
}

func (r salaryRepo) ListByEmployee(_ context.Context, employeeID string) ([]*domain.Salary, error) {
	var out []*domain.Salary
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.salaries, func(v *domain.Salary) bool {
			return r.owned(v) && v.EmployeeID == employeeID
		}, salaryCreated)
		return nil
	})
	return out, err
}

func (r salaryRepo) ListDue(_ context.Context, status domain.SalaryStatus, cutoff time.Time) ([]*domain.Salary, error) {
	var out []*domain.Salary
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.salaries, func(v *domain.Salary) bool {
			return r.owned(v) && v.Status == status && v.DueDate.Before(cutoff)
		}, salaryCreated)
		return nil
	})
	return out, err
}

func (r salaryRepo) Update(_ context.Context, v *domain.Salary) error {
	return r.t.do(func(d *dataset) error {
		if cur, ok := d.salaries[v.ID]; ok && r.owned(cur) {
			v.TenantID, v.CreatedAt = cur.TenantID, cur.CreatedAt
		}
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		return putExisting(d.salaries, v.ID, v, r.owned)
	})
}

func (r salaryRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error { return removeRow(d.salaries, id, r.owned) })
}

func (r salaryRepo) DeleteByEmployee(_ context.Context, employeeID string) error {
	return r.t.do(func(d *dataset) error {
		deleteRows(d.salaries, func(v *domain.Salary) bool { return r.owned(v) && v.EmployeeID == employeeID })
		return nil
	})
}

// notices

type noticeRepo struct{ t *tenantStore }

func (r noticeRepo) owned(v *domain.Notice) bool { return v.TenantID == r.t.tenantID }

func (r noticeRepo) Create(_ context.Context, v *domain.Notice) error {
	return r.t.do(func(d *dataset) error {
		if v.ID == "" {
			v.ID = newID()
		}
		v.TenantID = r.t.tenantID
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.notices[v.ID] = clone(v)
		return nil
	})
}

func (r noticeRepo) Get(_ context.Context, id string) (*domain.Notice, error) {
	var out *domain.Notice
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.notices, id, r.owned)
		return err
	})
	return out, err
}

func (r noticeRepo) List(context.Context) ([]*domain.Notice, error) {
	var out []*domain.Notice
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.notices, r.owned, func(v *domain.Notice) time.Time { return v.CreatedAt })
		return nil
	})
	return out, err
}

func (r noticeRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error { return removeRow(d.notices, id, r.owned) })
}

func (r noticeRepo) DeleteByEmployee(_ context.Context, employeeID string) error {
	return r.t.do(func(d *dataset) error {
		deleteRows(d.notices, func(v *domain.Notice) bool { return r.owned(v) && v.EmployeeID == employeeID })
		return nil
	})
}

// generate requests

type requestRepo struct{ t *tenantStore }

func (r requestRepo) owned(v *domain.GenerateRequest) bool { return v.TenantID == r.t.tenantID }
func requestCreated(v *domain.GenerateRequest) time.Time { return v.CreatedAt }

func (r requestRepo) Create(_ context.Context, v *domain.GenerateRequest) error {
	return r.t.do(func(d *dataset) error {
		if v.ID == "" {
			v.ID = newID()
		}
		v.TenantID = r.t.tenantID
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.requests[v.ID] = clone(v)
		return nil
	})
}

func (r requestRepo) Get(_ context.Context, id string) (*domain.GenerateRequest, error) {
	var out *domain.GenerateRequest
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.requests, id, r.owned)
		return err
	})
	return out, err
}

func (r requestRepo) List(context.Context) ([]*domain.GenerateRequest, error) {
	var out []*domain.GenerateRequest
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.requests, r.owned, requestCreated)
		return nil
	})
	return out, err
}

func (r requestRepo) ListByEmployee(_ context.Context, employeeID string) ([]*domain.GenerateRequest, error) {
	var out []*domain.GenerateRequest
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.requests, func(v *domain.GenerateRequest) bool {
			return r.owned(v) && v.EmployeeID == employeeID
		}, requestCreated)
		return nil
	})
	return out, err
}

func (r requestRepo) Update(_ context.Context, v *domain.GenerateRequest) error {
	return r.t.do(func(d *dataset) error {
		if cur, ok := d.requests[v.ID]; ok && r.owned(cur) {
			v.TenantID, v.CreatedAt = cur.TenantID, cur.CreatedAt
		}
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		return putExisting(d.requests, v.ID, v, r.owned)
	})
}

func (r requestRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error { return removeRow(d.requests, id, r.owned) })
}

func (r requestRepo) DeleteByEmployee(_ context.Context, employeeID string) error {
	return r.t.do(func(d *dataset) error {
		deleteRows(d.requests, func(v *domain.GenerateRequest) bool { return r.owned(v) && v.EmployeeID == employeeID })
		return nil
	})
}

// attendance

type attendanceRepo struct{ t *tenantStore }

func (r attendanceRepo) owned(v *domain.Attendance) bool { return v.TenantID == r.t.tenantID }
func attendanceCreated(v *domain.Attendance) time.Time { return v.Date }

func (r attendanceRepo) Create(_ context.Context, v *domain.Attendance) error {
	return r.t.do(func(d *dataset) error {
		for _, other := range d.attendance {
			if r.owned(other) && other.EmployeeID == v.EmployeeID && other.Date.Equal(v.Date) {
				return domain.ErrConflict
			}
		}
		if v.ID == "" {
			v.ID = newID()
		}
		v.TenantID = r.t.tenantID
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.attendance[v.ID] = clone(v)
		return nil
	})
}

func (r attendanceRepo) Get(_ context.Context, id string) (*domain.Attendance, error) {
	var out *domain.Attendance
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.attendance, id, r.owned)
		return err
	})
	return out, err
}

func (r attendanceRepo) List(context.Context) ([]*domain.Attendance, error) {
	var out []*domain.Attendance
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.attendance, r.owned, attendanceCreated)
		return nil
	})
	return out, err
}

func (r attendanceRepo) ListByEmployee(_ context.Context, employeeID string) ([]*domain.Attendance, error) {
	var out []*domain.Attendance
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.attendance, func(v *domain.Attendance) bool {
			return r.owned(v) && v.EmployeeID == employeeID
		}, attendanceCreated)
		return nil
	})
	return out, err
}

func (r attendanceRepo) FindByDay(_ context.Context, employeeID string, day time.Time) (*domain.Attendance, error) {
	var out *domain.Attendance
	err := r.t.do(func(d *dataset) error {
		for _, v := range d.attendance {
			if r.owned(v) && v.EmployeeID == employeeID && v.Date.Equal(day) {
				out = clone(v)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r attendanceRepo) Update(_ context.Context, v *domain.Attendance) error {
	return r.t.do(func(d *dataset) error {
		if cur, ok := d.attendance[v.ID]; ok && r.owned(cur) {
			v.TenantID, v.CreatedAt = cur.TenantID, cur.CreatedAt
		}
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		return putExisting(d.attendance, v.ID, v, r.owned)
	})
}

func (r attendanceRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error { return removeRow(d.attendance, id, r.owned) })
}

func (r attendanceRepo) DeleteByEmployee(_ context.Context, employeeID string) error {
	return r.t.do(func(d *dataset) error {
		deleteRows(d.attendance, func(v *domain.Attendance) bool { return r.owned(v) && v.EmployeeID == employeeID })
		return nil
	})
}

// schedules

type scheduleRepo struct{ t *tenantStore }

func (r scheduleRepo) owned(v *domain.Schedule) bool { return v.TenantID == r.t.tenantID }
func scheduleCreated(v *domain.Schedule) time.Time { return v.Date }

func (r scheduleRepo) Create(_ context.Context, v *domain.Schedule) error {
	return r.t.do(func(d *dataset) error {
		if v.ID == "" {
			v.ID = newID()
		}
		v.TenantID = r.t.tenantID
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.schedules[v.ID] = clone(v)
		return nil
	})
}

func (r scheduleRepo) Get(_ context.Context, id string) (*domain.Schedule, error) {
	var out *domain.Schedule
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.schedules, id, r.owned)
		return err
	})
	return out, err
}

func (r scheduleRepo) List(context.Context) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.schedules, r.owned, scheduleCreated)
		return nil
	})
	return out, err
}

func (r scheduleRepo) ListByEmployee(_ context.Context, employeeID string) ([]*domain.Schedule, error) {
	var out []*domain.Schedule
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.schedules, func(v *domain.Schedule) bool {
			return r.owned(v) && v.EmployeeID == employeeID
		}, scheduleCreated)
		return nil
	})
	return out, err
}

func (r scheduleRepo) Update(_ context.Context, v *domain.Schedule) error {
	return r.t.do(func(d *dataset) error {
		if cur, ok := d.schedules[v.ID]; ok && r.owned(cur) {
			v.TenantID, v.CreatedAt = cur.TenantID, cur.CreatedAt
		}
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		return putExisting(d.schedules, v.ID, v, r.owned)
	})
}

func (r scheduleRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error { return removeRow(d.schedules, id, r.owned) })
}

func (r scheduleRepo) DeleteByEmployee(_ context.Context, employeeID string) error {
	return r.t.do(func(d *dataset) error {
		deleteRows(d.schedules, func(v *domain.Schedule) bool { return r.owned(v) && v.EmployeeID == employeeID })
		return nil
	})
}

// recruitments

type recruitmentRepo struct{ t *tenantStore }

func (r recruitmentRepo) owned(v *domain.Recruitment) bool { return v.TenantID == r.t.tenantID }

func (r recruitmentRepo) titleTaken(d *dataset, v *domain.Recruitment) bool {
	for _, other := range d.openings {
		if other.ID != v.ID && r.owned(other) && sameFold(other.JobTitle, v.JobTitle) {
			return true
		}
	}
	return false
}

func (r recruitmentRepo) Create(_ context.Context, v *domain.Recruitment) error {
	return r.t.do(func(d *dataset) error {
		if r.titleTaken(d, v) {
			return domain.ErrConflict
		}
		if v.ID == "" {
			v.ID = newID()
		}
		v.TenantID = r.t.tenantID
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.openings[v.ID] = clone(v)
		return nil
	})
}

func (r recruitmentRepo) Get(_ context.Context, id string) (*domain.Recruitment, error) {
	var out *domain.Recruitment
	err := r.t.do(func(d *dataset) (err error) {
		out, err = getRow(d.openings, id, r.owned)
		return err
	})
	return out, err
}

func (r recruitmentRepo) List(context.Context) ([]*domain.Recruitment, error) {
	var out []*domain.Recruitment
	err := r.t.do(func(d *dataset) error {
		out = selectRows(d.openings, r.owned, func(v *domain.Recruitment) time.Time { return v.CreatedAt })
		return nil
	})
	return out, err
}

func (r recruitmentRepo) Update(_ context.Context, v *domain.Recruitment) error {
	return r.t.do(func(d *dataset) error {
		cur, ok := d.openings[v.ID]
		if !ok || !r.owned(cur) {
			return domain.ErrNotFound
		}
		if r.titleTaken(d, v) {
			return domain.ErrConflict
		}
		v.TenantID, v.CreatedAt = cur.TenantID, cur.CreatedAt
		r.t.stamp(&v.CreatedAt, &v.UpdatedAt)
		d.openings[v.ID] = clone(v)
		return nil
	})
}

func (r recruitmentRepo) Delete(_ context.Context, id string) error {
	return r.t.do(func(d *dataset) error {
		return removeRow(d.openings, id, r.owned)
	})
}
