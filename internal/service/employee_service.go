package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security"
)

// EmployeeService manages employee profiles inside one organization.
type EmployeeService struct {
	deps Deps
}

func NewEmployeeService(deps Deps) *EmployeeService {
	return &EmployeeService{deps: deps.withDefaults()}
}

// EmployeeRef is the short form used by pickers.
type EmployeeRef struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	DepartmentID string `json:"department,omitempty"`
}

func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Employees().List(ctx)
}

func (s *EmployeeService) Refs(ctx context.Context) ([]EmployeeRef, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeRef, 0, len(all))
	for _, e := range all {
		out = append(out, EmployeeRef{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName, DepartmentID: e.DepartmentID})
	}
	return out, nil
}

// Get returns one employee. Employees may only read themselves.
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceEmployee, id, id, security.ActionRead); err != nil {
		return nil, err
	}
	return requireEmployee(ctx, ts, id)
}

// Self returns the calling employee.
func (s *EmployeeService) Self(ctx context.Context) (*domain.Employee, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return requireEmployee(ctx, ts, c.SubjectID)
}

// ProfileInput holds the fields an employee may change on its own profile.
type ProfileInput struct {
	FirstName        *string                  `json:"firstname"`
	LastName         *string                  `json:"lastname"`
	ContactNumber    *string                  `json:"contactnumber"`
	Address          *string                  `json:"address"`
	Gender           *string                  `json:"gender"`
	DateOfBirth      *string                  `json:"dateOfBirth"`
	EmergencyContact *domain.EmergencyContact `json:"emergencyContact"`
	Skills           []string                 `json:"skills"`
}

func (in ProfileInput) apply(e *domain.Employee) error {
	set(&e.FirstName, in.FirstName)
	set(&e.LastName, in.LastName)
	set(&e.ContactNumber, in.ContactNumber)
	set(&e.Address, in.Address)
	set(&e.Gender, in.Gender)
	if in.DateOfBirth != nil {
		dob, err := parseOptionalDate("dateOfBirth", in.DateOfBirth)
		if err != nil {
			return err
		}
		e.DateOfBirth = dob
	}
	if in.EmergencyContact != nil {
		e.EmergencyContact = *in.EmergencyContact
	}
	if in.Skills != nil {
		e.Skills = in.Skills
	}
	if e.FirstName == "" || e.LastName == "" {
		return domain.Invalid("first and last name must not be empty")
	}
	return nil
}

// UpdateSelf applies a profile update from the calling employee.
func (s *EmployeeService) UpdateSelf(ctx context.Context, in ProfileInput) (*domain.Employee, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	e, err := requireEmployee(ctx, ts, c.SubjectID)
	if err != nil {
		return nil, err
	}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	if err := ts.Employees().Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	s.deps.refresh(ctx, c)
	return e, nil
}

// EmployeeInput is an HR-Admin update of any employee field.
type EmployeeInput struct {
	ProfileInput
	Email          *string `json:"email"`
	DepartmentID   *string `json:"department"`
	EmployeeCode   *string `json:"employeeId"`
	Position       *string `json:"position"`
	JoiningDate    *string `json:"joiningDate"`
	EmploymentType *string `json:"employmentType"`
	Status         *string `json:"status"`
	ManagerID      *string `json:"manager"`
	WorkLocation   *string `json:"workLocation"`
}

// UpdateByHR applies an HR-Admin update to employee id.
func (s *EmployeeService) UpdateByHR(ctx context.Context, id string, in EmployeeInput) (*domain.Employee, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	e, err := requireEmployee(ctx, ts, id)
	if err != nil {
		return nil, err
	}
	if err := in.ProfileInput.apply(e); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, domain.Invalid("email must not be empty")
		}
		e.Email = email
	}
	if in.DepartmentID != nil && *in.DepartmentID != "" {
		if _, err := ts.Departments().Get(ctx, *in.DepartmentID); err != nil {
			return nil, fmt.Errorf("department %s: %w", *in.DepartmentID, err)
		}
	}
	set(&e.DepartmentID, in.DepartmentID)
	set(&e.EmployeeCode, in.EmployeeCode)
	set(&e.Position, in.Position)
	set(&e.WorkLocation, in.WorkLocation)
	if in.JoiningDate != nil {
		if e.JoiningDate, err = parseOptionalDate("joiningDate", in.JoiningDate); err != nil {
			return nil, err
		}
	}
	if in.EmploymentType != nil {
		t := domain.EmploymentType(*in.EmploymentType)
		if !t.Valid() {
			return nil, domain.Invalid("unknown employment type %q", *in.EmploymentType)
		}
		e.EmploymentType = t
	}
	if in.Status != nil {
		st := domain.EmployeeStatus(*in.Status)
		if !st.Valid() {
			return nil, domain.Invalid("unknown employee status %q", *in.Status)
		}
		e.Status = st
	}
	if in.ManagerID != nil {
		if *in.ManagerID == e.ID {
			return nil, domain.Invalid("an employee cannot manage itself")
		}
		if *in.ManagerID != "" {
			if _, err := requireEmployee(ctx, ts, *in.ManagerID); err != nil {
				return nil, err
			}
		}
		e.ManagerID = *in.ManagerID
	}

	if err := ts.Employees().Update(ctx, e); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	s.deps.audit(ctx, c, "update", "employee", e.ID)
	s.deps.refresh(ctx, c)
	s.deps.notifyEmployee(ctx, e.ID, "profile", e.ID, "Your profile was updated by HR")
	return e, nil
}

// Delete removes an employee and every record it owns in one transaction.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	c, err := callerFrom(ctx)
	if err != nil {
		return err
	}
	err = s.deps.Store.WithinTx(ctx, c.scope, func(ts domain.TenantStore) error {
		if _, err := requireEmployee(ctx, ts, id); err != nil {
			return err
		}
		steps := []struct {
			name string
			run  func(context.Context, string) error
		}{
			{"leaves", ts.Leaves().DeleteByEmployee},
			{"salaries", ts.Salaries().DeleteByEmployee},
			{"notices", ts.Notices().DeleteByEmployee},
			{"requests", ts.Requests().DeleteByEmployee},
			{"attendance", ts.Attendance().DeleteByEmployee},
			{"schedules", ts.Schedules().DeleteByEmployee},
			{"employee", ts.Employees().Delete},
		}
		for _, step := range steps {
			if err := step.run(ctx, id); err != nil {
				return fmt.Errorf("delete %s of employee %s: %w", step.name, id, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.deps.Logger.Info("employee deleted",
		slog.String("tenant_id", c.TenantID),
		slog.String("employee_id", id),
	)
	s.deps.audit(ctx, c, "delete", "employee", id)
	s.deps.refresh(ctx, c)
	return nil
}
