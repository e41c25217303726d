package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// DepartmentService manages departments and their membership.
type DepartmentService struct {
	deps Deps
}

func NewDepartmentService(deps Deps) *DepartmentService {
	return &DepartmentService{deps: deps.withDefaults()}
}

// DepartmentView is a department with its members.
type DepartmentView struct {
	Department *domain.Department
	Employees  []*domain.Employee
}

type DepartmentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *DepartmentService) Create(ctx context.Context, in DepartmentInput) (*domain.Department, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.MissingFields("name", in.Name, "description", in.Description); err != nil {
		return nil, err
	}
	d := &domain.Department{Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := ts.Departments().Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	s.deps.audit(ctx, c, "create", "department", d.ID)
	s.deps.refresh(ctx, c)
	return d, nil
}

func (s *DepartmentService) List(ctx context.Context) ([]*domain.Department, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Departments().List(ctx)
}

func (s *DepartmentService) Get(ctx context.Context, id string) (*DepartmentView, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	d, err := ts.Departments().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := ts.Employees().ListByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DepartmentView{Department: d, Employees: members}, nil
}

// DepartmentUpdate renames a department and optionally moves employees in
// or out of it.
type DepartmentUpdate struct {
	ID              string   `json:"departmentID"`
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	AddEmployees    []string `json:"employeeIDArray"`
	RemoveEmployees []string `json:"removeEmployeeIDArray"`
}

func (s *DepartmentService) Update(ctx context.Context, in DepartmentUpdate) (*DepartmentView, error) {
	c, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, domain.Invalid("departmentID is required")
	}
	err = s.deps.Store.WithinTx(ctx, c.scope, func(ts domain.TenantStore) error {
		d, err := ts.Departments().Get(ctx, in.ID)
		if err != nil {
			return err
		}
		set(&d.Name, in.Name)
		set(&d.Description, in.Description)
		if strings.TrimSpace(d.Name) == "" {
			return domain.Invalid("name must not be empty")
		}
		if err := ts.Departments().Update(ctx, d); err != nil {
			return fmt.Errorf("update department: %w", err)
		}
		if err := moveEmployees(ctx, ts, in.AddEmployees, d.ID, ""); err != nil {
			return err
		}
		return moveEmployees(ctx, ts, in.RemoveEmployees, "", d.ID)
	})
	if err != nil {
		return nil, err
	}
	s.deps.audit(ctx, c, "update", "department", in.ID)
	s.deps.refresh(ctx, c)
	return s.Get(ctx, in.ID)
}

// moveEmployees sets the department of each employee to to. When from is
// set, only members of from are moved.
func moveEmployees(ctx context.Context, ts domain.TenantStore, ids []string, to, from string) error {
	for _, id := range ids {
		e, err := requireEmployee(ctx, ts, id)
		if err != nil {
			return err
		}
		if from != "" && e.DepartmentID != from {
			continue
		}
		e.DepartmentID = to
		if err := ts.Employees().Update(ctx, e); err != nil {
			return fmt.Errorf("move employee %s: %w", id, err)
		}
	}
	return nil
}

// Delete detaches every member and removes the department in one transaction.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	c, err := callerFrom(ctx)
	if err != nil {
		return err
	}
	err = s.deps.Store.WithinTx(ctx, c.scope, func(ts domain.TenantStore) error {
		if _, err := ts.Departments().Get(ctx, id); err != nil {
			return err
		}
		if err := ts.Employees().ClearDepartment(ctx, id); err != nil {
			return fmt.Errorf("detach employees: %w", err)
		}
		return ts.Departments().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.deps.audit(ctx, c, "delete", "department", id)
	s.deps.refresh(ctx, c)
	return nil
}
