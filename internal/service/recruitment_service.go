package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// RecruitmentService manages open positions.
type RecruitmentService struct {
	deps Deps
}

func NewRecruitmentService(deps Deps) *RecruitmentService {
	return &RecruitmentService{deps: deps.withDefaults()}
}

type RecruitmentInput struct {
	JobTitle     string `json:"jobtitle"`
	Description  string `json:"description"`
	DepartmentID string `json:"departmentID"`
}

// Create opens a position. A job title already open in the organization is a
// conflict.
func (s *RecruitmentService) Create(ctx context.Context, in RecruitmentInput) (*domain.Recruitment, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.MissingFields("jobtitle", in.JobTitle, "description", in.Description); err != nil {
		return nil, err
	}
	if err := requireDepartment(ctx, ts, in.DepartmentID); err != nil {
		return nil, err
	}
	rc := &domain.Recruitment{
		JobTitle:     strings.TrimSpace(in.JobTitle),
		Description:  in.Description,
		DepartmentID: in.DepartmentID,
	}
	if err := ts.Recruitments().Create(ctx, rc); err != nil {
		return nil, fmt.Errorf("create recruitment: %w", err)
	}
	s.deps.audit(ctx, c, "create", "recruitment", rc.ID)
	return rc, nil
}

func (s *RecruitmentService) List(ctx context.Context) ([]*domain.Recruitment, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Recruitments().List(ctx)
}

func (s *RecruitmentService) Get(ctx context.Context, id string) (*domain.Recruitment, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Recruitments().Get(ctx, id)
}

// RecruitmentUpdate changes the fields that are set.
type RecruitmentUpdate struct {
	ID           string  `json:"-"`
	JobTitle     *string `json:"jobtitle"`
	Description  *string `json:"description"`
	DepartmentID *string `json:"departmentID"`
}

func (s *RecruitmentService) Update(ctx context.Context, in RecruitmentUpdate) (*domain.Recruitment, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	rc, err := ts.Recruitments().Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	set(&rc.JobTitle, in.JobTitle)
	set(&rc.Description, in.Description)
	set(&rc.DepartmentID, in.DepartmentID)
	rc.JobTitle = strings.TrimSpace(rc.JobTitle)
	if rc.JobTitle == "" {
		return nil, domain.Invalid("jobtitle must not be empty")
	}
	if err := requireDepartment(ctx, ts, rc.DepartmentID); err != nil {
		return nil, err
	}
	if err := ts.Recruitments().Update(ctx, rc); err != nil {
		return nil, fmt.Errorf("update recruitment: %w", err)
	}
	s.deps.audit(ctx, c, "update", "recruitment", rc.ID)
	return rc, nil
}

func (s *RecruitmentService) Delete(ctx context.Context, id string) error {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return err
	}
	if err := ts.Recruitments().Delete(ctx, id); err != nil {
		return err
	}
	s.deps.audit(ctx, c, "delete", "recruitment", id)
	return nil
}

// requireDepartment checks that a referenced department belongs to the
// organization. An empty id is allowed.
func requireDepartment(ctx context.Context, ts domain.TenantStore, id string) error {
	if id == "" {
		return nil
	}
	if _, err := ts.Departments().Get(ctx, id); err != nil {
		return fmt.Errorf("department %s: %w", id, err)
	}
	return nil
}
