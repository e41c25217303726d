package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// NoticeService publishes announcements to a department or to one employee.
type NoticeService struct {
	deps Deps
}

func NewNoticeService(deps Deps) *NoticeService {
	return &NoticeService{deps: deps.withDefaults()}
}

type NoticeInput struct {
	Title        string                `json:"title"`
	Content      string                `json:"content"`
	Audience     domain.NoticeAudience `json:"audience"`
	DepartmentID string                `json:"departmentID"`
	EmployeeID   string                `json:"employeeID"`
}

// Create validates that the target matches the audience and belongs to the
// caller's organization.
func (s *NoticeService) Create(ctx context.Context, in NoticeInput) (*domain.Notice, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := domain.MissingFields("title", in.Title, "content", in.Content, "audience", string(in.Audience)); err != nil {
		return nil, err
	}
	n := &domain.Notice{Title: in.Title, Content: in.Content, Audience: in.Audience, CreatedBy: c.SubjectID}
	switch in.Audience {
	case domain.AudienceDepartment:
		if in.DepartmentID == "" {
			return nil, domain.MissingFields("departmentID", "")
		}
		if _, err := ts.Departments().Get(ctx, in.DepartmentID); err != nil {
			return nil, fmt.Errorf("department %s: %w", in.DepartmentID, err)
		}
		n.DepartmentID = in.DepartmentID
	case domain.AudienceEmployee:
		if _, err := requireEmployee(ctx, ts, in.EmployeeID); err != nil {
			return nil, err
		}
		n.EmployeeID = in.EmployeeID
	default:
		return nil, domain.Invalid("audience must be %q or %q", domain.AudienceDepartment, domain.AudienceEmployee)
	}
	if err := ts.Notices().Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	s.deps.audit(ctx, c, "create", "notice", n.ID)
	s.deps.refresh(ctx, c)
	s.announce(ctx, ts, n)
	return n, nil
}

func (s *NoticeService) announce(ctx context.Context, ts domain.TenantStore, n *domain.Notice) {
	if n.EmployeeID != "" {
		s.deps.notifyEmployee(ctx, n.EmployeeID, "notice", n.ID, n.Title)
		return
	}
	members, err := ts.Employees().ListByDepartment(ctx, n.DepartmentID)
	if err != nil {
		s.deps.Logger.Warn("notice fan-out failed", "notice_id", n.ID, "error", err)
		return
	}
	for _, e := range members {
		s.deps.notifyEmployee(ctx, e.ID, "notice", n.ID, n.Title)
	}
}

func (s *NoticeService) List(ctx context.Context) ([]*domain.Notice, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Notices().List(ctx)
}

// Get returns a notice. Employees only see notices addressed to them or to
// their department.
func (s *NoticeService) Get(ctx context.Context, id string) (*domain.Notice, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	n, err := ts.Notices().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.isHR() {
		return n, nil
	}
	e, err := requireEmployee(ctx, ts, c.SubjectID)
	if err != nil {
		return nil, err
	}
	if !addressedTo(n, e) {
		return nil, fmt.Errorf("%w: notice %s is not addressed to you", domain.ErrForbidden, id)
	}
	return n, nil
}

// Mine lists the notices addressed to the calling employee.
func (s *NoticeService) Mine(ctx context.Context) ([]*domain.Notice, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	e, err := requireEmployee(ctx, ts, c.SubjectID)
	if err != nil {
		return nil, err
	}
	all, err := ts.Notices().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Notice, 0, len(all))
	for _, n := range all {
		if addressedTo(n, e) {
			out = append(out, n)
		}
	}
	return out, nil
}

func addressedTo(n *domain.Notice, e *domain.Employee) bool {
	switch n.Audience {
	case domain.AudienceEmployee:
		return n.EmployeeID == e.ID
	case domain.AudienceDepartment:
		return e.DepartmentID != "" && n.DepartmentID == e.DepartmentID
	}
	return false
}

func (s *NoticeService) Delete(ctx context.Context, id string) error {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return err
	}
	if err := ts.Notices().Delete(ctx, id); err != nil {
		return err
	}
	s.deps.audit(ctx, c, "delete", "notice", id)
	s.deps.refresh(ctx, c)
	return nil
}
