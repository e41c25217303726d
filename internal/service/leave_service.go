package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security"
)

const defaultLeaveTitle = "Leave Application"

// LeaveService handles leave applications and their review.
type LeaveService struct {
	deps Deps
}

func NewLeaveService(deps Deps) *LeaveService {
	return &LeaveService{deps: deps.withDefaults()}
}

type LeaveInput struct {
	Title     *string `json:"title"`
	Reason    *string `json:"reason"`
	StartDate *string `json:"startdate"`
	EndDate   *string `json:"enddate"`
}

func (in LeaveInput) apply(l *domain.Leave) error {
	set(&l.Title, in.Title)
	set(&l.Reason, in.Reason)
	if in.StartDate != nil {
		t, err := parseDate("startdate", *in.StartDate)
		if err != nil {
			return err
		}
		l.StartDate = t
	}
	if in.EndDate != nil {
		t, err := parseDate("enddate", *in.EndDate)
		if err != nil {
			return err
		}
		l.EndDate = t
	}
	if strings.TrimSpace(l.Title) == "" {
		l.Title = defaultLeaveTitle
	}
	if strings.TrimSpace(l.Reason) == "" || l.StartDate.IsZero() || l.EndDate.IsZero() {
		return domain.MissingFields("reason", l.Reason, "startdate", dateString(l.StartDate), "enddate", dateString(l.EndDate))
	}
	if l.EndDate.Before(l.StartDate) {
		return domain.Invalid("end date must not be before start date")
	}
	return nil
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// Apply files a leave for the calling employee. An identical pending
// application is rejected as a duplicate.
func (s *LeaveService) Apply(ctx context.Context, in LeaveInput) (*domain.Leave, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	l := &domain.Leave{EmployeeID: c.SubjectID, Status: domain.LeavePending}
	if err := in.apply(l); err != nil {
		return nil, err
	}
	if _, err := requireEmployee(ctx, ts, c.SubjectID); err != nil {
		return nil, err
	}
	existing, err := ts.Leaves().ListByEmployee(ctx, c.SubjectID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.Status == domain.LeavePending &&
			other.StartDate.Equal(l.StartDate) && other.EndDate.Equal(l.EndDate) {
			return nil, fmt.Errorf("pending leave for these dates: %w", domain.ErrConflict)
		}
	}
	if err := ts.Leaves().Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create leave: %w", err)
	}
	s.deps.refresh(ctx, c)
	return l, nil
}

func (s *LeaveService) List(ctx context.Context) ([]*domain.Leave, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Leaves().List(ctx)
}

func (s *LeaveService) Mine(ctx context.Context) ([]*domain.Leave, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Leaves().ListByEmployee(ctx, c.SubjectID)
}

func (s *LeaveService) Get(ctx context.Context, id string) (*domain.Leave, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	l, err := ts.Leaves().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceLeave, id, l.EmployeeID, security.ActionRead); err != nil {
		return nil, err
	}
	return l, nil
}

// Edit lets an employee change its own leave while it is still pending.
func (s *LeaveService) Edit(ctx context.Context, id string, in LeaveInput) (*domain.Leave, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	l, err := ts.Leaves().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceLeave, id, l.EmployeeID, security.ActionWrite); err != nil {
		return nil, err
	}
	if l.Status != domain.LeavePending {
		return nil, fmt.Errorf("leave %s is %s: %w", id, l.Status, domain.ErrInvalidTransition)
	}
	if err := in.apply(l); err != nil {
		return nil, err
	}
	if err := ts.Leaves().Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update leave: %w", err)
	}
	s.deps.refresh(ctx, c)
	return l, nil
}

// Review approves or rejects a pending leave.
func (s *LeaveService) Review(ctx context.Context, id string, status domain.LeaveStatus) (*domain.Leave, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	l, err := ts.Leaves().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.LeaveMachine.Transition(l.Status, status); err != nil {
		return nil, err
	}
	l.Status = status
	l.ApprovedBy = c.SubjectID
	if err := ts.Leaves().Update(ctx, l); err != nil {
		return nil, fmt.Errorf("review leave: %w", err)
	}
	s.deps.audit(ctx, c, "review", "leave", l.ID)
	s.deps.refresh(ctx, c)
	s.deps.notifyEmployee(ctx, l.EmployeeID, "leave", l.ID, "Your leave was "+strings.ToLower(string(status)))
	return l, nil
}

// Delete removes a leave. Employees may only withdraw their own pending
// applications.
func (s *LeaveService) Delete(ctx context.Context, id string) error {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return err
	}
	l, err := ts.Leaves().Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.owns(c, security.ResourceLeave, id, l.EmployeeID, security.ActionDelete); err != nil {
		return err
	}
	if !c.isHR() && l.Status != domain.LeavePending {
		return fmt.Errorf("leave %s is %s: %w", id, l.Status, domain.ErrInvalidTransition)
	}
	if err := ts.Leaves().Delete(ctx, id); err != nil {
		return err
	}
	s.deps.refresh(ctx, c)
	return nil
}
