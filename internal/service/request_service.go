package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security"
)

// RequestService manages tickets raised by employees or by HR on their behalf.
type RequestService struct {
	deps Deps
}

func NewRequestService(deps Deps) *RequestService {
	return &RequestService{deps: deps.withDefaults()}
}

type RequestInput struct {
	Title       string             `json:"requesttitle"`
	Content     string             `json:"requestconent"`
	EmployeeID  string             `json:"employeeID"`
	Priority    domain.Priority    `json:"priority"`
	RequestType domain.RequestType `json:"requestType"`
}

func (in *RequestInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := domain.MissingFields("requesttitle", in.Title, "requestconent", in.Content); err != nil {
		return err
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if in.RequestType == "" {
		in.RequestType = domain.RequestGeneral
	}
	if !in.Priority.Valid() {
		return domain.Invalid("unknown priority %q", in.Priority)
	}
	if !in.RequestType.Valid() {
		return domain.Invalid("unknown request type %q", in.RequestType)
	}
	return nil
}

// Create raises a request for the calling employee. A pending request with the
// same title and content from the same department is a conflict.
func (s *RequestService) Create(ctx context.Context, in RequestInput) (*domain.GenerateRequest, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	in.EmployeeID = c.SubjectID
	if err := in.normalize(); err != nil {
		return nil, err
	}
	e, err := requireEmployee(ctx, ts, c.SubjectID)
	if err != nil {
		return nil, err
	}
	existing, err := ts.Requests().ListByEmployee(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Status == domain.RequestPending && r.Title == in.Title &&
			r.Content == in.Content && r.DepartmentID == e.DepartmentID {
			return nil, fmt.Errorf("request already exists: %w", domain.ErrConflict)
		}
	}
	r := s.newRequest(in, e, domain.RoleEmployee)
	if err := ts.Requests().Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.deps.refresh(ctx, c)
	return r, nil
}

// CreateByHR raises a request on behalf of an employee of the organization.
func (s *RequestService) CreateByHR(ctx context.Context, in RequestInput) (*domain.GenerateRequest, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	e, err := requireEmployee(ctx, ts, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	r := s.newRequest(in, e, domain.RoleHRAdmin)
	r.ApprovedBy = c.SubjectID
	if err := ts.Requests().Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.deps.audit(ctx, c, "create", "request", r.ID)
	s.deps.refresh(ctx, c)
	s.deps.notifyEmployee(ctx, e.ID, "request", r.ID, "HR opened a request for you: "+r.Title)
	return r, nil
}

func (s *RequestService) newRequest(in RequestInput, e *domain.Employee, by domain.Role) *domain.GenerateRequest {
	return &domain.GenerateRequest{
		Title:        in.Title,
		Content:      in.Content,
		EmployeeID:   e.ID,
		DepartmentID: e.DepartmentID,
		Status:       domain.RequestPending,
		Priority:     in.Priority,
		RequestType:  in.RequestType,
		CreatedBy:    by,
	}
}

func (s *RequestService) List(ctx context.Context) ([]*domain.GenerateRequest, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Requests().List(ctx)
}

func (s *RequestService) Get(ctx context.Context, id string) (*domain.GenerateRequest, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, c, ts, id, security.ActionRead)
}

// ByEmployee lists one employee's requests. Employees may only list their own.
func (s *RequestService) ByEmployee(ctx context.Context, employeeID string) ([]*domain.GenerateRequest, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceRequest, employeeID, employeeID, security.ActionRead); err != nil {
		return nil, err
	}
	if _, err := requireEmployee(ctx, ts, employeeID); err != nil {
		return nil, err
	}
	return ts.Requests().ListByEmployee(ctx, employeeID)
}

type RequestContentUpdate struct {
	ID          string              `json:"requestID"`
	Title       *string             `json:"requesttitle"`
	Content     *string             `json:"requestconent"`
	Priority    *domain.Priority    `json:"priority"`
	RequestType *domain.RequestType `json:"requestType"`
}

// UpdateContent edits an open request.
func (s *RequestService) UpdateContent(ctx context.Context, in RequestContentUpdate) (*domain.GenerateRequest, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.load(ctx, c, ts, in.ID, security.ActionWrite)
	if err != nil {
		return nil, err
	}
	if r.Status == domain.RequestClosed {
		return nil, fmt.Errorf("request %s is closed: %w", r.ID, domain.ErrInvalidTransition)
	}
	set(&r.Title, in.Title)
	set(&r.Content, in.Content)
	set(&r.Priority, in.Priority)
	set(&r.RequestType, in.RequestType)
	if err := domain.MissingFields("requesttitle", r.Title, "requestconent", r.Content); err != nil {
		return nil, err
	}
	if !r.Priority.Valid() || !r.RequestType.Valid() {
		return nil, domain.Invalid("unknown priority or request type")
	}
	return r, s.save(ctx, c, ts, r)
}

type RequestStatusUpdate struct {
	ID         string               `json:"requestID"`
	Status     domain.RequestStatus `json:"status"`
	HRComments *string              `json:"hrComments"`
	Priority   *domain.Priority     `json:"priority"`
}

// UpdateStatus moves a request along its lifecycle.
func (s *RequestService) UpdateStatus(ctx context.Context, in RequestStatusUpdate) (*domain.GenerateRequest, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.load(ctx, c, ts, in.ID, security.ActionWrite)
	if err != nil {
		return nil, err
	}
	if err := domain.RequestMachine.Transition(r.Status, in.Status); err != nil {
		return nil, err
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, domain.Invalid("unknown priority %q", *in.Priority)
	}
	r.Status = in.Status
	r.ApprovedBy = c.SubjectID
	set(&r.HRComments, in.HRComments)
	set(&r.Priority, in.Priority)
	if r.Status == domain.RequestClosed {
		s.markClosed(r, c)
	}
	if err := s.save(ctx, c, ts, r); err != nil {
		return nil, err
	}
	s.deps.notifyEmployee(ctx, r.EmployeeID, "request", r.ID, "Your request is now "+string(r.Status))
	return r, nil
}

type RequestClose struct {
	ID         string `json:"requestID"`
	HRComments string `json:"hrComments"`
}

func (s *RequestService) Close(ctx context.Context, in RequestClose) (*domain.GenerateRequest, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.load(ctx, c, ts, in.ID, security.ActionWrite)
	if err != nil {
		return nil, err
	}
	if err := domain.RequestMachine.Transition(r.Status, domain.RequestClosed); err != nil {
		return nil, err
	}
	r.Status = domain.RequestClosed
	if in.HRComments != "" {
		r.HRComments = in.HRComments
	}
	s.markClosed(r, c)
	if err := s.save(ctx, c, ts, r); err != nil {
		return nil, err
	}
	s.deps.notifyEmployee(ctx, r.EmployeeID, "request", r.ID, "Your request was closed")
	return r, nil
}

func (s *RequestService) markClosed(r *domain.GenerateRequest, c caller) {
	now := s.deps.Now().UTC()
	r.ClosedBy = c.SubjectID
	r.ClosedAt = &now
}

type RequestPriorityUpdate struct {
	ID       string          `json:"requestID"`
	Priority domain.Priority `json:"priority"`
}

func (s *RequestService) UpdatePriority(ctx context.Context, in RequestPriorityUpdate) (*domain.GenerateRequest, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if !in.Priority.Valid() {
		return nil, domain.Invalid("unknown priority %q", in.Priority)
	}
	r, err := s.load(ctx, c, ts, in.ID, security.ActionWrite)
	if err != nil {
		return nil, err
	}
	r.Priority = in.Priority
	return r, s.save(ctx, c, ts, r)
}

func (s *RequestService) Delete(ctx context.Context, id string) error {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return err
	}
	if _, err := s.load(ctx, c, ts, id, security.ActionDelete); err != nil {
		return err
	}
	if err := ts.Requests().Delete(ctx, id); err != nil {
		return err
	}
	s.deps.audit(ctx, c, "delete", "request", id)
	s.deps.refresh(ctx, c)
	return nil
}

func (s *RequestService) load(ctx context.Context, c caller, ts domain.TenantStore, id string, action security.Action) (*domain.GenerateRequest, error) {
	if id == "" {
		return nil, domain.Invalid("request id is required")
	}
	r, err := ts.Requests().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceRequest, id, r.EmployeeID, action); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RequestService) save(ctx context.Context, c caller, ts domain.TenantStore, r *domain.GenerateRequest) error {
	if err := ts.Requests().Update(ctx, r); err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	s.deps.refresh(ctx, c)
	return nil
}
