package service

import (
	"context"
	"fmt"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// HRService manages the HR-Admin profiles of one organization.
type HRService struct {
	deps Deps
}

func NewHRService(deps Deps) *HRService {
	return &HRService{deps: deps.withDefaults()}
}

func (s *HRService) List(ctx context.Context) ([]*domain.Principal, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.HRAdmins().List(ctx)
}

func (s *HRService) Get(ctx context.Context, id string) (*domain.Principal, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.HRAdmins().Get(ctx, id)
}

// HRProfileInput updates the caller's own HR profile.
type HRProfileInput struct {
	FirstName     *string `json:"firstname"`
	LastName      *string `json:"lastname"`
	Email         *string `json:"email"`
	ContactNumber *string `json:"contactnumber"`
}

func (s *HRService) UpdateSelf(ctx context.Context, in HRProfileInput) (*domain.Principal, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	p, err := ts.HRAdmins().Get(ctx, c.SubjectID)
	if err != nil {
		return nil, err
	}
	set(&p.FirstName, in.FirstName)
	set(&p.LastName, in.LastName)
	set(&p.ContactNumber, in.ContactNumber)
	if in.Email != nil {
		p.Email = domain.NormalizeEmail(*in.Email)
	}
	if err := domain.MissingFields("firstname", p.FirstName, "lastname", p.LastName, "email", p.Email); err != nil {
		return nil, err
	}
	if err := ts.HRAdmins().Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update HR: %w", err)
	}
	s.deps.audit(ctx, c, "update", "hr", p.ID)
	return p, nil
}

// Delete removes another HR-Admin. The caller cannot remove itself, so an
// organization always keeps at least one.
func (s *HRService) Delete(ctx context.Context, id string) error {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return err
	}
	if id == c.SubjectID {
		return domain.Invalid("you cannot delete your own HR account")
	}
	if _, err := ts.HRAdmins().Get(ctx, id); err != nil {
		return err
	}
	if err := ts.HRAdmins().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete HR: %w", err)
	}
	s.deps.audit(ctx, c, "delete", "hr", id)
	s.deps.refresh(ctx, c)
	return nil
}
