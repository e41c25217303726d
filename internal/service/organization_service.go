package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// OrganizationService reads and edits the caller's organization settings.
type OrganizationService struct {
	deps Deps
}

func NewOrganizationService(deps Deps) *OrganizationService {
	return &OrganizationService{deps: deps.withDefaults()}
}

func (s *OrganizationService) Info(ctx context.Context) (*domain.Organization, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Organization().Get(ctx)
}

type OrganizationInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	URL         *string `json:"OrganizationURL"`
	Mail        *string `json:"OrganizationMail"`
	Policies    *string `json:"policies"`
}

// Update applies the provided fields. Organization names stay unique.
func (s *OrganizationService) Update(ctx context.Context, in OrganizationInput) (*domain.Organization, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	org, err := ts.Organization().Get(ctx)
	if err != nil {
		return nil, err
	}
	set(&org.Name, in.Name)
	set(&org.Description, in.Description)
	set(&org.URL, in.URL)
	set(&org.Mail, in.Mail)
	set(&org.Policies, in.Policies)
	org.Name = strings.TrimSpace(org.Name)
	if org.Name == "" {
		return nil, domain.MissingFields("name", "")
	}
	if in.Mail != nil && *in.Mail != "" && !strings.Contains(*in.Mail, "@") {
		return nil, domain.Invalid("OrganizationMail must be an email address")
	}
	if err := ts.Organization().Update(ctx, org); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	s.deps.audit(ctx, c, "update", "organization", org.ID)
	s.deps.refresh(ctx, c)
	return org, nil
}
