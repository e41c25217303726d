package memory

import (
	"context"
	"sort"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

type credentials struct {
	s *Store
}

func (c *credentials) lookup(d *dataset, role domain.Role, match func(*domain.Principal) bool) (*domain.Principal, error) {
	switch role {
	case domain.RoleHRAdmin:
		for _, p := range d.hrs {
			if match(p) {
				return clone(p), nil
			}
		}
	case domain.RoleEmployee:
		for _, e := range d.employees {
			if match(&e.Principal) {
				p := e.Principal
				return &p, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (c *credentials) find(role domain.Role, match func(*domain.Principal) bool) (*domain.Principal, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.lookup(c.s.data, role, match)
}

func (c *credentials) FindByEmail(_ context.Context, role domain.Role, email string) (*domain.Principal, error) {
	email = domain.NormalizeEmail(email)
	return c.find(role, func(p *domain.Principal) bool { return p.Email == email })
}

func (c *credentials) FindByID(_ context.Context, role domain.Role, id string) (*domain.Principal, error) {
	return c.find(role, func(p *domain.Principal) bool { return p.ID == id })
}

func (c *credentials) FindByVerificationCode(_ context.Context, role domain.Role, code string, now time.Time) (*domain.Principal, error) {
	return c.find(role, func(p *domain.Principal) bool {
		return code != "" && p.VerificationCode == code &&
			p.VerificationExpiresAt != nil && p.VerificationExpiresAt.After(now)
	})
}

func (c *credentials) FindByResetToken(_ context.Context, role domain.Role, token string, now time.Time) (*domain.Principal, error) {
	return c.find(role, func(p *domain.Principal) bool {
		return token != "" && p.ResetToken == token &&
			p.ResetExpiresAt != nil && p.ResetExpiresAt.After(now)
	})
}

func (c *credentials) EmailTaken(_ context.Context, email string) (bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return emailInUse(c.s.data, domain.NormalizeEmail(email), ""), nil
}

func (c *credentials) SaveCredentials(_ context.Context, p *domain.Principal) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	apply := func(dst *domain.Principal) {
		dst.PasswordHash = p.PasswordHash
		dst.IsVerified = p.IsVerified
		dst.VerificationCode = p.VerificationCode
		dst.VerificationExpiresAt = p.VerificationExpiresAt
		dst.ResetToken = p.ResetToken
		dst.ResetExpiresAt = p.ResetExpiresAt
		dst.UpdatedAt = c.s.now().UTC()
	}
	switch p.Role {
	case domain.RoleHRAdmin:
		if cur, ok := c.s.data.hrs[p.ID]; ok {
			apply(cur)
			return nil
		}
	case domain.RoleEmployee:
		if cur, ok := c.s.data.employees[p.ID]; ok {
			apply(&cur.Principal)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (c *credentials) RecordLogin(_ context.Context, role domain.Role, id string, at time.Time) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	at = at.UTC()
	switch role {
	case domain.RoleHRAdmin:
		if cur, ok := c.s.data.hrs[id]; ok {
			cur.LastLogin = &at
			return nil
		}
	case domain.RoleEmployee:
		if cur, ok := c.s.data.employees[id]; ok {
			cur.LastLogin = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (c *credentials) OrganizationExists(_ context.Context, name string) (bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, o := range c.s.data.orgs {
		if sameFold(o.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (c *credentials) RegisterOrganization(_ context.Context, org *domain.Organization, admin *domain.Principal) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	d := c.s.data
	for _, o := range d.orgs {
		if sameFold(o.Name, org.Name) {
			return domain.ErrConflict
		}
	}
	if emailInUse(d, admin.Email, "") {
		return domain.ErrConflict
	}

	now := c.s.now().UTC()
	if org.ID == "" {
		org.ID = newID()
	}
	org.CreatedAt, org.UpdatedAt = now, now
	if admin.ID == "" {
		admin.ID = newID()
	}
	admin.TenantID = org.ID
	admin.CreatedAt, admin.UpdatedAt = now, now

	d.orgs[org.ID] = clone(org)
	d.hrs[admin.ID] = clone(admin)
	return nil
}

func (c *credentials) OrganizationIDs(context.Context) ([]string, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	ids := make([]string, 0, len(c.s.data.orgs))
	for id := range c.s.data.orgs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
