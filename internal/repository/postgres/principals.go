package postgres

import (
	"context"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

type orgRepo struct{ t *tenantStore }

func (r *orgRepo) Get(ctx context.Context) (*domain.Organization, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	org := &domain.Organization{}
	err = r.t.q.QueryRowContext(ctx, `
		SELECT id, name, description, url, mail, policies, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, tid).Scan(&org.ID, &org.Name, &org.Description, &org.URL, &org.Mail, &org.Policies, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, r.t.fail("get organization", err)
	}
	return org, nil
}

func (r *orgRepo) Update(ctx context.Context, org *domain.Organization) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	org.ID = tid
	org.UpdatedAt = now()
	return r.t.exec(ctx, "update organization", `
		UPDATE organizations
		SET name = $2, description = $3, url = $4, mail = $5, policies = $6, updated_at = $7
		WHERE id = $1
	`, tid, org.Name, org.Description, org.URL, org.Mail, org.Policies, org.UpdatedAt)
}

type hrRepo struct{ t *tenantStore }

func (r *hrRepo) Create(ctx context.Context, p *domain.Principal) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	p.TenantID = tid
	return insertHR(ctx, r.t.q, p)
}

func (r *hrRepo) Get(ctx context.Context, id string) (*domain.Principal, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	p := &domain.Principal{}
	row := r.t.q.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM hr_admins WHERE tenant_id = $1 AND id = $2`, tid, id)
	if err := scanPrincipal(row, p); err != nil {
		return nil, r.t.fail("get hr admin", err)
	}
	return p, nil
}

func (r *hrRepo) List(ctx context.Context) ([]*domain.Principal, error) {
	tid, err := r.t.tenant()
	if err != nil {
		return nil, err
	}
	rows, err := r.t.q.QueryContext(ctx,
		`SELECT `+principalColumns+` FROM hr_admins WHERE tenant_id = $1 ORDER BY created_at`, tid)
	if err != nil {
		return nil, r.t.fail("list hr admins", err)
	}
	return collect(rows, func(s scanner) (*domain.Principal, error) {
		p := &domain.Principal{}
		return p, scanPrincipal(s, p)
	})
}

func (r *hrRepo) Update(ctx context.Context, p *domain.Principal) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	p.UpdatedAt = now()
	return r.t.execEmailGuarded(ctx, "update hr admin", "employees", p.Email, `
		UPDATE hr_admins
		SET first_name = $3, last_name = $4, email = $5, contact_number = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2
			AND NOT EXISTS (SELECT 1 FROM employees WHERE email = $5)
	`, tid, p.ID, p.FirstName, p.LastName, p.Email, p.ContactNumber, p.UpdatedAt)
}

func (r *hrRepo) Delete(ctx context.Context, id string) error {
	tid, err := r.t.tenant()
	if err != nil {
		return err
	}
	return r.t.exec(ctx, "delete hr admin", `DELETE FROM hr_admins WHERE tenant_id = $1 AND id = $2`, tid, id)
}
