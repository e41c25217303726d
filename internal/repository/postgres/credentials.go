package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

const principalColumns = `id, tenant_id, first_name, last_name, email, password_hash, contact_number, role,
	is_verified, verification_code, verification_expires_at, reset_token, reset_expires_at,
	last_login, created_at, updated_at`

func scanPrincipal(row scanner, p *domain.Principal) error {
	var verifyExp, resetExp, lastLogin sql.NullTime
	var role string
	err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.PasswordHash,
		&p.ContactNumber,
		&role,
		&p.IsVerified,
		&p.VerificationCode,
		&verifyExp,
		&p.ResetToken,
		&resetExp,
		&lastLogin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	p.Role = domain.Role(role)
	p.VerificationExpiresAt = timePtr(verifyExp)
	p.ResetExpiresAt = timePtr(resetExp)
	p.LastLogin = timePtr(lastLogin)
	return nil
}

func principalTable(role domain.Role) (string, error) {
	switch role {
	case domain.RoleHRAdmin:
		return "hr_admins", nil
	case domain.RoleEmployee:
		return "employees", nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

type credentials struct {
	db     *sql.DB
	logger *slog.Logger
}

func (c *credentials) findOne(ctx context.Context, role domain.Role, where string, args ...any) (*domain.Principal, error) {
	table, err := principalTable(role)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + principalColumns + ` FROM ` + table + ` WHERE ` + where

	p := &domain.Principal{}
	if err := scanPrincipal(c.db.QueryRowContext(ctx, query, args...), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, domain.ErrNotFound
		}
		c.logger.Error("failed to look up principal",
			slog.String("table", table),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to look up principal: %w", err)
	}
	return p, nil
}

func (c *credentials) FindByEmail(ctx context.Context, role domain.Role, email string) (*domain.Principal, error) {
	return c.findOne(ctx, role, `email = $1`, domain.NormalizeEmail(email))
}

func (c *credentials) FindByID(ctx context.Context, role domain.Role, id string) (*domain.Principal, error) {
	return c.findOne(ctx, role, `id = $1`, id)
}

func (c *credentials) FindByVerificationCode(ctx context.Context, role domain.Role, code string, now time.Time) (*domain.Principal, error) {
	if code == "" {
		return nil, domain.ErrNotFound
	}
	return c.findOne(ctx, role, `verification_code = $1 AND verification_expires_at > $2`, code, now)
}

func (c *credentials) FindByResetToken(ctx context.Context, role domain.Role, token string, now time.Time) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	return c.findOne(ctx, role, `reset_token = $1 AND reset_expires_at > $2`, token, now)
}

func (c *credentials) EmailTaken(ctx context.Context, email string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM hr_admins WHERE email = $1)
		    OR EXISTS (SELECT 1 FROM employees WHERE email = $1)
	`
	var taken bool
	if err := c.db.QueryRowContext(ctx, query, domain.NormalizeEmail(email)).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return taken, nil
}

func (c *credentials) SaveCredentials(ctx context.Context, p *domain.Principal) error {
	table, err := principalTable(p.Role)
	if err != nil {
		return err
	}
	query := `
		UPDATE ` + table + `
		SET password_hash = $2, is_verified = $3, verification_code = $4, verification_expires_at = $5,
		    reset_token = $6, reset_expires_at = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, query,
		p.ID,
		p.PasswordHash,
		p.IsVerified,
		p.VerificationCode,
		nullTime(p.VerificationExpiresAt),
		p.ResetToken,
		nullTime(p.ResetExpiresAt),
		now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *credentials) RecordLogin(ctx context.Context, role domain.Role, id string, at time.Time) error {
	table, err := principalTable(role)
	if err != nil {
		return err
	}
	res, err := c.db.ExecContext(ctx, `UPDATE `+table+` SET last_login = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *credentials) OrganizationExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := c.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM organizations WHERE lower(name) = lower($1))`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check organization: %w", err)
	}
	return exists, nil
}

func (c *credentials) RegisterOrganization(ctx context.Context, org *domain.Organization, admin *domain.Principal) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	if org.ID == "" {
		org.ID = newID()
	}
	org.CreatedAt, org.UpdatedAt = ts, ts

	_, err = tx.ExecContext(ctx, `
		INSERT INTO organizations (id, name, description, url, mail, policies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, org.ID, org.Name, org.Description, org.URL, org.Mail, org.Policies, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	admin.TenantID = org.ID
	if err := insertHR(ctx, tx, admin); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit organization: %w", err)
	}

	c.logger.Info("organization registered",
		slog.String("tenant_id", org.ID),
		slog.String("admin_id", admin.ID),
	)
	return nil
}

func (c *credentials) OrganizationIDs(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id FROM organizations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan organization id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// insertHR inserts an HR-Admin unless an employee already owns the email.
func insertHR(ctx context.Context, q querier, p *domain.Principal) error {
	if p.ID == "" {
		p.ID = newID()
	}
	ts := now()
	p.Role = domain.RoleHRAdmin
	p.CreatedAt, p.UpdatedAt = ts, ts

	query := `
		INSERT INTO hr_admins (id, tenant_id, first_name, last_name, email, password_hash, contact_number, role,
			is_verified, verification_code, verification_expires_at, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12
		WHERE NOT EXISTS (SELECT 1 FROM employees WHERE email = $5)
	`
	res, err := q.ExecContext(ctx, query,
		p.ID,
		p.TenantID,
		p.FirstName,
		p.LastName,
		p.Email,
		p.PasswordHash,
		p.ContactNumber,
		string(p.Role),
		p.IsVerified,
		p.VerificationCode,
		nullTime(p.VerificationExpiresAt),
		ts,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to create hr admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConflict
	}
	return nil
}
