package domain

import (
	"context"
	"strings"
	"time"
)

// Role is the role tag carried by a principal and its session token.
type Role string

const (
	RoleHRAdmin  Role = "HR-Admin"
	RoleEmployee Role = "Employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleHRAdmin || r == RoleEmployee
}

// Principal is an authenticated actor: an HR-Admin or an Employee.
type Principal struct {
	ID                    string
	FirstName             string
	LastName              string
	Email                 string
	PasswordHash          string
	ContactNumber         string
	Role                  Role
	TenantID              string
	IsVerified            bool
	VerificationCode      string
	VerificationExpiresAt *time.Time
	ResetToken            string
	ResetExpiresAt        *time.Time
	LastLogin             *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Organization is the tenant every principal and record belongs to.
type Organization struct {
	ID          string
	Name        string
	Description string
	URL         string
	Mail        string
	Policies    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CredentialStore holds the lookups authentication needs before a tenant is
// known. It never returns tenant records other than principals and the
// organization created at signup.
type CredentialStore interface {
	// FindByEmail returns the principal of the given role with that email.
	FindByEmail(ctx context.Context, role Role, email string) (*Principal, error)
	// FindByID returns the principal of the given role with that id.
	FindByID(ctx context.Context, role Role, id string) (*Principal, error)
	// FindByVerificationCode returns the principal whose unexpired code matches.
	FindByVerificationCode(ctx context.Context, role Role, code string, now time.Time) (*Principal, error)
	// FindByResetToken returns the principal whose unexpired reset token matches.
	FindByResetToken(ctx context.Context, role Role, token string, now time.Time) (*Principal, error)
	// EmailTaken reports whether any principal of any role uses email.
	EmailTaken(ctx context.Context, email string) (bool, error)
	// SaveCredentials persists password, verification and reset state.
	SaveCredentials(ctx context.Context, p *Principal) error
	// RecordLogin sets the last login time.
	RecordLogin(ctx context.Context, role Role, id string, at time.Time) error
	// OrganizationExists reports whether an organization with that name exists.
	OrganizationExists(ctx context.Context, name string) (bool, error)
	// RegisterOrganization creates the organization and its first HR-Admin atomically.
	RegisterOrganization(ctx context.Context, org *Organization, admin *Principal) error
	// OrganizationIDs lists every organization id, for background workers.
	OrganizationIDs(ctx context.Context) ([]string, error)
}
