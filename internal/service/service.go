// Package service holds the HR use cases. Every method that touches tenant
// data resolves the caller's identity and tenant scope from the context set
// by the authentication middleware.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/realtime"
	"github.com/aryan0dhankhar/hrportal/internal/security"
	"github.com/aryan0dhankhar/hrportal/internal/security/audit"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

// Notifier pushes best-effort refresh hints to connected clients.
type Notifier interface {
	Notify(ctx context.Context, room, event string, data any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, string, any) {}

// Deps are the collaborators shared by every service.
type Deps struct {
	Store    domain.Store
	Notifier Notifier
	Authz    *security.AuthorizationService
	Audit    *audit.Logger
	Logger   *slog.Logger
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Authz == nil {
		d.Authz = security.NewAuthorizationService(d.Logger)
	}
	if d.Audit == nil {
		d.Audit = audit.NewLogger(d.Logger)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// caller is the authenticated actor of a request.
type caller struct {
	auth.Identity
	scope tenancy.Scope
}

func (c caller) isHR() bool { return c.Role == domain.RoleHRAdmin }

func callerFrom(ctx context.Context) (caller, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return caller{}, domain.ErrUnauthenticated
	}
	scope, err := tenancy.FromContext(ctx)
	if err != nil {
		return caller{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if scope.TenantID() != id.TenantID {
		return caller{}, domain.ErrUnauthenticated
	}
	return caller{Identity: id, scope: scope}, nil
}

// tenant resolves the caller and its scoped store.
func (d Deps) tenant(ctx context.Context) (caller, domain.TenantStore, error) {
	c, err := callerFrom(ctx)
	if err != nil {
		return caller{}, nil, err
	}
	return c, d.Store.Scoped(c.scope), nil
}

// owns checks that an employee caller only reaches its own records.
func (d Deps) owns(c caller, rt security.ResourceType, resourceID, ownerID string, action security.Action) error {
	return d.Authz.ValidateResourceAccess(c.SubjectID, c.Role, security.ResourcePermission{
		ResourceType: rt,
		ResourceID:   resourceID,
		OwnerID:      ownerID,
		Action:       action,
	})
}

// refresh tells every dashboard of the organization to reload.
func (d Deps) refresh(ctx context.Context, c caller) {
	d.refreshTenant(ctx, c.TenantID)
}

func (d Deps) refreshTenant(ctx context.Context, tenantID string) {
	d.Notifier.Notify(ctx, realtime.OrgRoom(tenantID), realtime.EventDashboardRefresh, nil)
}

// notifyEmployee sends a notification to one employee.
func (d Deps) notifyEmployee(ctx context.Context, employeeID, kind, id, message string) {
	if employeeID == "" {
		return
	}
	d.Notifier.Notify(ctx, realtime.UserRoom(employeeID), realtime.EventNotification, map[string]string{
		"type":    kind,
		"id":      id,
		"message": message,
	})
}

func (d Deps) audit(ctx context.Context, c caller, action, resource, resourceID string) {
	d.Audit.LogAction(ctx, c.TenantID, c.SubjectID, action, resource, resourceID, "success", "")
}

// requireEmployee returns the employee or a not found error for ids outside
// the caller's organization.
func requireEmployee(ctx context.Context, ts domain.TenantStore, id string) (*domain.Employee, error) {
	if id == "" {
		return nil, domain.Invalid("employee id is required")
	}
	e, err := ts.Employees().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("employee %s: %w", id, err)
	}
	return e, nil
}

func parseDate(field, value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Invalid("%s must be a date (YYYY-MM-DD)", field)
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
