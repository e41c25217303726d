package security

import (
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// ResourceType identifies the kind of record being accessed
type ResourceType string

const (
	ResourceEmployee   ResourceType = "employee"
	ResourceLeave      ResourceType = "leave"
	ResourceSalary     ResourceType = "salary"
	ResourceRequest    ResourceType = "request"
	ResourceAttendance ResourceType = "attendance"
	ResourceSchedule   ResourceType = "schedule"
	ResourceNotice     ResourceType = "notice"
)

// Action identifies what operation is being performed
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// ResourcePermission describes one access to a record owned by an employee.
type ResourcePermission struct {
	ResourceType ResourceType
	ResourceID   string
	OwnerID      string
	Action       Action
}

// ValidateResourceAccess checks record ownership inside an already scoped
// tenant. HR-Admins reach every record of their organization; employees
// only their own.
func (as *AuthorizationService) ValidateResourceAccess(actorID string, role domain.Role, perm ResourcePermission) error {
	if role == domain.RoleHRAdmin {
		return nil
	}
	if role == domain.RoleEmployee && perm.OwnerID != "" && perm.OwnerID == actorID {
		return nil
	}
	as.logger.Warn("resource access denied",
		slog.String("actor_id", actorID),
		slog.String("resource_id", perm.ResourceID),
		slog.String("resource_type", string(perm.ResourceType)),
		slog.String("action", string(perm.Action)),
	)
	return fmt.Errorf("%w: %s %s belongs to another employee", domain.ErrForbidden, perm.ResourceType, perm.ResourceID)
}
