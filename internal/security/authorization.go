package security

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

// Permission represents an action permission
type Permission string

const (
	PermManageEmployees    Permission = "manage_employees"
	PermManageHR           Permission = "manage_hr"
	PermManageDepartments  Permission = "manage_departments"
	PermManageSalaries     Permission = "manage_salaries"
	PermReviewLeaves       Permission = "review_leaves"
	PermManageRequests     Permission = "manage_requests"
	PermManageAttendance   Permission = "manage_attendance"
	PermManageNotices      Permission = "manage_notices"
	PermManageSchedules    Permission = "manage_schedules"
	PermManageRecruitment  Permission = "manage_recruitment"
	PermManageOrganization Permission = "manage_organization"
	PermViewDashboard      Permission = "view_dashboard"

	PermViewOwnProfile Permission = "view_own_profile"
	PermApplyLeave     Permission = "apply_leave"
	PermRaiseRequest   Permission = "raise_request"
	PermClockIn        Permission = "clock_in"
	PermViewOwnRecords Permission = "view_own_records"
	PermViewDirectory  Permission = "view_directory"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[domain.Role][]Permission{
	domain.RoleHRAdmin: {
		PermManageEmployees,
		PermManageHR,
		PermManageDepartments,
		PermManageSalaries,
		PermReviewLeaves,
		PermManageRequests,
		PermManageAttendance,
		PermManageNotices,
		PermManageSchedules,
		PermManageRecruitment,
		PermManageOrganization,
		PermViewDashboard,
		PermViewDirectory,
	},
	domain.RoleEmployee: {
		PermViewOwnProfile,
		PermApplyLeave,
		PermRaiseRequest,
		PermClockIn,
		PermViewOwnRecords,
		PermViewDirectory,
	},
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role domain.Role, permission Permission) bool {
	return slices.Contains(RolePermissions[role], permission)
}

// RolesWith returns every role holding permission, in a stable order.
func (as *AuthorizationService) RolesWith(permission Permission) []domain.Role {
	var roles []domain.Role
	for _, r := range []domain.Role{domain.RoleHRAdmin, domain.RoleEmployee} {
		if as.HasPermission(r, permission) {
			roles = append(roles, r)
		}
	}
	return roles
}

// Authorize passes when role is a member of allowed.
func (as *AuthorizationService) Authorize(role domain.Role, allowed ...domain.Role) error {
	if slices.Contains(allowed, role) {
		return nil
	}
	as.logger.Warn("role denied",
		slog.String("role", string(role)),
		slog.Any("allowed", allowed),
	)
	return fmt.Errorf("%w: role %s not allowed", domain.ErrForbidden, role)
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role domain.Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("%w: %s role cannot %s", domain.ErrForbidden, role, permission)
	}
	return nil
}
