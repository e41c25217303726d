package security

import (
	"errors"
	"testing"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

func TestAuthorizeRoleSet(t *testing.T) {
	as := NewAuthorizationService(nil)

	if err := as.Authorize(domain.RoleHRAdmin, domain.RoleHRAdmin); err != nil {
		t.Fatalf("hr admin should pass: %v", err)
	}
	if err := as.Authorize(domain.RoleEmployee, domain.RoleHRAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := as.Authorize(domain.RoleEmployee, domain.RoleHRAdmin, domain.RoleEmployee); err != nil {
		t.Fatalf("multi-role route should pass: %v", err)
	}
	if err := as.Authorize("", domain.RoleEmployee); err == nil {
		t.Fatal("empty role must not pass")
	}
}

func TestRolesWith(t *testing.T) {
	as := NewAuthorizationService(nil)

	got := as.RolesWith(PermManageSalaries)
	if len(got) != 1 || got[0] != domain.RoleHRAdmin {
		t.Fatalf("manage salaries: %v", got)
	}
	got = as.RolesWith(PermApplyLeave)
	if len(got) != 1 || got[0] != domain.RoleEmployee {
		t.Fatalf("apply leave: %v", got)
	}
	if got = as.RolesWith(PermViewDirectory); len(got) != 2 {
		t.Fatalf("directory should be shared: %v", got)
	}
	if err := as.ValidatePermission(domain.RoleEmployee, PermManageEmployees); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestValidateResourceAccess(t *testing.T) {
	as := NewAuthorizationService(nil)
	perm := ResourcePermission{ResourceType: ResourceLeave, ResourceID: "l-1", OwnerID: "emp-1", Action: ActionRead}

	if err := as.ValidateResourceAccess("hr-1", domain.RoleHRAdmin, perm); err != nil {
		t.Fatalf("hr admin: %v", err)
	}
	if err := as.ValidateResourceAccess("emp-1", domain.RoleEmployee, perm); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if err := as.ValidateResourceAccess("emp-2", domain.RoleEmployee, perm); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
