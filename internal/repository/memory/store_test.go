package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

func registerOrg(t *testing.T, s *Store, name, email string) tenancy.Scope {
	t.Helper()
	org := &domain.Organization{Name: name}
	admin := &domain.Principal{Email: email, Role: domain.RoleHRAdmin}
	require.NoError(t, s.Credentials().RegisterOrganization(context.Background(), org, admin))
	scope, err := tenancy.ForTenant(org.ID)
	require.NoError(t, err)
	return scope
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	t1 := registerOrg(t, s, "Acme", "hr@acme.test")
	t2 := registerOrg(t, s, "Globex", "hr@globex.test")

	d := &domain.Department{Name: "Engineering"}
	require.NoError(t, s.Scoped(t1).Departments().Create(ctx, d))

	_, err := s.Scoped(t2).Departments().Get(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := s.Scoped(t2).Departments().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, s.Scoped(t2).Departments().Delete(ctx, d.ID), domain.ErrNotFound)
	got, err := s.Scoped(t1).Departments().Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Name)
}

func TestZeroScopeIsRejected(t *testing.T) {
	s := New()
	_, err := s.Scoped(tenancy.Scope{}).Employees().List(context.Background())
	assert.ErrorIs(t, err, tenancy.ErrNoScope)
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	scope := registerOrg(t, s, "Acme", "hr@acme.test")

	e := &domain.Employee{Principal: domain.Principal{Email: "a@acme.test"}}
	require.NoError(t, s.Scoped(scope).Employees().Create(ctx, e))
	require.NoError(t, s.Scoped(scope).Leaves().Create(ctx, &domain.Leave{EmployeeID: e.ID, Status: domain.LeavePending}))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, scope, func(ts domain.TenantStore) error {
		if err := ts.Leaves().DeleteByEmployee(ctx, e.ID); err != nil {
			return err
		}
		if err := ts.Employees().Delete(ctx, e.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Scoped(scope).Employees().Get(ctx, e.ID)
	assert.NoError(t, err, "employee must survive a rolled back transaction")
	leaves, err := s.Scoped(scope).Leaves().ListByEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, leaves, 1)
}

func TestEmailUniqueAcrossRoles(t *testing.T) {
	ctx := context.Background()
	s := New()
	scope := registerOrg(t, s, "Acme", "hr@acme.test")

	err := s.Scoped(scope).Employees().Create(ctx, &domain.Employee{Principal: domain.Principal{Email: "hr@acme.test"}})
	assert.ErrorIs(t, err, domain.ErrConflict)

	taken, err := s.Credentials().EmailTaken(ctx, "HR@acme.test")
	require.NoError(t, err)
	assert.True(t, taken)
}
