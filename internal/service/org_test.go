package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/realtime"
)

func TestDepartmentMembership(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	depts := NewDepartmentService(f.deps)

	d, err := depts.Create(acme.hr, DepartmentInput{Name: "Engineering", Description: "builds"})
	require.NoError(t, err)
	_, err = depts.Create(acme.hr, DepartmentInput{Name: "engineering", Description: "dup"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	eli := f.hire(t, acme, "eli@acme.test", "")
	mia := f.hire(t, acme, "mia@acme.test", d.ID)

	view, err := depts.Update(acme.hr, DepartmentUpdate{ID: d.ID, AddEmployees: []string{eli.id}, RemoveEmployees: []string{mia.id}})
	require.NoError(t, err)
	require.Len(t, view.Employees, 1)
	assert.Equal(t, eli.id, view.Employees[0].ID)

	require.NoError(t, depts.Delete(acme.hr, d.ID))
	e, err := NewEmployeeService(f.deps).Get(acme.hr, eli.id)
	require.NoError(t, err)
	assert.Empty(t, e.DepartmentID)
}

func TestDepartmentUpdateRollsBack(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	depts := NewDepartmentService(f.deps)
	d, err := depts.Create(acme.hr, DepartmentInput{Name: "Ops", Description: "runs"})
	require.NoError(t, err)

	_, err = depts.Update(acme.hr, DepartmentUpdate{ID: d.ID, Name: ptr("Operations"), AddEmployees: []string{"missing"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	view, err := depts.Get(acme.hr, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ops", view.Department.Name)
}

func TestDeleteEmployeeCascades(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")

	_, err := NewLeaveService(f.deps).Apply(eli.ctx, LeaveInput{Reason: ptr("rest"), StartDate: ptr("2026-03-03"), EndDate: ptr("2026-03-04")})
	require.NoError(t, err)
	_, err = NewSalaryService(f.deps).Create(acme.hr, SalaryInput{EmployeeID: eli.id, BasicPay: 10, Currency: "eur", DueDate: "2026-05-01"})
	require.NoError(t, err)
	_, err = NewAttendanceService(f.deps).ClockIn(eli.ctx)
	require.NoError(t, err)

	require.NoError(t, NewEmployeeService(f.deps).Delete(acme.hr, eli.id))

	leaves, err := NewLeaveService(f.deps).List(acme.hr)
	require.NoError(t, err)
	assert.Empty(t, leaves)
	salaries, err := NewSalaryService(f.deps).List(acme.hr)
	require.NoError(t, err)
	assert.Empty(t, salaries)
	att, err := NewAttendanceService(f.deps).List(acme.hr)
	require.NoError(t, err)
	assert.Empty(t, att)

	_, err = f.auth.Login(t.Context(), domain.RoleEmployee, "eli@acme.test", "Password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestHRCannotDeleteSelf(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	err := NewHRService(f.deps).Delete(acme.hr, acme.hrID)
	assert.True(t, domain.IsValidation(err))
}

func TestNoticeAudience(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	d, err := NewDepartmentService(f.deps).Create(acme.hr, DepartmentInput{Name: "Sales", Description: "sells"})
	require.NoError(t, err)
	eli := f.hire(t, acme, "eli@acme.test", d.ID)
	mia := f.hire(t, acme, "mia@acme.test", "")
	notices := NewNoticeService(f.deps)

	_, err = notices.Create(acme.hr, NoticeInput{Title: "x", Content: "y", Audience: "Everyone"})
	assert.True(t, domain.IsValidation(err))
	_, err = notices.Create(acme.hr, NoticeInput{Title: "x", Content: "y", Audience: domain.AudienceDepartment})
	assert.True(t, domain.IsValidation(err))

	dept, err := notices.Create(acme.hr, NoticeInput{Title: "Quota", Content: "Q2 targets", Audience: domain.AudienceDepartment, DepartmentID: d.ID})
	require.NoError(t, err)
	assert.True(t, f.notes.has(realtime.UserRoom(eli.id), realtime.EventNotification))
	direct, err := notices.Create(acme.hr, NoticeInput{Title: "Hi", Content: "Welcome", Audience: domain.AudienceEmployee, EmployeeID: mia.id})
	require.NoError(t, err)

	mine, err := notices.Mine(eli.ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, dept.ID, mine[0].ID)

	_, err = notices.Get(eli.ctx, direct.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, notices.Delete(acme.hr, dept.ID))
	mine, err = notices.Mine(eli.ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestScheduleLifecycle(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")
	schedules := NewScheduleService(f.deps)

	_, err := schedules.Create(acme.hr, ScheduleInput{EmployeeID: ptr(eli.id), Date: ptr("2026-03-05"), StartTime: ptr("9am"), EndTime: ptr("17:00")})
	assert.True(t, domain.IsValidation(err))

	sc, err := schedules.Create(acme.hr, ScheduleInput{EmployeeID: ptr(eli.id), Date: ptr("2026-03-05"), StartTime: ptr("09:00"), EndTime: ptr("17:00")})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftCustom, sc.Shift)
	assert.Equal(t, "Office", sc.Location)
	assert.Equal(t, domain.ScheduleScheduled, sc.Status)

	done := domain.ScheduleCompleted
	_, err = schedules.Update(acme.hr, sc.ID, ScheduleInput{Status: &done})
	require.NoError(t, err)

	back := domain.ScheduleScheduled
	_, err = schedules.Update(acme.hr, sc.ID, ScheduleInput{Status: &back})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = schedules.Update(acme.hr, sc.ID, ScheduleInput{Notes: ptr("late edit")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	own, err := schedules.ByEmployee(eli.ctx, eli.id)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestOrganizationUpdate(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	f.signupOrg(t, "globex", "gil@globex.test")
	orgs := NewOrganizationService(f.deps)

	o, err := orgs.Update(acme.hr, OrganizationInput{Policies: ptr("Be kind")})
	require.NoError(t, err)
	assert.Equal(t, "Be kind", o.Policies)
	assert.Equal(t, "acme", o.Name)

	_, err = orgs.Update(acme.hr, OrganizationInput{Name: ptr("Globex")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDashboardCachedUntilRefresh(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	dash := NewDashboardService(f.deps, time.Minute)
	f.deps.Notifier = dash.Invalidating(f.notes)

	first, err := dash.HR(acme.hr)
	require.NoError(t, err)
	assert.Zero(t, first.Counts.Employees)

	// Written behind the notifier: the cached copy is still served.
	plain := f.auth
	_, err = plain.SignupEmployee(acme.hr, EmployeeSignupInput{
		FirstName: "Eli", LastName: "Moss", Email: "eli@acme.test", Password: "Password123", ContactNumber: "1",
	})
	require.NoError(t, err)
	cached, err := dash.HR(acme.hr)
	require.NoError(t, err)
	assert.Zero(t, cached.Counts.Employees)

	_, err = NewDepartmentService(f.deps).Create(acme.hr, DepartmentInput{Name: "Ops", Description: "runs"})
	require.NoError(t, err)

	fresh, err := dash.HR(acme.hr)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Counts.Employees)
	assert.Equal(t, 1, fresh.Counts.Departments)
	require.Len(t, fresh.RecentEmployees, 1)
}
