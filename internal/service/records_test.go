package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/realtime"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	globex := f.signupOrg(t, "globex", "gil@globex.test")
	eli := f.hire(t, acme, "eli@acme.test", "")

	employees := NewEmployeeService(f.deps)
	list, err := employees.List(globex.hr)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = employees.Get(globex.hr, eli.id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = employees.UpdateByHR(globex.hr, eli.id, EmployeeInput{Position: ptr("spy")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = employees.Delete(globex.hr, eli.id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = NewSalaryService(f.deps).Create(globex.hr, SalaryInput{
		EmployeeID: eli.id, BasicPay: 1000, Currency: "usd", DueDate: "2026-04-01",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	self, err := employees.Self(eli.ctx)
	require.NoError(t, err)
	assert.Equal(t, acme.tenantID, self.TenantID)
}

func TestMismatchedScopeIsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	globex := f.signupOrg(t, "globex", "gil@globex.test")

	scope, err := tenancy.ForTenant(globex.tenantID)
	require.NoError(t, err)
	id := auth.Identity{SubjectID: acme.hrID, Role: domain.RoleHRAdmin, TenantID: acme.tenantID}
	ctx := tenancy.WithScope(auth.WithIdentity(context.Background(), id), scope)

	_, err = NewEmployeeService(f.deps).List(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = NewEmployeeService(f.deps).List(auth.WithIdentity(context.Background(), id))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestEmployeeCannotReadOthers(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")
	mia := f.hire(t, acme, "mia@acme.test", "")

	_, err := NewEmployeeService(f.deps).Get(eli.ctx, mia.id)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = NewRequestService(f.deps).ByEmployee(eli.ctx, mia.id)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	own, err := NewRequestService(f.deps).ByEmployee(eli.ctx, eli.id)
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestLeaveLifecycle(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")
	leaves := NewLeaveService(f.deps)

	in := LeaveInput{Reason: ptr("family"), StartDate: ptr("2026-03-10"), EndDate: ptr("2026-03-12")}
	l, err := leaves.Apply(eli.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Leave Application", l.Title)
	assert.Equal(t, domain.LeavePending, l.Status)
	assert.True(t, f.notes.has(realtime.OrgRoom(acme.tenantID), realtime.EventDashboardRefresh))

	_, err = leaves.Apply(eli.ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = leaves.Apply(eli.ctx, LeaveInput{Reason: ptr("x"), StartDate: ptr("2026-03-12"), EndDate: ptr("2026-03-10")})
	assert.True(t, domain.IsValidation(err))

	edited, err := leaves.Edit(eli.ctx, l.ID, LeaveInput{Title: ptr("Trip")})
	require.NoError(t, err)
	assert.Equal(t, "Trip", edited.Title)

	_, err = leaves.Review(acme.hr, l.ID, "Maybe")
	assert.True(t, domain.IsValidation(err))

	approved, err := leaves.Review(acme.hr, l.ID, domain.LeaveApproved)
	require.NoError(t, err)
	assert.Equal(t, acme.hrID, approved.ApprovedBy)
	assert.True(t, f.notes.has(realtime.UserRoom(eli.id), realtime.EventNotification))

	_, err = leaves.Review(acme.hr, l.ID, domain.LeaveRejected)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = leaves.Edit(eli.ctx, l.ID, LeaveInput{Title: ptr("again")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, leaves.Delete(eli.ctx, l.ID), domain.ErrInvalidTransition)

	mine, err := leaves.Mine(eli.ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestRequestLifecycle(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")
	requests := NewRequestService(f.deps)

	in := RequestInput{Title: "Laptop", Content: "Screen is broken", EmployeeID: "ignored"}
	r, err := requests.Create(eli.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, eli.id, r.EmployeeID)
	assert.Equal(t, domain.PriorityMedium, r.Priority)
	assert.Equal(t, domain.RequestGeneral, r.RequestType)
	assert.Equal(t, domain.RoleEmployee, r.CreatedBy)

	_, err = requests.Create(eli.ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	byHR, err := requests.CreateByHR(acme.hr, RequestInput{Title: "Badge", Content: "Renew", EmployeeID: eli.id, Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHRAdmin, byHR.CreatedBy)

	_, err = requests.UpdateStatus(acme.hr, RequestStatusUpdate{ID: r.ID, Status: domain.RequestInReview, HRComments: ptr("looking")})
	require.NoError(t, err)
	closed, err := requests.Close(acme.hr, RequestClose{ID: r.ID, HRComments: "replaced"})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestClosed, closed.Status)
	assert.Equal(t, acme.hrID, closed.ClosedBy)
	require.NotNil(t, closed.ClosedAt)

	_, err = requests.UpdateStatus(acme.hr, RequestStatusUpdate{ID: r.ID, Status: domain.RequestApproved})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = requests.UpdateContent(eli.ctx, RequestContentUpdate{ID: r.ID, Title: ptr("new")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	p, err := requests.UpdatePriority(acme.hr, RequestPriorityUpdate{ID: byHR.ID, Priority: domain.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, p.Priority)

	all, err := requests.ByEmployee(acme.hr, eli.id)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, requests.Delete(acme.hr, byHR.ID))
	_, err = requests.Get(acme.hr, byHR.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequestCanBeRaisedAgainOnceResolved(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")
	requests := NewRequestService(f.deps)

	in := RequestInput{Title: "Parking", Content: "Need a spot"}
	first, err := requests.Create(eli.ctx, in)
	require.NoError(t, err)
	_, err = requests.Create(eli.ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = requests.Close(acme.hr, RequestClose{ID: first.ID, HRComments: "assigned"})
	require.NoError(t, err)

	again, err := requests.Create(eli.ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
	assert.Equal(t, domain.RequestPending, again.Status)
}

func TestClockInOut(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")
	att := NewAttendanceService(f.deps)

	_, err := att.ClockOut(eli.ctx)
	require.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "Not clocked in yet")

	in, err := att.ClockIn(eli.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.AttendancePresent, in.Status)

	_, err = att.ClockIn(eli.ctx)
	assert.Contains(t, err.Error(), "Already clocked in for today")

	st, err := att.MyStatus(eli.ctx)
	require.NoError(t, err)
	assert.True(t, st.ClockedIn)

	f.now = f.now.Add(8*time.Hour + 30*time.Minute)
	out, err := att.ClockOut(eli.ctx)
	require.NoError(t, err)
	assert.Equal(t, 8.5, out.WorkHours)

	_, err = att.ClockOut(eli.ctx)
	assert.Contains(t, err.Error(), "Already clocked out for today")

	st, err = att.MyStatus(eli.ctx)
	require.NoError(t, err)
	assert.False(t, st.ClockedIn)
	assert.Equal(t, "clockOut", st.LastEvent)
}

func TestAttendanceByHR(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")
	att := NewAttendanceService(f.deps)

	a, err := att.Create(acme.hr, AttendanceInput{
		EmployeeID: ptr(eli.id), Date: ptr("2026-02-27"), CheckIn: ptr("22:00"), CheckOut: ptr("06:15"),
	})
	require.NoError(t, err)
	assert.Equal(t, 8.25, a.WorkHours)

	_, err = att.Create(acme.hr, AttendanceInput{EmployeeID: ptr(eli.id), Date: ptr("2026-02-27")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	late := domain.AttendanceLate
	upd, err := att.Update(acme.hr, a.ID, AttendanceInput{Status: &late, CheckIn: ptr("23:00")})
	require.NoError(t, err)
	assert.Equal(t, 7.25, upd.WorkHours)

	got, err := att.ByEmployee(eli.ctx, eli.id)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, att.Delete(acme.hr, a.ID))
}

func TestSalaryPayroll(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	eli := f.hire(t, acme, "eli@acme.test", "")
	salaries := NewSalaryService(f.deps)

	_, err := salaries.Create(acme.hr, SalaryInput{EmployeeID: eli.id, BasicPay: 1000, Currency: "usd", DueDate: "2026-01-01"})
	assert.True(t, domain.IsValidation(err), "due date in the past")

	sal, err := salaries.Create(acme.hr, SalaryInput{
		EmployeeID: eli.id, BasicPay: 5000, BonusPercent: 10, DeductionPercent: 5, Currency: "usd", DueDate: "2026-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, sal.Bonuses)
	assert.Equal(t, 250.0, sal.Deductions)
	assert.Equal(t, 5250.0, sal.NetPay)
	assert.Equal(t, "USD", sal.Currency)
	assert.Equal(t, domain.DefaultHourlyRate, sal.HourlyRate)

	_, err = salaries.Create(acme.hr, SalaryInput{EmployeeID: eli.id, BasicPay: 1, Currency: "usd", DueDate: "2026-03-31"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	mine, err := salaries.Mine(eli.ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = salaries.Update(acme.hr, SalaryUpdate{ID: sal.ID, BasicPay: ptr(6000.0)})
	require.NoError(t, err)

	scope, err := tenancy.ForTenant(acme.tenantID)
	require.NoError(t, err)
	n, err := salaries.MarkOverdue(context.Background(), scope)
	require.NoError(t, err)
	assert.Zero(t, n, "not due yet")

	f.now = time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	n, err = salaries.MarkOverdue(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := salaries.Get(eli.ctx, sal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SalaryDelayed, got.Status)
	assert.Equal(t, 6300.0, got.NetPay)

	paid, err := salaries.UpdateStatus(acme.hr, sal.ID, domain.SalaryPaid)
	require.NoError(t, err)
	require.NotNil(t, paid.PaymentDate)

	_, err = salaries.Update(acme.hr, SalaryUpdate{ID: sal.ID, BasicPay: ptr(1.0)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = salaries.UpdateStatus(acme.hr, sal.ID, domain.SalaryPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
