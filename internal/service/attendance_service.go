package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security"
)

// AttendanceService records daily clock-in/out and lets HR maintain the log.
type AttendanceService struct {
	deps Deps
}

func NewAttendanceService(deps Deps) *AttendanceService {
	return &AttendanceService{deps: deps.withDefaults()}
}

// ClockIn opens today's record for the calling employee.
func (s *AttendanceService) ClockIn(ctx context.Context) (*domain.Attendance, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	now := s.deps.Now().UTC()
	a, err := ts.Attendance().FindByDay(ctx, c.SubjectID, domain.Day(now))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a = &domain.Attendance{EmployeeID: c.SubjectID, Date: domain.Day(now), Status: domain.AttendancePresent, CheckIn: &now}
		if err := ts.Attendance().Create(ctx, a); err != nil {
			return nil, fmt.Errorf("clock in: %w", err)
		}
	case err != nil:
		return nil, err
	case a.CheckIn != nil:
		return nil, domain.Invalid("Already clocked in for today")
	default:
		a.CheckIn = &now
		a.Status = domain.AttendancePresent
		if err := ts.Attendance().Update(ctx, a); err != nil {
			return nil, fmt.Errorf("clock in: %w", err)
		}
	}
	s.deps.refresh(ctx, c)
	return a, nil
}

// ClockOut closes today's record and computes the hours worked.
func (s *AttendanceService) ClockOut(ctx context.Context) (*domain.Attendance, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	now := s.deps.Now().UTC()
	a, err := ts.Attendance().FindByDay(ctx, c.SubjectID, domain.Day(now))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Invalid("Not clocked in yet")
	}
	if err != nil {
		return nil, err
	}
	if a.CheckIn == nil {
		return nil, domain.Invalid("Not clocked in yet")
	}
	if a.CheckOut != nil {
		return nil, domain.Invalid("Already clocked out for today")
	}
	a.CheckOut = &now
	a.WorkHours = domain.WorkHours(*a.CheckIn, now)
	if err := ts.Attendance().Update(ctx, a); err != nil {
		return nil, fmt.Errorf("clock out: %w", err)
	}
	s.deps.refresh(ctx, c)
	return a, nil
}

// ClockStatus is the caller's state for today.
type ClockStatus struct {
	ClockedIn bool               `json:"isClockedIn"`
	LastEvent string             `json:"lastActivity,omitempty"`
	Today     *domain.Attendance `json:"-"`
}

func (s *AttendanceService) MyStatus(ctx context.Context) (*ClockStatus, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	a, err := ts.Attendance().FindByDay(ctx, c.SubjectID, domain.Day(s.deps.Now()))
	if errors.Is(err, domain.ErrNotFound) {
		return &ClockStatus{}, nil
	}
	if err != nil {
		return nil, err
	}
	st := &ClockStatus{Today: a}
	switch {
	case a.CheckOut != nil:
		st.LastEvent = "clockOut"
	case a.CheckIn != nil:
		st.ClockedIn = true
		st.LastEvent = "clockIn"
	}
	return st, nil
}

func (s *AttendanceService) MyAttendance(ctx context.Context) ([]*domain.Attendance, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Attendance().ListByEmployee(ctx, c.SubjectID)
}

func (s *AttendanceService) List(ctx context.Context) ([]*domain.Attendance, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Attendance().List(ctx)
}

func (s *AttendanceService) Get(ctx context.Context, id string) (*domain.Attendance, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	a, err := ts.Attendance().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceAttendance, id, a.EmployeeID, security.ActionRead); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AttendanceService) ByEmployee(ctx context.Context, employeeID string) ([]*domain.Attendance, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceAttendance, employeeID, employeeID, security.ActionRead); err != nil {
		return nil, err
	}
	if _, err := requireEmployee(ctx, ts, employeeID); err != nil {
		return nil, err
	}
	return ts.Attendance().ListByEmployee(ctx, employeeID)
}

// AttendanceInput is HR's view of a record. Times are HH:MM on the record's
// date or full RFC3339 timestamps.
type AttendanceInput struct {
	EmployeeID *string                  `json:"employeeId"`
	Date       *string                  `json:"date"`
	Status     *domain.AttendanceStatus `json:"status"`
	CheckIn    *string                  `json:"checkInTime"`
	CheckOut   *string                  `json:"checkOutTime"`
	Comments   *string                  `json:"comments"`
}

func (in AttendanceInput) apply(a *domain.Attendance) error {
	if in.Date != nil {
		d, err := parseDate("date", *in.Date)
		if err != nil {
			return err
		}
		a.Date = domain.Day(d)
	}
	set(&a.Status, in.Status)
	set(&a.Comments, in.Comments)
	if a.Date.IsZero() {
		return domain.MissingFields("date", "")
	}
	if !a.Status.Valid() {
		return domain.Invalid("unknown attendance status %q", a.Status)
	}
	var err error
	if in.CheckIn != nil {
		if a.CheckIn, err = clockTime("checkInTime", a.Date, *in.CheckIn); err != nil {
			return err
		}
	}
	if in.CheckOut != nil {
		if a.CheckOut, err = clockTime("checkOutTime", a.Date, *in.CheckOut); err != nil {
			return err
		}
	}
	a.WorkHours = 0
	if a.CheckIn != nil && a.CheckOut != nil {
		a.WorkHours = domain.WorkHours(*a.CheckIn, *a.CheckOut)
	}
	return nil
}

func clockTime(field string, day time.Time, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	hm, err := time.Parse("15:04", value)
	if err != nil {
		return nil, domain.Invalid("%s must be HH:MM", field)
	}
	t := day.Add(time.Duration(hm.Hour())*time.Hour + time.Duration(hm.Minute())*time.Minute)
	return &t, nil
}

// Create adds a record for any employee of the organization. One record per
// employee per day.
func (s *AttendanceService) Create(ctx context.Context, in AttendanceInput) (*domain.Attendance, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if in.EmployeeID == nil {
		return nil, domain.MissingFields("employeeId", "")
	}
	if _, err := requireEmployee(ctx, ts, *in.EmployeeID); err != nil {
		return nil, err
	}
	a := &domain.Attendance{EmployeeID: *in.EmployeeID, Status: domain.AttendancePresent}
	if err := in.apply(a); err != nil {
		return nil, err
	}
	if _, err := ts.Attendance().FindByDay(ctx, a.EmployeeID, a.Date); err == nil {
		return nil, fmt.Errorf("attendance for %s: %w", a.Date.Format("2006-01-02"), domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := ts.Attendance().Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create attendance: %w", err)
	}
	s.deps.audit(ctx, c, "create", "attendance", a.ID)
	s.deps.refresh(ctx, c)
	return a, nil
}

func (s *AttendanceService) Update(ctx context.Context, id string, in AttendanceInput) (*domain.Attendance, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	a, err := ts.Attendance().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Records stay with their employee.
	in.EmployeeID = nil
	if err := in.apply(a); err != nil {
		return nil, err
	}
	if err := ts.Attendance().Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update attendance: %w", err)
	}
	s.deps.audit(ctx, c, "update", "attendance", a.ID)
	s.deps.refresh(ctx, c)
	return a, nil
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return err
	}
	if err := ts.Attendance().Delete(ctx, id); err != nil {
		return err
	}
	s.deps.audit(ctx, c, "delete", "attendance", id)
	s.deps.refresh(ctx, c)
	return nil
}
