package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security"
)

const defaultScheduleLocation = "Office"

// ScheduleService plans employee shifts.
type ScheduleService struct {
	deps Deps
}

func NewScheduleService(deps Deps) *ScheduleService {
	return &ScheduleService{deps: deps.withDefaults()}
}

type ScheduleInput struct {
	EmployeeID *string                `json:"employeeId"`
	Date       *string                `json:"date"`
	StartTime  *string                `json:"startTime"`
	EndTime    *string                `json:"endTime"`
	Shift      *domain.Shift          `json:"shift"`
	Location   *string                `json:"location"`
	Notes      *string                `json:"notes"`
	Status     *domain.ScheduleStatus `json:"status"`
}

func (in ScheduleInput) apply(sc *domain.Schedule) error {
	if in.Date != nil {
		d, err := parseDate("date", *in.Date)
		if err != nil {
			return err
		}
		sc.Date = domain.Day(d)
	}
	set(&sc.StartTime, in.StartTime)
	set(&sc.EndTime, in.EndTime)
	set(&sc.Shift, in.Shift)
	set(&sc.Location, in.Location)
	set(&sc.Notes, in.Notes)
	if err := domain.MissingFields("date", dateString(sc.Date), "startTime", sc.StartTime, "endTime", sc.EndTime); err != nil {
		return err
	}
	for _, v := range []string{sc.StartTime, sc.EndTime} {
		if _, err := time.Parse("15:04", v); err != nil {
			return domain.Invalid("times must be HH:MM, got %q", v)
		}
	}
	if !sc.Shift.Valid() {
		return domain.Invalid("unknown shift %q", sc.Shift)
	}
	return nil
}

func (s *ScheduleService) Create(ctx context.Context, in ScheduleInput) (*domain.Schedule, error) {
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
	sc := &domain.Schedule{
		EmployeeID: *in.EmployeeID,
		Shift:      domain.ShiftCustom,
		Location:   defaultScheduleLocation,
		Status:     domain.ScheduleScheduled,
		CreatedBy:  c.SubjectID,
	}
	if err := in.apply(sc); err != nil {
		return nil, err
	}
	if err := ts.Schedules().Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	s.deps.audit(ctx, c, "create", "schedule", sc.ID)
	s.deps.refresh(ctx, c)
	s.deps.notifyEmployee(ctx, sc.EmployeeID, "schedule", sc.ID, "New shift on "+dateString(sc.Date))
	return sc, nil
}

func (s *ScheduleService) List(ctx context.Context) ([]*domain.Schedule, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Schedules().List(ctx)
}

func (s *ScheduleService) Get(ctx context.Context, id string) (*domain.Schedule, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	sc, err := ts.Schedules().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceSchedule, id, sc.EmployeeID, security.ActionRead); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *ScheduleService) ByEmployee(ctx context.Context, employeeID string) ([]*domain.Schedule, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceSchedule, employeeID, employeeID, security.ActionRead); err != nil {
		return nil, err
	}
	if _, err := requireEmployee(ctx, ts, employeeID); err != nil {
		return nil, err
	}
	return ts.Schedules().ListByEmployee(ctx, employeeID)
}

// Update edits a schedule. A status change must follow the schedule lifecycle
// and finished schedules are frozen.
func (s *ScheduleService) Update(ctx context.Context, id string, in ScheduleInput) (*domain.Schedule, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	sc, err := ts.Schedules().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && *in.Status != sc.Status {
		if err := domain.ScheduleMachine.Transition(sc.Status, *in.Status); err != nil {
			return nil, err
		}
	} else if sc.Status != domain.ScheduleScheduled {
		return nil, fmt.Errorf("schedule %s is %s: %w", id, sc.Status, domain.ErrInvalidTransition)
	}
	in.EmployeeID = nil
	if err := in.apply(sc); err != nil {
		return nil, err
	}
	set(&sc.Status, in.Status)
	if err := ts.Schedules().Update(ctx, sc); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	s.deps.audit(ctx, c, "update", "schedule", sc.ID)
	s.deps.refresh(ctx, c)
	s.deps.notifyEmployee(ctx, sc.EmployeeID, "schedule", sc.ID, "Your shift on "+dateString(sc.Date)+" changed")
	return sc, nil
}

func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return err
	}
	if err := ts.Schedules().Delete(ctx, id); err != nil {
		return err
	}
	s.deps.audit(ctx, c, "delete", "schedule", id)
	s.deps.refresh(ctx, c)
	return nil
}
