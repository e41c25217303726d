package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

// SalaryService manages payroll records.
type SalaryService struct {
	deps Deps
}

func NewSalaryService(deps Deps) *SalaryService {
	return &SalaryService{deps: deps.withDefaults()}
}

type SalaryInput struct {
	EmployeeID       string   `json:"employeeID"`
	BasicPay         float64  `json:"basicpay"`
	BonusPercent     float64  `json:"bonusePT"`
	DeductionPercent float64  `json:"deductionPT"`
	Currency         string   `json:"currency"`
	DueDate          string   `json:"duedate"`
	PaymentType      string   `json:"paymentType"`
	HourlyRate       *float64 `json:"hourlyRate"`
	WorkHours        float64  `json:"workHours"`
	OvertimeHours    float64  `json:"overtimeHours"`
}

func (s *SalaryService) Create(ctx context.Context, in SalaryInput) (*domain.Salary, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.MissingFields("employeeID", in.EmployeeID, "currency", in.Currency, "duedate", in.DueDate); err != nil {
		return nil, err
	}
	due, err := parseDate("duedate", in.DueDate)
	if err != nil {
		return nil, err
	}
	if !due.After(s.deps.Now()) {
		return nil, domain.Invalid("due date must be in the future")
	}
	if _, err := requireEmployee(ctx, ts, in.EmployeeID); err != nil {
		return nil, err
	}
	pay, err := domain.ComputePay(in.BasicPay, in.BonusPercent, in.DeductionPercent)
	if err != nil {
		return nil, err
	}
	paymentType := domain.PaymentType(in.PaymentType)
	if paymentType == "" {
		paymentType = domain.PaymentManual
	}
	if !paymentType.Valid() {
		return nil, domain.Invalid("unknown payment type %q", in.PaymentType)
	}

	existing, err := ts.Salaries().ListByEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if domain.Day(other.DueDate).Equal(domain.Day(due)) {
			return nil, fmt.Errorf("salary for employee %s due %s: %w", in.EmployeeID, due.Format("2006-01-02"), domain.ErrConflict)
		}
	}

	sal := &domain.Salary{
		EmployeeID:       in.EmployeeID,
		BasicPay:         in.BasicPay,
		BonusPercent:     in.BonusPercent,
		DeductionPercent: in.DeductionPercent,
		Currency:         strings.ToUpper(strings.TrimSpace(in.Currency)),
		DueDate:          due,
		Status:           domain.SalaryPending,
		PaymentType:      paymentType,
		HourlyRate:       domain.DefaultHourlyRate,
		WorkHours:        in.WorkHours,
		OvertimeHours:    in.OvertimeHours,
	}
	if in.HourlyRate != nil {
		sal.HourlyRate = *in.HourlyRate
	}
	sal.Apply(pay)
	if err := ts.Salaries().Create(ctx, sal); err != nil {
		return nil, fmt.Errorf("create salary: %w", err)
	}
	s.deps.audit(ctx, c, "create", "salary", sal.ID)
	s.deps.refresh(ctx, c)
	s.deps.notifyEmployee(ctx, sal.EmployeeID, "salary", sal.ID, "A new salary record was created")
	return sal, nil
}

func (s *SalaryService) List(ctx context.Context) ([]*domain.Salary, error) {
	_, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Salaries().List(ctx)
}

// Mine lists the calling employee's salaries.
func (s *SalaryService) Mine(ctx context.Context) ([]*domain.Salary, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return ts.Salaries().ListByEmployee(ctx, c.SubjectID)
}

func (s *SalaryService) Get(ctx context.Context, id string) (*domain.Salary, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	sal, err := ts.Salaries().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.owns(c, security.ResourceSalary, id, sal.EmployeeID, security.ActionRead); err != nil {
		return nil, err
	}
	return sal, nil
}

type SalaryUpdate struct {
	ID               string   `json:"salaryID"`
	BasicPay         *float64 `json:"basicpay"`
	BonusPercent     *float64 `json:"bonusePT"`
	DeductionPercent *float64 `json:"deductionPT"`
	Currency         *string  `json:"currency"`
	DueDate          *string  `json:"duedate"`
	WorkHours        *float64 `json:"workHours"`
	OvertimeHours    *float64 `json:"overtimeHours"`
}

// Update changes the amounts of an unpaid salary and recomputes net pay.
func (s *SalaryService) Update(ctx context.Context, in SalaryUpdate) (*domain.Salary, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, domain.Invalid("salaryID is required")
	}
	sal, err := ts.Salaries().Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if sal.Status == domain.SalaryPaid {
		return nil, fmt.Errorf("salary %s is already paid: %w", sal.ID, domain.ErrInvalidTransition)
	}
	set(&sal.BasicPay, in.BasicPay)
	set(&sal.BonusPercent, in.BonusPercent)
	set(&sal.DeductionPercent, in.DeductionPercent)
	set(&sal.WorkHours, in.WorkHours)
	set(&sal.OvertimeHours, in.OvertimeHours)
	if in.Currency != nil {
		if strings.TrimSpace(*in.Currency) == "" {
			return nil, domain.Invalid("currency must not be empty")
		}
		sal.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.DueDate != nil {
		due, err := parseDate("duedate", *in.DueDate)
		if err != nil {
			return nil, err
		}
		sal.DueDate = due
	}
	pay, err := domain.ComputePay(sal.BasicPay, sal.BonusPercent, sal.DeductionPercent)
	if err != nil {
		return nil, err
	}
	sal.Apply(pay)
	if err := ts.Salaries().Update(ctx, sal); err != nil {
		return nil, fmt.Errorf("update salary: %w", err)
	}
	s.deps.audit(ctx, c, "update", "salary", sal.ID)
	s.deps.refresh(ctx, c)
	return sal, nil
}

// UpdateStatus moves a salary along its status machine. Paying a salary
// stamps the payment date.
func (s *SalaryService) UpdateStatus(ctx context.Context, id string, status domain.SalaryStatus) (*domain.Salary, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	sal, err := ts.Salaries().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.SalaryMachine.Transition(sal.Status, status); err != nil {
		return nil, err
	}
	sal.Status = status
	if status == domain.SalaryPaid {
		now := s.deps.Now().UTC()
		sal.PaymentDate = &now
	}
	if err := ts.Salaries().Update(ctx, sal); err != nil {
		return nil, fmt.Errorf("update salary status: %w", err)
	}
	s.deps.audit(ctx, c, "update_status", "salary", sal.ID)
	s.deps.refresh(ctx, c)
	s.deps.notifyEmployee(ctx, sal.EmployeeID, "salary", sal.ID, "Salary status changed to "+string(status))
	return sal, nil
}

func (s *SalaryService) Delete(ctx context.Context, id string) error {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return err
	}
	if err := ts.Salaries().Delete(ctx, id); err != nil {
		return err
	}
	s.deps.audit(ctx, c, "delete", "salary", id)
	s.deps.refresh(ctx, c)
	return nil
}

// MarkOverdue moves every Pending salary of the organization whose due date
// has passed to Delayed. It returns how many salaries changed.
func (s *SalaryService) MarkOverdue(ctx context.Context, scope tenancy.Scope) (int, error) {
	ts := s.deps.Store.Scoped(scope)
	due, err := ts.Salaries().ListDue(ctx, domain.SalaryPending, s.deps.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("list overdue salaries: %w", err)
	}
	changed := 0
	for _, sal := range due {
		if err := domain.SalaryMachine.Transition(sal.Status, domain.SalaryDelayed); err != nil {
			continue
		}
		sal.Status = domain.SalaryDelayed
		if err := ts.Salaries().Update(ctx, sal); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return changed, fmt.Errorf("delay salary %s: %w", sal.ID, err)
		}
		changed++
		s.deps.notifyEmployee(ctx, sal.EmployeeID, "salary", sal.ID, "Salary payment is delayed")
	}
	if changed > 0 {
		s.deps.Logger.Info("overdue salaries delayed",
			slog.String("tenant_id", scope.TenantID()),
			slog.Int("count", changed),
		)
		s.deps.refreshTenant(ctx, scope.TenantID())
	}
	return changed, nil
}
