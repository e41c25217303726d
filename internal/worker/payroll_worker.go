package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/observability/metrics"
	"github.com/aryan0dhankhar/hrportal/internal/observability/tracing"
	"github.com/aryan0dhankhar/hrportal/internal/reliability/retry"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

// Organizations lists every tenant the sweep visits.
type Organizations interface {
	OrganizationIDs(ctx context.Context) ([]string, error)
}

// Payroll delays the overdue salaries of one organization.
type Payroll interface {
	MarkOverdue(ctx context.Context, scope tenancy.Scope) (int, error)
}

// PayrollWorker periodically moves past-due Pending salaries to Delayed in
// every organization.
type PayrollWorker struct {
	orgs     Organizations
	payroll  Payroll
	logger   *slog.Logger
	interval time.Duration
	retry    *retry.Config
}

// NewPayrollWorker creates a new payroll sweeper
func NewPayrollWorker(orgs Organizations, payroll Payroll, logger *slog.Logger, interval time.Duration) *PayrollWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollWorker{
		orgs:     orgs,
		payroll:  payroll,
		logger:   logger.With(slog.String("component", "payroll_worker")),
		interval: interval,
		retry:    retry.DefaultConfig(),
	}
}

// Start runs a sweep immediately and then on every tick until ctx is done.
func (w *PayrollWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("payroll worker started", slog.Duration("interval", w.interval))
	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("payroll worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep visits every organization once and returns how many salaries were
// delayed. A failing organization does not stop the others.
func (w *PayrollWorker) Sweep(ctx context.Context) int {
	ctx, span := tracing.Start(ctx, "payroll.sweep")
	defer span.End()

	ids, err := w.orgs.OrganizationIDs(ctx)
	if err != nil {
		w.logger.Error("failed to list organizations", slog.String("error", err.Error()))
		metrics.ObservePayrollSweep("error", 0)
		return 0
	}

	total := 0
	failed := false
	for _, id := range ids {
		scope, err := tenancy.ForTenant(id)
		if err != nil {
			w.logger.Warn("skipping organization", slog.String("tenant_id", id), slog.String("error", err.Error()))
			continue
		}
		n, err := w.sweepOrganization(ctx, scope)
		total += n
		if err != nil {
			failed = true
			w.logger.Error("payroll sweep failed",
				slog.String("tenant_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	result := "success"
	if failed {
		result = "error"
	}
	metrics.ObservePayrollSweep(result, total)
	w.logger.Debug("payroll sweep finished", slog.Int("organizations", len(ids)), slog.Int("delayed", total))
	return total
}

func (w *PayrollWorker) sweepOrganization(ctx context.Context, scope tenancy.Scope) (int, error) {
	ctx, span := tracing.Start(ctx, "payroll.sweep.organization", tracing.TenantAttr(scope.TenantID()))
	defer span.End()

	n, err := retry.Do(ctx, w.retry, w.logger, "payroll sweep", func(ctx context.Context) (int, error) {
		return w.payroll.MarkOverdue(ctx, scope)
	})
	if err != nil {
		span.RecordError(err)
	}
	return n, err
}
