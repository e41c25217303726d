package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/reliability/retry"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

type staticOrgs struct {
	ids []string
	err error
}

func (o staticOrgs) OrganizationIDs(context.Context) ([]string, error) { return o.ids, o.err }

type fakePayroll struct {
	mu       sync.Mutex
	delayed  map[string]int
	failures map[string]int
	calls    map[string]int
}

func (p *fakePayroll) MarkOverdue(_ context.Context, scope tenancy.Scope) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := scope.TenantID()
	p.calls[id]++
	if p.failures[id] > 0 {
		p.failures[id]--
		return 0, errors.New("database unavailable")
	}
	return p.delayed[id], nil
}

func fastWorker(orgs Organizations, payroll Payroll) *PayrollWorker {
	w := NewPayrollWorker(orgs, payroll, nil, time.Hour)
	w.retry = &retry.Config{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, BackoffMultiplier: 1}
	return w
}

func TestSweepVisitsEveryOrganization(t *testing.T) {
	p := &fakePayroll{
		delayed:  map[string]int{"org-a": 2, "org-b": 1},
		failures: map[string]int{},
		calls:    map[string]int{},
	}
	w := fastWorker(staticOrgs{ids: []string{"org-a", "org-b", "org-c"}}, p)

	assert.Equal(t, 3, w.Sweep(context.Background()))
	assert.Equal(t, map[string]int{"org-a": 1, "org-b": 1, "org-c": 1}, p.calls)
}

func TestSweepRetriesAndContinuesPastFailures(t *testing.T) {
	p := &fakePayroll{
		delayed:  map[string]int{"flaky": 1, "down": 5, "ok": 2},
		failures: map[string]int{"flaky": 1, "down": 10},
		calls:    map[string]int{},
	}
	w := fastWorker(staticOrgs{ids: []string{"flaky", "down", "ok"}}, p)

	assert.Equal(t, 3, w.Sweep(context.Background()))
	assert.Equal(t, 2, p.calls["flaky"])
	assert.Equal(t, 2, p.calls["down"])
	assert.Equal(t, 1, p.calls["ok"])
}

func TestSweepSurvivesListingError(t *testing.T) {
	p := &fakePayroll{calls: map[string]int{}}
	w := fastWorker(staticOrgs{err: errors.New("boom")}, p)

	assert.Zero(t, w.Sweep(context.Background()))
	assert.Empty(t, p.calls)
}

func TestStartStopsOnCancel(t *testing.T) {
	p := &fakePayroll{delayed: map[string]int{}, failures: map[string]int{}, calls: map[string]int{}}
	w := fastWorker(staticOrgs{ids: []string{"org-a"}}, p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.calls["org-a"] == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
