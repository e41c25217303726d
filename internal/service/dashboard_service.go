package service

import (
	"context"
	"slices"
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/realtime"
	"github.com/aryan0dhankhar/hrportal/pkg/cache"
)

const (
	recentNotices   = 10
	recentLeaves    = 5
	recentRequests  = 5
	recentEmployees = 3
)

// DashboardCounts are the organization totals shown on the HR dashboard.
type DashboardCounts struct {
	Employees       int `json:"employees"`
	Departments     int `json:"departments"`
	Leaves          int `json:"leaves"`
	PendingLeaves   int `json:"pendingLeaves"`
	Requests        int `json:"requests"`
	OpenRequests    int `json:"openRequests"`
	Salaries        int `json:"salaries"`
	DelayedSalaries int `json:"delayedSalaries"`
	Notices         int `json:"notices"`
	PresentToday    int `json:"presentToday"`
}

type Dashboard struct {
	Counts          DashboardCounts
	Notices         []*domain.Notice
	RecentLeaves    []*domain.Leave
	RecentRequests  []*domain.GenerateRequest
	RecentEmployees []*domain.Employee
	GeneratedAt     time.Time
}

// DashboardService aggregates tenant data. Results are cached per tenant
// until a refresh event for that tenant passes through Invalidating.
type DashboardService struct {
	deps  Deps
	cache *cache.Cache[*Dashboard]
}

func NewDashboardService(deps Deps, ttl time.Duration) *DashboardService {
	deps = deps.withDefaults()
	return &DashboardService{deps: deps, cache: cache.New[*Dashboard](ttl).WithClock(deps.Now)}
}

func (s *DashboardService) HR(ctx context.Context) (*Dashboard, error) {
	c, ts, err := s.deps.tenant(ctx)
	if err != nil {
		return nil, err
	}
	if d, ok := s.cache.Get(c.TenantID); ok {
		return d, nil
	}
	d, err := s.build(ctx, ts)
	if err != nil {
		return nil, err
	}
	s.cache.Set(c.TenantID, d)
	return d, nil
}

func (s *DashboardService) build(ctx context.Context, ts domain.TenantStore) (*Dashboard, error) {
	employees, err := ts.Employees().List(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := ts.Departments().List(ctx)
	if err != nil {
		return nil, err
	}
	leaves, err := ts.Leaves().List(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := ts.Requests().List(ctx)
	if err != nil {
		return nil, err
	}
	salaries, err := ts.Salaries().List(ctx)
	if err != nil {
		return nil, err
	}
	notices, err := ts.Notices().List(ctx)
	if err != nil {
		return nil, err
	}
	attendance, err := ts.Attendance().List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.deps.Now().UTC()
	today := domain.Day(now)
	d := &Dashboard{GeneratedAt: now}
	d.Counts = DashboardCounts{
		Employees:   len(employees),
		Departments: len(departments),
		Leaves:      len(leaves),
		Requests:    len(requests),
		Salaries:    len(salaries),
		Notices:     len(notices),
	}
	for _, l := range leaves {
		if l.Status == domain.LeavePending {
			d.Counts.PendingLeaves++
		}
	}
	for _, r := range requests {
		if r.Status == domain.RequestPending || r.Status == domain.RequestInReview {
			d.Counts.OpenRequests++
		}
	}
	for _, sal := range salaries {
		if sal.Status == domain.SalaryDelayed {
			d.Counts.DelayedSalaries++
		}
	}
	for _, a := range attendance {
		if a.Date.Equal(today) && a.CheckIn != nil {
			d.Counts.PresentToday++
		}
	}

	d.Notices = newest(notices, recentNotices, func(n *domain.Notice) time.Time { return n.CreatedAt })
	d.RecentLeaves = newest(leaves, recentLeaves, func(l *domain.Leave) time.Time { return l.UpdatedAt })
	d.RecentRequests = newest(requests, recentRequests, func(r *domain.GenerateRequest) time.Time { return r.UpdatedAt })
	d.RecentEmployees = newest(employees, recentEmployees, func(e *domain.Employee) time.Time { return e.CreatedAt })
	return d, nil
}

// newest returns at most n items ordered by key, latest first.
func newest[T any](items []T, n int, key func(T) time.Time) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int { return key(b).Compare(key(a)) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Invalidate drops the cached dashboard of one tenant.
func (s *DashboardService) Invalidate(tenantID string) {
	s.cache.Delete(tenantID)
}

// Invalidating wraps next so that every dashboard refresh sent to an
// organization room also evicts that organization's cached dashboard.
func (s *DashboardService) Invalidating(next Notifier) Notifier {
	if next == nil {
		next = nopNotifier{}
	}
	return invalidatingNotifier{dash: s, next: next}
}

type invalidatingNotifier struct {
	dash *DashboardService
	next Notifier
}

func (n invalidatingNotifier) Notify(ctx context.Context, room, event string, data any) {
	if event == realtime.EventDashboardRefresh {
		if tenantID, ok := realtime.TenantOfRoom(room); ok {
			n.dash.Invalidate(tenantID)
		}
	}
	n.next.Notify(ctx, room, event, data)
}
