// Package memory is an in-process domain.Store for development and tests.
// Data is lost when the process exits.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

type dataset struct {
	orgs        map[string]*domain.Organization
	hrs         map[string]*domain.Principal
	employees   map[string]*domain.Employee
	departments map[string]*domain.Department
	leaves      map[string]*domain.Leave
	salaries    map[string]*domain.Salary
	notices     map[string]*domain.Notice
	requests    map[string]*domain.GenerateRequest
	attendance  map[string]*domain.Attendance
	schedules   map[string]*domain.Schedule
	openings    map[string]*domain.Recruitment
}

func newDataset() *dataset {
	return &dataset{
		orgs:        map[string]*domain.Organization{},
		hrs:         map[string]*domain.Principal{},
		employees:   map[string]*domain.Employee{},
		departments: map[string]*domain.Department{},
		leaves:      map[string]*domain.Leave{},
		salaries:    map[string]*domain.Salary{},
		notices:     map[string]*domain.Notice{},
		requests:    map[string]*domain.GenerateRequest{},
		attendance:  map[string]*domain.Attendance{},
		schedules:   map[string]*domain.Schedule{},
		openings:    map[string]*domain.Recruitment{},
	}
}

// snapshot copies every table so a failed transaction can be rolled back.
func (d *dataset) snapshot() *dataset {
	return &dataset{
		orgs:        copyTable(d.orgs),
		hrs:         copyTable(d.hrs),
		employees:   copyTable(d.employees),
		departments: copyTable(d.departments),
		leaves:      copyTable(d.leaves),
		salaries:    copyTable(d.salaries),
		notices:     copyTable(d.notices),
		requests:    copyTable(d.requests),
		attendance:  copyTable(d.attendance),
		schedules:   copyTable(d.schedules),
		openings:    copyTable(d.openings),
	}
}

// Store implements domain.Store.
type Store struct {
	mu   sync.Mutex
	data *dataset
	now  func() time.Time
}

var _ domain.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{data: newDataset(), now: time.Now}
}

func (s *Store) Credentials() domain.CredentialStore {
	return &credentials{s: s}
}

func (s *Store) Scoped(scope tenancy.Scope) domain.TenantStore {
	return &tenantStore{s: s, tenantID: scope.TenantID()}
}

func (s *Store) WithinTx(ctx context.Context, scope tenancy.Scope, fn func(domain.TenantStore) error) error {
	if !scope.Valid() {
		return tenancy.ErrNoScope
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.data.snapshot()
	if err := fn(&tenantStore{s: s, tenantID: scope.TenantID(), inTx: true}); err != nil {
		s.data = saved
		return err
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

type tenantStore struct {
	s        *Store
	tenantID string
	inTx     bool
}

// do runs fn with the dataset locked unless the caller already holds the
// lock as part of WithinTx.
func (t *tenantStore) do(fn func(d *dataset) error) error {
	if t.tenantID == "" {
		return tenancy.ErrNoScope
	}
	if !t.inTx {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
	}
	return fn(t.s.data)
}

func (t *tenantStore) stamp(created, updated *time.Time) {
	now := t.s.now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func newID() string {
	return uuid.NewString()
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func copyTable[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}

// selectRows returns copies of the matching rows, oldest first.
func selectRows[T any](m map[string]*T, keep func(*T) bool, created func(*T) time.Time) []*T {
	out := make([]*T, 0)
	for _, v := range m {
		if keep(v) {
			out = append(out, clone(v))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return created(out[i]).Before(created(out[j]))
	})
	return out
}

// deleteRows removes the matching rows and returns how many were removed.
func deleteRows[T any](m map[string]*T, match func(*T) bool) int {
	n := 0
	for k, v := range m {
		if match(v) {
			delete(m, k)
			n++
		}
	}
	return n
}

func getRow[T any](m map[string]*T, id string, owned func(*T) bool) (*T, error) {
	v, ok := m[id]
	if !ok || !owned(v) {
		return nil, domain.ErrNotFound
	}
	return clone(v), nil
}

func putExisting[T any](m map[string]*T, id string, v *T, owned func(*T) bool) error {
	cur, ok := m[id]
	if !ok || !owned(cur) {
		return domain.ErrNotFound
	}
	m[id] = clone(v)
	return nil
}

func removeRow[T any](m map[string]*T, id string, owned func(*T) bool) error {
	cur, ok := m[id]
	if !ok || !owned(cur) {
		return domain.ErrNotFound
	}
	delete(m, id)
	return nil
}

func emailInUse(d *dataset, email, exceptID string) bool {
	for _, p := range d.hrs {
		if p.Email == email && p.ID != exceptID {
			return true
		}
	}
	for _, e := range d.employees {
		if e.Email == email && e.ID != exceptID {
			return true
		}
	}
	return false
}

func copySkills(e *domain.Employee) *domain.Employee {
	e.Skills = slices.Clone(e.Skills)
	return e
}

func sameFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
