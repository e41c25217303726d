package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/repository/memory"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/security/ratelimit"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

type sentMail struct {
	kind, to, value string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) record(kind, to, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind, to, value})
	return !m.fail
}

func (m *fakeMailer) SendVerification(_ context.Context, to, code string) bool {
	return m.record("verify", to, code)
}
func (m *fakeMailer) SendWelcome(_ context.Context, to, name, _ string) bool {
	return m.record("welcome", to, name)
}
func (m *fakeMailer) SendResetRequest(_ context.Context, to, link string) bool {
	return m.record("reset", to, link)
}
func (m *fakeMailer) SendResetSuccess(_ context.Context, to string) bool {
	return m.record("reset-ok", to, "")
}

func (m *fakeMailer) last(kind string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i].value
		}
	}
	return ""
}

type note struct {
	room, event string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Notify(_ context.Context, room, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{room, event})
}

func (n *recordingNotifier) has(room, event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, x := range n.notes {
		if x.room == room && x.event == event {
			return true
		}
	}
	return false
}

type fixture struct {
	now    time.Time
	store  *memory.Store
	notes  *recordingNotifier
	mailer *fakeMailer
	tokens *auth.TokenManager
	deps   Deps
	auth   *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		now:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		store:  memory.New(),
		notes:  &recordingNotifier{},
		mailer: &fakeMailer{},
		tokens: auth.NewTokenManager("test-secret", "hrportal-test", time.Hour),
	}
	f.deps = Deps{Store: f.store, Notifier: f.notes, Now: func() time.Time { return f.now }}
	limiter := ratelimit.NewMemory()
	t.Cleanup(limiter.Stop)
	issuer := auth.NewIssuer(f.tokens, f.store.Credentials(), false, nil)
	f.auth = NewAuthService(f.deps, issuer, f.mailer, limiter, AuthConfig{
		ClientURL:  "http://client.test",
		LoginLimit: 5,
	})
	return f
}

// as returns a context carrying what the authentication middleware would set.
func as(t *testing.T, role domain.Role, subjectID, tenantID string) context.Context {
	t.Helper()
	scope, err := tenancy.ForTenant(tenantID)
	require.NoError(t, err)
	ctx := auth.WithIdentity(context.Background(), auth.Identity{SubjectID: subjectID, Role: role, TenantID: tenantID})
	return tenancy.WithScope(ctx, scope)
}

type org struct {
	tenantID string
	hrID     string
	hr       context.Context
}

func (f *fixture) signupOrg(t *testing.T, name, email string) org {
	t.Helper()
	res, err := f.auth.SignupHR(context.Background(), HRSignupInput{
		FirstName: "Hana", LastName: "Reyes", Email: email, Password: "Password123",
		ContactNumber: "555-0100", Name: name, Description: name + " inc",
		OrganizationURL: "https://" + name + ".test", OrganizationMail: "hello@" + name + ".test",
	})
	require.NoError(t, err)
	return org{tenantID: res.TenantID, hrID: res.PrincipalID, hr: as(t, domain.RoleHRAdmin, res.PrincipalID, res.TenantID)}
}

type member struct {
	id  string
	ctx context.Context
}

func (f *fixture) hire(t *testing.T, o org, email, departmentID string) member {
	t.Helper()
	res, err := f.auth.SignupEmployee(o.hr, EmployeeSignupInput{
		FirstName: "Eli", LastName: "Moss", Email: email, Password: "Password123",
		ContactNumber: "555-0101", DepartmentID: departmentID,
	})
	require.NoError(t, err)
	return member{id: res.PrincipalID, ctx: as(t, domain.RoleEmployee, res.PrincipalID, o.tenantID)}
}

func ptr[T any](v T) *T { return &v }
