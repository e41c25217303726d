package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrportal/internal/mail"
	"github.com/aryan0dhankhar/hrportal/internal/realtime"
	"github.com/aryan0dhankhar/hrportal/internal/repository/memory"
	"github.com/aryan0dhankhar/hrportal/internal/security"
	"github.com/aryan0dhankhar/hrportal/internal/security/audit"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/security/middleware"
	"github.com/aryan0dhankhar/hrportal/internal/security/ratelimit"
	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// testServer wires the full HTTP stack over the in-memory store.
type testServer struct {
	handler http.Handler
	tokens  *auth.TokenManager
	store   *memory.Store
	hub     *realtime.Hub
}

func newTestServer(t *testing.T, opts ...func(*service.AuthConfig)) *testServer {
	t.Helper()
	log := logger.NewLogger("error")
	store := memory.New()
	tokens := auth.NewTokenManager("handler-test-secret", "hrportal-test", time.Hour)
	authz := security.NewAuthorizationService(log)
	auditLog := audit.NewLogger(log)
	limiter := ratelimit.NewMemory()
	t.Cleanup(limiter.Stop)

	deps := service.Deps{Store: store, Authz: authz, Audit: auditLog, Logger: log}
	mailer := mail.NewMailer(mail.NewLogSender(log), log)
	issuer := auth.NewIssuer(tokens, store.Credentials(), false, log)
	authCfg := service.AuthConfig{
		ClientURL:  "http://client.test",
		LoginLimit: 20,
	}
	for _, opt := range opts {
		opt(&authCfg)
	}
	authService := service.NewAuthService(deps, issuer, mailer, limiter, authCfg)
	dashboard := service.NewDashboardService(deps, time.Minute)
	authn := middleware.NewAuthenticator(tokens, middleware.AuthenticatorConfig{LoginURL: "http://client.test/login"}, auditLog, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := realtime.NewHub(realtime.NewLocalBus(), log)
	require.NoError(t, hub.Start(ctx))

	h := Handlers{
		Auth:         NewAuthHandler(authService, false, log),
		Employees:    NewEmployeeHandler(service.NewEmployeeService(deps), log),
		HRs:          NewHRHandler(service.NewHRService(deps), log),
		Departments:  NewDepartmentHandler(service.NewDepartmentService(deps), log),
		Salaries:     NewSalaryHandler(service.NewSalaryService(deps), log),
		Leaves:       NewLeaveHandler(service.NewLeaveService(deps), log),
		Requests:     NewRequestHandler(service.NewRequestService(deps), log),
		Attendance:   NewAttendanceHandler(service.NewAttendanceService(deps), log),
		Notices:      NewNoticeHandler(service.NewNoticeService(deps), log),
		Schedules:    NewScheduleHandler(service.NewScheduleService(deps), log),
		Recruitment:  NewRecruitmentHandler(service.NewRecruitmentService(deps), log),
		Organization: NewOrganizationHandler(service.NewOrganizationService(deps), dashboard, log),
		Health:       NewHealthHandler(store, nil, log),
		Realtime:     realtime.NewHandler(hub, authn, nil, true, log),
	}
	return &testServer{
		handler: NewRouter(h, RouterConfig{
			Authenticator: authn,
			Authz:         authz,
			Audit:         auditLog,
			Limiter:       limiter,
			RateLimit:     1000,
			RateWindow:    time.Minute,
			Logger:        log,
		}),
		tokens: tokens,
		store:  store,
		hub:    hub,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	GoLogin bool            `json:"gologin"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (s *testServer) signup(t *testing.T, orgName, email string) {
	t.Helper()
	rec, _ := s.do(t, http.MethodPost, "/api/auth/HR/signup", "", map[string]string{
		"firstname": "Hana", "lastname": "Reyes", "email": email, "password": "Password123",
		"contactnumber": "555-0100", "name": orgName, "description": orgName + " inc",
		"OrganizationURL": "https://" + orgName + ".test", "OrganizationMail": "hello@" + orgName + ".test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *testServer) login(t *testing.T, kind, email string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/auth/"+kind+"/login", "", map[string]string{
		"email": email, "password": "Password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (s *testServer) hire(t *testing.T, hrToken, email string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/auth/employee/signup", hrToken, map[string]string{
		"firstname": "Eli", "lastname": "Moss", "email": email, "password": "Password123",
		"contactnumber": "555-0101",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res service.SignupResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res.PrincipalID
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec, _ = s.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var ready ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "ok", ready.Checks["database"])
	assert.Equal(t, "not configured", ready.Checks["redis"])

	rec, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginSetsCookieAndToken(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "acme", "hana@acme.test")

	rec, env := s.do(t, http.MethodPost, "/api/auth/HR/login", "", map[string]string{
		"email": "Hana@Acme.test", "password": "Password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.HRCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "HR session cookie")
	assert.True(t, cookie.HttpOnly)

	var out LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, cookie.Value, out.Token)
	assert.Equal(t, string(domain.RoleHRAdmin), out.Role)

	id, err := s.tokens.Decode(out.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHRAdmin, id.Role)
	assert.NotEmpty(t, id.TenantID)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "acme", "hana@acme.test")

	wrong, wrongEnv := s.do(t, http.MethodPost, "/api/auth/HR/login", "", map[string]string{
		"email": "hana@acme.test", "password": "Nope12345",
	})
	unknown, unknownEnv := s.do(t, http.MethodPost, "/api/auth/HR/login", "", map[string]string{
		"email": "ghost@acme.test", "password": "Password123",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrongEnv.Message, unknownEnv.Message)
}

func TestUnauthenticatedEnvelope(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/employee/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.True(t, env.GoLogin)

	rec, env = s.do(t, http.MethodGet, "/api/v1/employee/all", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid session, please log in again", env.Message)
}

func TestEmployeeForbiddenOnHRRoutes(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "acme", "hana@acme.test")
	hr := s.login(t, "HR", "hana@acme.test")
	s.hire(t, hr, "eli@acme.test")
	emp := s.login(t, "employee", "eli@acme.test")

	for _, path := range []string{
		"/api/v1/employee/all",
		"/api/v1/salary/all",
		"/api/v1/dashboard/HR-dashboard",
		"/api/v1/attendance/",
	} {
		rec, env := s.do(t, http.MethodGet, path, emp, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.False(t, env.Success, path)
	}

	rec, _ := s.do(t, http.MethodPost, "/api/v1/leave/create-leave", hr, map[string]string{
		"reason": "trip", "startdate": "2026-04-01", "enddate": "2026-04-03",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code, "HR cannot apply for leave")
}

func TestOtherKindSessionCookieIsForbidden(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "acme", "hana@acme.test")
	hr := s.login(t, "HR", "hana@acme.test")
	s.hire(t, hr, "eli@acme.test")
	emp := s.login(t, "employee", "eli@acme.test")

	withCookie := func(method, path, name, token string) int {
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(&http.Cookie{Name: name, Value: token})
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, withCookie(http.MethodGet, "/api/v1/employee/all", auth.EmployeeCookie, emp))
	assert.Equal(t, http.StatusForbidden, withCookie(http.MethodGet, "/api/v1/salary/employee/my-salary", auth.HRCookie, hr))
	assert.Equal(t, http.StatusOK, withCookie(http.MethodGet, "/api/v1/employee/all", auth.HRCookie, hr))
	assert.Equal(t, http.StatusOK, withCookie(http.MethodGet, "/api/v1/employee/by-employee", auth.EmployeeCookie, emp))
}

func TestCrossTenantLookupIsNotFound(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "acme", "hana@acme.test")
	s.signup(t, "globex", "gus@globex.test")
	acme := s.login(t, "HR", "hana@acme.test")
	globex := s.login(t, "HR", "gus@globex.test")

	rec, env := s.do(t, http.MethodPost, "/api/v1/department/create-department", acme, map[string]string{
		"name": "Engineering", "description": "Builds things",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	deptID := dataID(t, env)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/department/"+deptID, acme, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/department/"+deptID, globex, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/department/delete-department/"+deptID, globex, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/department/"+deptID, acme, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "department survives the foreign delete")
}

func TestEmployeeSeesOnlyOwnRequests(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "acme", "hana@acme.test")
	hr := s.login(t, "HR", "hana@acme.test")
	eliID := s.hire(t, hr, "eli@acme.test")
	maxID := s.hire(t, hr, "max@acme.test")
	eli := s.login(t, "employee", "eli@acme.test")

	rec, _ := s.do(t, http.MethodPost, "/api/v1/generate-request/create-request", eli, map[string]string{
		"requesttitle": "Laptop", "requestconent": "Need a new laptop",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = s.do(t, http.MethodPost, "/api/v1/generate-request/create-request", eli, map[string]string{
		"requesttitle": "Laptop", "requestconent": "Need a new laptop",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/api/v1/generate-request/employee/"+eliID, eli, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var own []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &own))
	assert.Len(t, own, 1)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/generate-request/employee/"+maxID, eli, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/generate-request/employee/"+eliID, hr, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLeaveReviewFlow(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "acme", "hana@acme.test")
	hr := s.login(t, "HR", "hana@acme.test")
	s.hire(t, hr, "eli@acme.test")
	eli := s.login(t, "employee", "eli@acme.test")

	body := map[string]string{"reason": "trip", "startdate": "2026-04-01", "enddate": "2026-04-03"}
	rec, env := s.do(t, http.MethodPost, "/api/v1/leave/create-leave", eli, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	leaveID := dataID(t, env)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/leave/create-leave", eli, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/leave/HR-update-leave/"+leaveID, hr, map[string]string{"status": "Approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/leave/HR-update-leave/"+leaveID, hr, map[string]string{"status": "Rejected"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/api/v1/leave/employee-update-leave/"+leaveID, eli, map[string]string{"reason": "changed"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestValidationErrorEnvelope(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/auth/HR/signup", "", map[string]string{"email": "x@y.test"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/HR/login", bytes.NewBufferString("email=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	out := httptest.NewRecorder()
	s.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, out.Code)
}

func TestVerifyEmailWithoutSessionWhenVerifiedLoginRequired(t *testing.T) {
	s := newTestServer(t, func(c *service.AuthConfig) { c.Flags.RequireVerifiedLogin = true })
	s.signup(t, "acme", "hana@acme.test")
	creds := map[string]string{"email": "hana@acme.test", "password": "Password123"}

	rec, env := s.do(t, http.MethodPost, "/api/auth/HR/login", "", creds)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(t, http.MethodPost, "/api/auth/HR/resend-verify-email", "", map[string]string{"email": "hana@acme.test"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p, err := s.store.Credentials().FindByEmail(context.Background(), domain.RoleHRAdmin, "hana@acme.test")
	require.NoError(t, err)
	require.NotEmpty(t, p.VerificationCode)

	rec, _ = s.do(t, http.MethodPost, "/api/auth/HR/verify-email", "", map[string]string{"verificationcode": p.VerificationCode})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = s.do(t, http.MethodPost, "/api/auth/HR/login", "", creds)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRealtimeUpgradeThroughRouter(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "acme", "hana@acme.test")
	hr := s.login(t, "HR", "hana@acme.test")

	srv := httptest.NewServer(s.handler)
	t.Cleanup(srv.Close)
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, resp, err := websocket.DefaultDialer.Dial(base+"/ws", http.Header{"Authorization": []string{"Bearer " + hr}})
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	id, err := s.tokens.Decode(hr)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.hub.Connections(realtime.OrgRoom(id.TenantID)) == 1 }, time.Second, 5*time.Millisecond)

	s.hub.Notify(context.Background(), realtime.OrgRoom(id.TenantID), realtime.EventDashboardRefresh, nil)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), realtime.EventDashboardRefresh)

	public, resp, err := websocket.DefaultDialer.Dial(base+"/ws/public", nil)
	require.NoError(t, err)
	resp.Body.Close()
	public.Close()

	_, resp, err = websocket.DefaultDialer.Dial(base+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// tenantRecords holds one record of every tenant-scoped resource.
type tenantRecords struct {
	hr       string
	employee string
	ids      map[string]string
}

func (s *testServer) seedTenant(t *testing.T, org, hrEmail, empEmail string) tenantRecords {
	t.Helper()
	s.signup(t, org, hrEmail)
	hr := s.login(t, "HR", hrEmail)
	empID := s.hire(t, hr, empEmail)
	emp := s.login(t, "employee", empEmail)
	out := tenantRecords{hr: hr, employee: empID, ids: map[string]string{}}

	create := func(name, token, path string, body any) {
		rec, env := s.do(t, http.MethodPost, path, token, body)
		require.Equal(t, http.StatusCreated, rec.Code, "%s: %s", name, rec.Body.String())
		out.ids[name] = dataID(t, env)
	}
	create("department", hr, "/api/v1/department/create-department", map[string]string{
		"name": "Engineering", "description": "Builds things",
	})
	create("salary", hr, "/api/v1/salary/create", map[string]any{
		"employeeID": empID, "basicpay": 4000, "currency": "usd", "duedate": "2099-04-30",
	})
	create("leave", emp, "/api/v1/leave/create-leave", map[string]string{
		"reason": "trip", "startdate": "2026-04-01", "enddate": "2026-04-03",
	})
	create("request", emp, "/api/v1/generate-request/create-request", map[string]string{
		"requesttitle": "Laptop", "requestconent": "Need a new laptop",
	})
	create("attendance", hr, "/api/v1/attendance/", map[string]string{
		"employeeId": empID, "date": "2026-04-02", "checkInTime": "09:00", "checkOutTime": "17:00",
	})
	create("notice", hr, "/api/v1/notice/create-notice", map[string]string{
		"title": "Welcome", "content": "Hello", "audience": "Employee-Specific", "employeeID": empID,
	})
	create("schedule", hr, "/api/v1/schedule/create-schedule", map[string]string{
		"employeeId": empID, "date": "2026-04-06", "startTime": "09:00", "endTime": "17:00",
	})
	create("recruitment", hr, "/api/v1/recruitment/create-recruitment", map[string]string{
		"jobtitle": "Recruiter", "description": "Hire people",
	})
	return out
}

func listIDs(t *testing.T, env envelope) []string {
	t.Helper()
	var items []struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestEveryRecordRouteIsTenantScoped(t *testing.T) {
	s := newTestServer(t)
	acme := s.seedTenant(t, "acme", "hana@acme.test", "eli@acme.test")
	globex := s.seedTenant(t, "globex", "gus@globex.test", "max@globex.test")

	routes := []struct {
		name   string
		list   string
		get    string
		delete string
	}{
		{"department", "/api/v1/department/all", "/api/v1/department/", "/api/v1/department/delete-department/"},
		{"salary", "/api/v1/salary/all", "/api/v1/salary/", "/api/v1/salary/delete/"},
		{"leave", "/api/v1/leave/all", "/api/v1/leave/", "/api/v1/leave/delete-leave/"},
		{"request", "/api/v1/generate-request/all", "/api/v1/generate-request/", "/api/v1/generate-request/delete-request/"},
		{"attendance", "/api/v1/attendance/", "/api/v1/attendance/", "/api/v1/attendance/"},
		{"notice", "/api/v1/notice/all", "/api/v1/notice/", "/api/v1/notice/delete-notice/"},
		{"schedule", "/api/v1/schedule/all", "/api/v1/schedule/", "/api/v1/schedule/delete-schedule/"},
		{"recruitment", "/api/v1/recruitment/all", "/api/v1/recruitment/", "/api/v1/recruitment/delete-recruitment/"},
	}
	for _, tc := range routes {
		t.Run(tc.name, func(t *testing.T) {
			for _, pair := range []struct{ self, other tenantRecords }{{acme, globex}, {globex, acme}} {
				own, foreign := pair.self.ids[tc.name], pair.other.ids[tc.name]

				rec, env := s.do(t, http.MethodGet, tc.list, pair.self.hr, nil)
				require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
				ids := listIDs(t, env)
				assert.Contains(t, ids, own)
				assert.NotContains(t, ids, foreign)

				rec, env = s.do(t, http.MethodGet, tc.get+foreign, pair.self.hr, nil)
				assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
				assert.False(t, env.Success)

				rec, _ = s.do(t, http.MethodDelete, tc.delete+foreign, pair.self.hr, nil)
				assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
			}

			rec, _ := s.do(t, http.MethodGet, tc.get+acme.ids[tc.name], acme.hr, nil)
			assert.Equal(t, http.StatusOK, rec.Code, "record survives the foreign delete")
		})
	}

	for _, path := range []string{
		"/api/v1/attendance/employee/",
		"/api/v1/schedule/employee/",
		"/api/v1/generate-request/employee/",
	} {
		rec, _ := s.do(t, http.MethodGet, path+globex.employee, acme.hr, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
