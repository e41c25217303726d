package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/observability/metrics"
	"github.com/aryan0dhankhar/hrportal/internal/security"
	"github.com/aryan0dhankhar/hrportal/internal/security/audit"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
	"github.com/aryan0dhankhar/hrportal/internal/security/middleware"
	"github.com/aryan0dhankhar/hrportal/internal/security/ratelimit"
)

const maxBodyBytes = 1 << 20

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth         *AuthHandler
	Employees    *EmployeeHandler
	HRs          *HRHandler
	Departments  *DepartmentHandler
	Salaries     *SalaryHandler
	Leaves       *LeaveHandler
	Requests     *RequestHandler
	Attendance   *AttendanceHandler
	Notices      *NoticeHandler
	Schedules    *ScheduleHandler
	Recruitment  *RecruitmentHandler
	Organization *OrganizationHandler
	Health       *HealthHandler
	// Realtime serves /ws and /ws/public. Nil disables both.
	Realtime Realtime
}

// Realtime is the websocket endpoint pair.
type Realtime interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
	ServePublic(w http.ResponseWriter, r *http.Request)
}

// RouterConfig carries the middleware collaborators.
type RouterConfig struct {
	Authenticator *middleware.Authenticator
	Authz         *security.AuthorizationService
	Audit         *audit.Logger
	Limiter       ratelimit.Limiter
	// RateLimit is the number of requests one tenant may make per RateWindow.
	RateLimit  int
	RateWindow time.Duration
	Logger     *slog.Logger
}

type router struct {
	mux *http.ServeMux
	cfg RouterConfig
}

// NewRouter mounts every API route. Authenticated routes run
// Authenticate -> RequirePermission -> RateLimit -> Audit before the handler.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Audit == nil {
		cfg.Audit = audit.NewLogger(cfg.Logger)
	}
	if cfg.Authz == nil {
		cfg.Authz = security.NewAuthorizationService(cfg.Logger)
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	rt := &router{mux: http.NewServeMux(), cfg: cfg}

	rt.authRoutes(h.Auth)
	rt.employeeRoutes(h.Employees, h.HRs, h.Auth)
	rt.recordRoutes(h)

	if h.Health != nil {
		rt.mux.HandleFunc("GET /healthz", h.Health.Health)
		rt.mux.HandleFunc("GET /readyz", h.Health.Ready)
	}
	rt.mux.Handle("GET /metrics", promhttp.Handler())
	if h.Realtime != nil {
		rt.mux.HandleFunc("GET /ws", h.Realtime.ServeHTTP)
		rt.mux.HandleFunc("GET /ws/public", h.Realtime.ServePublic)
	}

	var root http.Handler = rt.mux
	root = metrics.HTTPMetricsMiddleware(root)
	root = middleware.ValidateJSONContentType(cfg.Logger)(root)
	root = middleware.LimitBody(maxBodyBytes)(root)
	root = middleware.SanitizePath(cfg.Logger)(root)
	return root
}

func (rt *router) authRoutes(a *AuthHandler) {
	for _, role := range []domain.Role{domain.RoleHRAdmin, domain.RoleEmployee} {
		prefix := "/api/auth/employee"
		cookie := auth.EmployeeCookie
		if role == domain.RoleHRAdmin {
			prefix = "/api/auth/HR"
			cookie = auth.HRCookie
		}
		rt.public("POST "+prefix+"/login", a.Login(role))
		rt.public("POST "+prefix+"/logout", a.Logout(role))
		rt.public("POST "+prefix+"/forgot-password", a.ForgotPassword(role))
		rt.public("POST "+prefix+"/reset-password/{token}", a.ResetPassword(role))
		// Verification works without a session: an unverified principal may
		// not be able to log in.
		rt.public("POST "+prefix+"/verify-email", a.VerifyEmail(role))
		rt.public("POST "+prefix+"/resend-verify-email", a.ResendVerification(role))
		rt.session("GET "+prefix+"/check-login", cookie, a.CheckLogin)
		rt.session("GET "+prefix+"/check-verify-email", cookie, a.CheckVerified)
	}
	rt.public("POST /api/auth/HR/signup", a.SignupHR)
	rt.hr("POST /api/auth/employee/signup", security.PermManageEmployees, a.SignupEmployee)
}

func (rt *router) employeeRoutes(e *EmployeeHandler, hrs *HRHandler, a *AuthHandler) {
	const emp = "/api/v1/employee"
	rt.hr("GET "+emp+"/all", security.PermManageEmployees, e.All)
	rt.hr("GET "+emp+"/all-employees-ids", security.PermManageEmployees, e.IDs)
	rt.hr("GET "+emp+"/by-HR/{id}", security.PermManageEmployees, e.ByHR)
	rt.hr("PATCH "+emp+"/update-by-HR/{id}", security.PermManageEmployees, e.UpdateByHR)
	rt.hr("DELETE "+emp+"/delete-employee/{id}", security.PermManageEmployees, e.Delete)
	rt.employee("GET "+emp+"/by-employee", security.PermViewOwnProfile, e.Self)
	rt.employee("PATCH "+emp+"/update-employee", security.PermViewOwnProfile, e.UpdateSelf)

	const hr = "/api/v1/HR"
	rt.hr("GET "+hr+"/all", security.PermManageHR, hrs.All)
	rt.hr("GET "+hr+"/{id}", security.PermManageHR, hrs.Get)
	rt.hr("PATCH "+hr+"/update-HR", security.PermManageHR, hrs.Update)
	rt.hr("DELETE "+hr+"/delete-HR/{id}", security.PermManageHR, hrs.Delete)
	rt.hr("POST "+hr+"/create-HR", security.PermManageHR, a.AddHR)
	rt.hr("PATCH "+hr+"/change-password", security.PermManageHR, a.ChangePassword)
}

func (rt *router) recordRoutes(h Handlers) {
	const dept = "/api/v1/department"
	rt.hr("POST "+dept+"/create-department", security.PermManageDepartments, h.Departments.Create)
	rt.either("GET "+dept+"/all", security.PermViewDirectory, h.Departments.All)
	rt.either("GET "+dept+"/{id}", security.PermViewDirectory, h.Departments.Get)
	rt.hr("PATCH "+dept+"/update-department", security.PermManageDepartments, h.Departments.Update)
	rt.hr("DELETE "+dept+"/delete-department/{id}", security.PermManageDepartments, h.Departments.Delete)

	const sal = "/api/v1/salary"
	rt.hr("POST "+sal+"/create", security.PermManageSalaries, h.Salaries.Create)
	rt.hr("GET "+sal+"/all", security.PermManageSalaries, h.Salaries.All)
	rt.employee("GET "+sal+"/employee/my-salary", security.PermViewOwnRecords, h.Salaries.Mine)
	rt.either("GET "+sal+"/{id}", security.PermViewDirectory, h.Salaries.Get)
	rt.hr("PATCH "+sal+"/update", security.PermManageSalaries, h.Salaries.Update)
	rt.hr("PATCH "+sal+"/update-status", security.PermManageSalaries, h.Salaries.UpdateStatus)
	rt.hr("DELETE "+sal+"/delete/{id}", security.PermManageSalaries, h.Salaries.Delete)

	const leave = "/api/v1/leave"
	rt.employee("POST "+leave+"/create-leave", security.PermApplyLeave, h.Leaves.Create)
	rt.hr("GET "+leave+"/all", security.PermReviewLeaves, h.Leaves.All)
	rt.employee("GET "+leave+"/my-leaves", security.PermApplyLeave, h.Leaves.Mine)
	rt.either("GET "+leave+"/{id}", security.PermViewDirectory, h.Leaves.Get)
	rt.employee("PATCH "+leave+"/employee-update-leave/{id}", security.PermApplyLeave, h.Leaves.EmployeeUpdate)
	rt.hr("PATCH "+leave+"/HR-update-leave/{id}", security.PermReviewLeaves, h.Leaves.HRUpdate)
	rt.either("DELETE "+leave+"/delete-leave/{id}", security.PermViewDirectory, h.Leaves.Delete)

	const req = "/api/v1/generate-request"
	rt.employee("POST "+req+"/create-request", security.PermRaiseRequest, h.Requests.Create)
	rt.hr("POST "+req+"/create-request-by-hr", security.PermManageRequests, h.Requests.CreateByHR)
	rt.hr("GET "+req+"/all", security.PermManageRequests, h.Requests.All)
	rt.either("GET "+req+"/{id}", security.PermViewDirectory, h.Requests.Get)
	rt.either("GET "+req+"/employee/{employeeID}", security.PermViewDirectory, h.Requests.ByEmployee)
	rt.either("PATCH "+req+"/update-request-content", security.PermViewDirectory, h.Requests.UpdateContent)
	rt.hr("PATCH "+req+"/update-request-status", security.PermManageRequests, h.Requests.UpdateStatus)
	rt.hr("PATCH "+req+"/close-request", security.PermManageRequests, h.Requests.Close)
	rt.hr("PATCH "+req+"/update-priority", security.PermManageRequests, h.Requests.UpdatePriority)
	rt.hr("DELETE "+req+"/delete-request/{id}", security.PermManageRequests, h.Requests.Delete)

	const att = "/api/v1/attendance"
	rt.employee("POST "+att+"/employee/clock-in", security.PermClockIn, h.Attendance.ClockIn)
	rt.employee("POST "+att+"/employee/clock-out", security.PermClockIn, h.Attendance.ClockOut)
	rt.employee("GET "+att+"/employee/my-status", security.PermClockIn, h.Attendance.MyStatus)
	rt.employee("GET "+att+"/employee/my-attendance", security.PermViewOwnRecords, h.Attendance.MyAttendance)
	rt.hr("GET "+att+"/{$}", security.PermManageAttendance, h.Attendance.All)
	rt.hr("GET "+att+"/{id}", security.PermManageAttendance, h.Attendance.Get)
	rt.hr("GET "+att+"/employee/{employeeId}", security.PermManageAttendance, h.Attendance.ByEmployee)
	rt.hr("POST "+att+"/{$}", security.PermManageAttendance, h.Attendance.Create)
	rt.hr("PATCH "+att+"/{id}", security.PermManageAttendance, h.Attendance.Update)
	rt.hr("DELETE "+att+"/{id}", security.PermManageAttendance, h.Attendance.Delete)

	const notice = "/api/v1/notice"
	rt.hr("POST "+notice+"/create-notice", security.PermManageNotices, h.Notices.Create)
	rt.hr("GET "+notice+"/all", security.PermManageNotices, h.Notices.All)
	rt.either("GET "+notice+"/{id}", security.PermViewDirectory, h.Notices.Get)
	rt.employee("GET "+notice+"/employee/my-notices", security.PermViewOwnRecords, h.Notices.Mine)
	rt.hr("DELETE "+notice+"/delete-notice/{id}", security.PermManageNotices, h.Notices.Delete)

	const sched = "/api/v1/schedule"
	rt.hr("POST "+sched+"/create-schedule", security.PermManageSchedules, h.Schedules.Create)
	rt.hr("GET "+sched+"/all", security.PermManageSchedules, h.Schedules.All)
	rt.either("GET "+sched+"/{id}", security.PermViewDirectory, h.Schedules.Get)
	rt.either("GET "+sched+"/employee/{employeeId}", security.PermViewDirectory, h.Schedules.ByEmployee)
	rt.hr("PUT "+sched+"/update-schedule/{id}", security.PermManageSchedules, h.Schedules.Update)
	rt.hr("DELETE "+sched+"/delete-schedule/{id}", security.PermManageSchedules, h.Schedules.Delete)

	const rec = "/api/v1/recruitment"
	rt.hr("POST "+rec+"/create-recruitment", security.PermManageRecruitment, h.Recruitment.Create)
	rt.hr("GET "+rec+"/all", security.PermManageRecruitment, h.Recruitment.All)
	rt.hr("GET "+rec+"/{id}", security.PermManageRecruitment, h.Recruitment.Get)
	rt.hr("PATCH "+rec+"/update-recruitment/{id}", security.PermManageRecruitment, h.Recruitment.Update)
	rt.hr("DELETE "+rec+"/delete-recruitment/{id}", security.PermManageRecruitment, h.Recruitment.Delete)

	const org = "/api/v1/organization"
	rt.either("GET "+org+"/info", security.PermViewDirectory, h.Organization.Info)
	rt.hr("PUT "+org+"/update", security.PermManageOrganization, h.Organization.Update)
	rt.hr("GET /api/v1/dashboard/HR-dashboard", security.PermViewDashboard, h.Organization.Dashboard)
}

// public routes are throttled per client address only.
func (rt *router) public(pattern string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, rt.limited(h))
}

// session routes need any valid session carried by cookie.
func (rt *router) session(pattern, cookie string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, rt.cfg.Authenticator.Authenticate(cookie)(rt.limited(h)))
}

// hr and employee routes read both session cookies, own kind first, so a
// session of the other kind is authenticated and then refused with 403.
func (rt *router) hr(pattern string, perm security.Permission, h http.HandlerFunc) {
	rt.guarded(pattern, perm, h, auth.HRCookie, auth.EmployeeCookie)
}

func (rt *router) employee(pattern string, perm security.Permission, h http.HandlerFunc) {
	rt.guarded(pattern, perm, h, auth.EmployeeCookie, auth.HRCookie)
}

// either accepts an HR or an employee session; the service layer enforces
// ownership for employees.
func (rt *router) either(pattern string, perm security.Permission, h http.HandlerFunc) {
	rt.guarded(pattern, perm, h, auth.HRCookie, auth.EmployeeCookie)
}

func (rt *router) guarded(pattern string, perm security.Permission, h http.HandlerFunc, cookies ...string) {
	var next http.Handler = rt.limited(h)
	next = middleware.RequirePermission(rt.cfg.Authz, rt.cfg.Audit, perm)(next)
	next = rt.cfg.Authenticator.Authenticate(cookies...)(next)
	rt.mux.Handle(pattern, next)
}

func (rt *router) limited(h http.Handler) http.Handler {
	next := middleware.Audit(rt.cfg.Audit)(h)
	if rt.cfg.Limiter == nil || rt.cfg.RateLimit <= 0 {
		return next
	}
	return middleware.RateLimit(rt.cfg.Limiter, rt.cfg.RateLimit, rt.cfg.RateWindow, rt.cfg.Logger)(next)
}
