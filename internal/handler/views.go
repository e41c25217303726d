package handler

import (
	"time"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// JSON shapes of domain records. Credentials and verification secrets never
// leave the server.

type principalView struct {
	ID            string      `json:"_id"`
	FirstName     string      `json:"firstname"`
	LastName      string      `json:"lastname"`
	Email         string      `json:"email"`
	ContactNumber string      `json:"contactnumber"`
	Role          domain.Role `json:"role"`
	TenantID      string      `json:"organizationID"`
	IsVerified    bool        `json:"isverified"`
	LastLogin     *time.Time  `json:"lastlogin,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func viewPrincipal(p *domain.Principal) principalView {
	return principalView{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		ContactNumber: p.ContactNumber,
		Role:          p.Role,
		TenantID:      p.TenantID,
		IsVerified:    p.IsVerified,
		LastLogin:     p.LastLogin,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type emergencyContactView struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type employeeView struct {
	principalView
	DepartmentID     string                `json:"department,omitempty"`
	EmployeeCode     string                `json:"employeeId,omitempty"`
	Position         string                `json:"position,omitempty"`
	JoiningDate      *time.Time            `json:"joiningDate,omitempty"`
	EmploymentType   domain.EmploymentType `json:"employmentType"`
	Status           domain.EmployeeStatus `json:"status"`
	ManagerID        string                `json:"manager,omitempty"`
	WorkLocation     string                `json:"workLocation,omitempty"`
	DateOfBirth      *time.Time            `json:"dateOfBirth,omitempty"`
	Gender           string                `json:"gender,omitempty"`
	Address          string                `json:"address,omitempty"`
	EmergencyContact emergencyContactView  `json:"emergencyContact"`
	Skills           []string              `json:"skills"`
}

func viewEmployee(e *domain.Employee) employeeView {
	skills := e.Skills
	if skills == nil {
		skills = []string{}
	}
	return employeeView{
		principalView:  viewPrincipal(&e.Principal),
		DepartmentID:   e.DepartmentID,
		EmployeeCode:   e.EmployeeCode,
		Position:       e.Position,
		JoiningDate:    e.JoiningDate,
		EmploymentType: e.EmploymentType,
		Status:         e.Status,
		ManagerID:      e.ManagerID,
		WorkLocation:   e.WorkLocation,
		DateOfBirth:    e.DateOfBirth,
		Gender:         e.Gender,
		Address:        e.Address,
		EmergencyContact: emergencyContactView{
			Name:         e.EmergencyContact.Name,
			Relationship: e.EmergencyContact.Relationship,
			Phone:        e.EmergencyContact.Phone,
		},
		Skills: skills,
	}
}

type organizationView struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"OrganizationURL"`
	Mail        string    `json:"OrganizationMail"`
	Policies    string    `json:"policies"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func viewOrganization(o *domain.Organization) organizationView {
	return organizationView{
		ID: o.ID, Name: o.Name, Description: o.Description, URL: o.URL, Mail: o.Mail,
		Policies: o.Policies, CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
}

type departmentView struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Employees   []employeeView `json:"employees,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func viewDepartment(d *domain.Department) departmentView {
	return departmentView{ID: d.ID, Name: d.Name, Description: d.Description, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

func viewDepartmentWithMembers(v *service.DepartmentView) departmentView {
	out := viewDepartment(v.Department)
	out.Employees = mapViews(v.Employees, viewEmployee)
	return out
}

type recruitmentView struct {
	ID           string    `json:"_id"`
	JobTitle     string    `json:"jobtitle"`
	Description  string    `json:"description"`
	DepartmentID string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func viewRecruitment(rc *domain.Recruitment) recruitmentView {
	return recruitmentView{
		ID: rc.ID, JobTitle: rc.JobTitle, Description: rc.Description, DepartmentID: rc.DepartmentID,
		CreatedAt: rc.CreatedAt, UpdatedAt: rc.UpdatedAt,
	}
}

type leaveView struct {
	ID         string             `json:"_id"`
	EmployeeID string             `json:"employee"`
	Title      string             `json:"title"`
	Reason     string             `json:"reason"`
	StartDate  time.Time          `json:"startdate"`
	EndDate    time.Time          `json:"enddate"`
	Status     domain.LeaveStatus `json:"status"`
	ApprovedBy string             `json:"approvedby,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func viewLeave(l *domain.Leave) leaveView {
	return leaveView{
		ID: l.ID, EmployeeID: l.EmployeeID, Title: l.Title, Reason: l.Reason,
		StartDate: l.StartDate, EndDate: l.EndDate, Status: l.Status, ApprovedBy: l.ApprovedBy,
		CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
	}
}

type salaryView struct {
	ID               string              `json:"_id"`
	EmployeeID       string              `json:"employee"`
	BasicPay         float64             `json:"basicpay"`
	BonusPercent     float64             `json:"bonusePT"`
	DeductionPercent float64             `json:"deductionPT"`
	Bonuses          float64             `json:"bonuses"`
	Deductions       float64             `json:"deductions"`
	NetPay           float64             `json:"netpay"`
	Currency         string              `json:"currency"`
	DueDate          time.Time           `json:"duedate"`
	PaymentDate      *time.Time          `json:"paymentdate,omitempty"`
	Status           domain.SalaryStatus `json:"status"`
	PaymentType      domain.PaymentType  `json:"paymentType"`
	HourlyRate       float64             `json:"hourlyRate"`
	WorkHours        float64             `json:"workHours"`
	OvertimeHours    float64             `json:"overtimeHours"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func viewSalary(s *domain.Salary) salaryView {
	return salaryView{
		ID: s.ID, EmployeeID: s.EmployeeID, BasicPay: s.BasicPay, BonusPercent: s.BonusPercent,
		DeductionPercent: s.DeductionPercent, Bonuses: s.Bonuses, Deductions: s.Deductions, NetPay: s.NetPay,
		Currency: s.Currency, DueDate: s.DueDate, PaymentDate: s.PaymentDate, Status: s.Status,
		PaymentType: s.PaymentType, HourlyRate: s.HourlyRate, WorkHours: s.WorkHours, OvertimeHours: s.OvertimeHours,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

type noticeView struct {
	ID           string                `json:"_id"`
	Title        string                `json:"title"`
	Content      string                `json:"content"`
	Audience     domain.NoticeAudience `json:"audience"`
	DepartmentID string                `json:"department,omitempty"`
	EmployeeID   string                `json:"employee,omitempty"`
	CreatedBy    string                `json:"createdby"`
	CreatedAt    time.Time             `json:"createdAt"`
}

func viewNotice(n *domain.Notice) noticeView {
	return noticeView{
		ID: n.ID, Title: n.Title, Content: n.Content, Audience: n.Audience,
		DepartmentID: n.DepartmentID, EmployeeID: n.EmployeeID, CreatedBy: n.CreatedBy, CreatedAt: n.CreatedAt,
	}
}

type requestView struct {
	ID           string               `json:"_id"`
	Title        string               `json:"requesttitle"`
	Content      string               `json:"requestconent"`
	EmployeeID   string               `json:"employee"`
	DepartmentID string               `json:"department,omitempty"`
	Status       domain.RequestStatus `json:"status"`
	Priority     domain.Priority      `json:"priority"`
	RequestType  domain.RequestType   `json:"requestType"`
	CreatedBy    domain.Role          `json:"createdBy"`
	ApprovedBy   string               `json:"approvedby,omitempty"`
	HRComments   string               `json:"hrComments,omitempty"`
	ClosedBy     string               `json:"closedBy,omitempty"`
	ClosedAt     *time.Time           `json:"closedDate,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func viewRequest(r *domain.GenerateRequest) requestView {
	return requestView{
		ID: r.ID, Title: r.Title, Content: r.Content, EmployeeID: r.EmployeeID, DepartmentID: r.DepartmentID,
		Status: r.Status, Priority: r.Priority, RequestType: r.RequestType, CreatedBy: r.CreatedBy,
		ApprovedBy: r.ApprovedBy, HRComments: r.HRComments, ClosedBy: r.ClosedBy, ClosedAt: r.ClosedAt,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type attendanceView struct {
	ID         string                  `json:"_id"`
	EmployeeID string                  `json:"employeeId"`
	Date       string                  `json:"date"`
	Status     domain.AttendanceStatus `json:"status"`
	CheckIn    *time.Time              `json:"checkInTime,omitempty"`
	CheckOut   *time.Time              `json:"checkOutTime,omitempty"`
	WorkHours  float64                 `json:"workHours"`
	Comments   string                  `json:"comments,omitempty"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

func viewAttendance(a *domain.Attendance) attendanceView {
	return attendanceView{
		ID: a.ID, EmployeeID: a.EmployeeID, Date: a.Date.Format("2006-01-02"), Status: a.Status,
		CheckIn: a.CheckIn, CheckOut: a.CheckOut, WorkHours: a.WorkHours, Comments: a.Comments, UpdatedAt: a.UpdatedAt,
	}
}

type scheduleView struct {
	ID         string                `json:"_id"`
	EmployeeID string                `json:"employeeId"`
	Date       string                `json:"date"`
	StartTime  string                `json:"startTime"`
	EndTime    string                `json:"endTime"`
	Shift      domain.Shift          `json:"shift"`
	Location   string                `json:"location"`
	Notes      string                `json:"notes,omitempty"`
	Status     domain.ScheduleStatus `json:"status"`
	CreatedBy  string                `json:"createdBy"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

func viewSchedule(s *domain.Schedule) scheduleView {
	return scheduleView{
		ID: s.ID, EmployeeID: s.EmployeeID, Date: s.Date.Format("2006-01-02"), StartTime: s.StartTime,
		EndTime: s.EndTime, Shift: s.Shift, Location: s.Location, Notes: s.Notes, Status: s.Status,
		CreatedBy: s.CreatedBy, UpdatedAt: s.UpdatedAt,
	}
}

type dashboardView struct {
	Counts          service.DashboardCounts `json:"counts"`
	Notices         []noticeView            `json:"notices"`
	RecentLeaves    []leaveView             `json:"recentLeaves"`
	RecentRequests  []requestView           `json:"recentRequests"`
	RecentEmployees []employeeView          `json:"recentEmployees"`
	GeneratedAt     time.Time               `json:"generatedAt"`
}

func viewDashboard(d *service.Dashboard) dashboardView {
	return dashboardView{
		Counts:          d.Counts,
		Notices:         mapViews(d.Notices, viewNotice),
		RecentLeaves:    mapViews(d.RecentLeaves, viewLeave),
		RecentRequests:  mapViews(d.RecentRequests, viewRequest),
		RecentEmployees: mapViews(d.RecentEmployees, viewEmployee),
		GeneratedAt:     d.GeneratedAt,
	}
}

func mapViews[T, V any](items []T, view func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, view(it))
	}
	return out
}
