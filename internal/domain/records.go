package domain

import "time"

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "Full-time"
	EmploymentPartTime EmploymentType = "Part-time"
	EmploymentContract EmploymentType = "Contract"
	EmploymentIntern   EmploymentType = "Intern"
)

type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "Active"
	EmployeeInactive   EmployeeStatus = "Inactive"
	EmployeeOnLeave    EmployeeStatus = "On Leave"
	EmployeeTerminated EmployeeStatus = "Terminated"
)

// EmergencyContact is the person to call for an employee.
type EmergencyContact struct {
	Name         string
	Relationship string
	Phone        string
}

// Employee is a principal with the Employee role plus HR profile data.
type Employee struct {
	Principal
	DepartmentID     string
	EmployeeCode     string
	Position         string
	JoiningDate      *time.Time
	EmploymentType   EmploymentType
	Status           EmployeeStatus
	ManagerID        string
	WorkLocation     string
	DateOfBirth      *time.Time
	Gender           string
	Address          string
	EmergencyContact EmergencyContact
	Skills           []string
}

// Department groups employees. Membership is the employee's DepartmentID.
type Department struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recruitment is an open position. Job titles are unique per organization.
type Recruitment struct {
	ID           string
	TenantID     string
	JobTitle     string
	Description  string
	DepartmentID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Leave struct {
	ID         string
	TenantID   string
	EmployeeID string
	Title      string
	Reason     string
	StartDate  time.Time
	EndDate    time.Time
	Status     LeaveStatus
	ApprovedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PaymentType string

const (
	PaymentManual         PaymentType = "Manual"
	PaymentAutoCalculated PaymentType = "Auto-calculated"
	PaymentAutoPayroll    PaymentType = "Auto-Payroll"
)

type Salary struct {
	ID               string
	TenantID         string
	EmployeeID       string
	BasicPay         float64
	BonusPercent     float64
	DeductionPercent float64
	Bonuses          float64
	Deductions       float64
	NetPay           float64
	Currency         string
	DueDate          time.Time
	PaymentDate      *time.Time
	Status           SalaryStatus
	PaymentType      PaymentType
	HourlyRate       float64
	WorkHours        float64
	OvertimeHours    float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type NoticeAudience string

const (
	AudienceDepartment NoticeAudience = "Department-Specific"
	AudienceEmployee   NoticeAudience = "Employee-Specific"
)

type Notice struct {
	ID           string
	TenantID     string
	Title        string
	Content      string
	Audience     NoticeAudience
	DepartmentID string
	EmployeeID   string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type RequestType string

const (
	RequestITSupport  RequestType = "IT Support"
	RequestHRSupport  RequestType = "HR Support"
	RequestFacilities RequestType = "Facilities"
	RequestFinance    RequestType = "Finance"
	RequestGeneral    RequestType = "General"
)

// GenerateRequest is a ticket raised by an employee or by HR on their behalf.
type GenerateRequest struct {
	ID           string
	TenantID     string
	Title        string
	Content      string
	EmployeeID   string
	DepartmentID string
	Status       RequestStatus
	Priority     Priority
	RequestType  RequestType
	CreatedBy    Role
	ApprovedBy   string
	HRComments   string
	ClosedBy     string
	ClosedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
	AttendanceHalfDay AttendanceStatus = "Half Day"
	AttendanceLeave   AttendanceStatus = "Leave"
)

// Attendance is one employee's record for one calendar day.
type Attendance struct {
	ID         string
	TenantID   string
	EmployeeID string
	Date       time.Time
	Status     AttendanceStatus
	CheckIn    *time.Time
	CheckOut   *time.Time
	WorkHours  float64
	Comments   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
	ShiftNight     Shift = "night"
	ShiftCustom    Shift = "custom"
)

type Schedule struct {
	ID         string
	TenantID   string
	EmployeeID string
	Date       time.Time
	StartTime  string
	EndTime    string
	Shift      Shift
	Location   string
	Notes      string
	Status     ScheduleStatus
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func oneOf[T ~string](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func (t EmploymentType) Valid() bool {
	return oneOf(t, EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern)
}

func (s EmployeeStatus) Valid() bool {
	return oneOf(s, EmployeeActive, EmployeeInactive, EmployeeOnLeave, EmployeeTerminated)
}

func (p PaymentType) Valid() bool {
	return oneOf(p, PaymentManual, PaymentAutoCalculated, PaymentAutoPayroll)
}

func (a NoticeAudience) Valid() bool {
	return oneOf(a, AudienceDepartment, AudienceEmployee)
}

func (p Priority) Valid() bool {
	return oneOf(p, PriorityLow, PriorityMedium, PriorityHigh)
}

func (t RequestType) Valid() bool {
	return oneOf(t, RequestITSupport, RequestHRSupport, RequestFacilities, RequestFinance, RequestGeneral)
}

func (s AttendanceStatus) Valid() bool {
	return oneOf(s, AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay, AttendanceLeave)
}

func (s Shift) Valid() bool {
	return oneOf(s, ShiftMorning, ShiftAfternoon, ShiftEvening, ShiftNight, ShiftCustom)
}
