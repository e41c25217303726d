package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// AttendanceHandler handles clock-in/out and the HR attendance log
type AttendanceHandler struct {
	attendance *service.AttendanceService
	logger     *slog.Logger
}

func NewAttendanceHandler(attendance *service.AttendanceService, logger *slog.Logger) *AttendanceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceHandler{attendance: attendance, logger: logger}
}

func (h *AttendanceHandler) one(w http.ResponseWriter, r *http.Request, code int, message string, a *domain.Attendance, err error) {
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, code, message, viewAttendance(a))
}

func (h *AttendanceHandler) many(w http.ResponseWriter, r *http.Request, message string, list []*domain.Attendance, err error) {
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, message, mapViews(list, viewAttendance))
}

// ClockIn handles POST /api/v1/attendance/employee/clock-in
func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	a, err := h.attendance.ClockIn(r.Context())
	h.one(w, r, http.StatusOK, "Clocked in successfully", a, err)
}

// ClockOut handles POST /api/v1/attendance/employee/clock-out
func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	a, err := h.attendance.ClockOut(r.Context())
	h.one(w, r, http.StatusOK, "Clocked out successfully", a, err)
}

type clockStatusView struct {
	ClockedIn    bool            `json:"isClockedIn"`
	LastActivity string          `json:"lastActivity,omitempty"`
	Today        *attendanceView `json:"todayAttendance"`
}

// MyStatus handles GET /api/v1/attendance/employee/my-status
func (h *AttendanceHandler) MyStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.attendance.MyStatus(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	out := clockStatusView{ClockedIn: st.ClockedIn, LastActivity: st.LastEvent}
	if st.Today != nil {
		v := viewAttendance(st.Today)
		out.Today = &v
	}
	ok(w, http.StatusOK, "Clock-in status retrieved successfully", out)
}

// MyAttendance handles GET /api/v1/attendance/employee/my-attendance
func (h *AttendanceHandler) MyAttendance(w http.ResponseWriter, r *http.Request) {
	list, err := h.attendance.MyAttendance(r.Context())
	h.many(w, r, "Attendance history retrieved successfully", list, err)
}

// All handles GET /api/v1/attendance/
func (h *AttendanceHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.attendance.List(r.Context())
	h.many(w, r, "Attendance records retrieved successfully", list, err)
}

// Get handles GET /api/v1/attendance/{id}
func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.attendance.Get(r.Context(), r.PathValue("id"))
	h.one(w, r, http.StatusOK, "Attendance record retrieved successfully", a, err)
}

// ByEmployee handles GET /api/v1/attendance/employee/{employeeId}
func (h *AttendanceHandler) ByEmployee(w http.ResponseWriter, r *http.Request) {
	list, err := h.attendance.ByEmployee(r.Context(), r.PathValue("employeeId"))
	h.many(w, r, "Attendance records retrieved successfully", list, err)
}

// Create handles POST /api/v1/attendance/
func (h *AttendanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.AttendanceInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	a, err := h.attendance.Create(r.Context(), req)
	h.one(w, r, http.StatusCreated, "Attendance record created successfully", a, err)
}

// Update handles PATCH /api/v1/attendance/{id}
func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.AttendanceInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	a, err := h.attendance.Update(r.Context(), r.PathValue("id"), req)
	h.one(w, r, http.StatusOK, "Attendance record updated successfully", a, err)
}

// Delete handles DELETE /api/v1/attendance/{id}
func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendance.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Attendance record deleted successfully", nil)
}
