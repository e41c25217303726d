package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// EmployeeHandler serves the employee directory and profiles.
type EmployeeHandler struct {
	employees *service.EmployeeService
	logger    *slog.Logger
}

func NewEmployeeHandler(employees *service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeHandler{employees: employees, logger: logger}
}

// All handles GET /api/v1/employee/all
func (h *EmployeeHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.employees.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All employees found successfully", mapViews(list, viewEmployee))
}

// IDs handles GET /api/v1/employee/all-employees-ids
func (h *EmployeeHandler) IDs(w http.ResponseWriter, r *http.Request) {
	refs, err := h.employees.Refs(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All employee ids found successfully", refs)
}

// ByHR handles GET /api/v1/employee/by-HR/{id}
func (h *EmployeeHandler) ByHR(w http.ResponseWriter, r *http.Request) {
	e, err := h.employees.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Employee found successfully", viewEmployee(e))
}

// Self handles GET /api/v1/employee/by-employee
func (h *EmployeeHandler) Self(w http.ResponseWriter, r *http.Request) {
	e, err := h.employees.Self(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Employee found successfully", viewEmployee(e))
}

// UpdateSelf handles PATCH /api/v1/employee/update-employee. Only profile
// fields are read from the body.
func (h *EmployeeHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	e, err := h.employees.UpdateSelf(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Employee updated successfully", viewEmployee(e))
}

// UpdateByHR handles PATCH /api/v1/employee/update-by-HR/{id}
func (h *EmployeeHandler) UpdateByHR(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	e, err := h.employees.UpdateByHR(r.Context(), r.PathValue("id"), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Employee updated successfully", viewEmployee(e))
}

// Delete handles DELETE /api/v1/employee/delete-employee/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.employees.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Employee deleted successfully", nil)
}

// HRHandler serves the HR-Admin profiles of an organization.
type HRHandler struct {
	hrs    *service.HRService
	logger *slog.Logger
}

func NewHRHandler(hrs *service.HRService, logger *slog.Logger) *HRHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HRHandler{hrs: hrs, logger: logger}
}

// All handles GET /api/v1/HR/all
func (h *HRHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.hrs.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All HR found successfully", mapViews(list, viewPrincipal))
}

// Get handles GET /api/v1/HR/{id}
func (h *HRHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.hrs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "HR found successfully", viewPrincipal(p))
}

// Update handles PATCH /api/v1/HR/update-HR
func (h *HRHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.HRProfileInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	p, err := h.hrs.UpdateSelf(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "HR updated successfully", viewPrincipal(p))
}

// Delete handles DELETE /api/v1/HR/delete-HR/{id}
func (h *HRHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.hrs.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "HR deleted successfully", nil)
}
