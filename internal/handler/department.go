package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// DepartmentHandler handles department endpoints
type DepartmentHandler struct {
	departments *service.DepartmentService
	logger      *slog.Logger
}

func NewDepartmentHandler(departments *service.DepartmentService, logger *slog.Logger) *DepartmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DepartmentHandler{departments: departments, logger: logger}
}

// Create handles POST /api/v1/department/create-department
func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.DepartmentInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	d, err := h.departments.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusCreated, "Department created successfully", viewDepartment(d))
}

// All handles GET /api/v1/department/all
func (h *DepartmentHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.departments.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All departments found successfully", mapViews(list, viewDepartment))
}

// Get handles GET /api/v1/department/{id}
func (h *DepartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.departments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Department found successfully", viewDepartmentWithMembers(v))
}

// Update handles PATCH /api/v1/department/update-department
func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.DepartmentUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	v, err := h.departments.Update(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Department updated successfully", viewDepartmentWithMembers(v))
}

// Delete handles DELETE /api/v1/department/delete-department/{id}
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.departments.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Department deleted successfully", nil)
}
