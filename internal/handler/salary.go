package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// SalaryHandler handles payroll endpoints
type SalaryHandler struct {
	salaries *service.SalaryService
	logger   *slog.Logger
}

func NewSalaryHandler(salaries *service.SalaryService, logger *slog.Logger) *SalaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalaryHandler{salaries: salaries, logger: logger}
}

// Create handles POST /api/v1/salary/create
func (h *SalaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SalaryInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	s, err := h.salaries.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusCreated, "Salary created successfully", viewSalary(s))
}

// All handles GET /api/v1/salary/all
func (h *SalaryHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.salaries.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All salaries found successfully", mapViews(list, viewSalary))
}

// Mine handles GET /api/v1/salary/employee/my-salary
func (h *SalaryHandler) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := h.salaries.Mine(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Salaries found successfully", mapViews(list, viewSalary))
}

// Get handles GET /api/v1/salary/{id}
func (h *SalaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.salaries.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Salary found successfully", viewSalary(s))
}

// Update handles PATCH /api/v1/salary/update
func (h *SalaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.SalaryUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	s, err := h.salaries.Update(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Salary updated successfully", viewSalary(s))
}

type salaryStatusRequest struct {
	ID     string              `json:"salaryID"`
	Status domain.SalaryStatus `json:"status"`
}

// UpdateStatus handles PATCH /api/v1/salary/update-status
func (h *SalaryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req salaryStatusRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	s, err := h.salaries.UpdateStatus(r.Context(), req.ID, req.Status)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Salary status updated successfully", viewSalary(s))
}

// Delete handles DELETE /api/v1/salary/delete/{id}
func (h *SalaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.salaries.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Salary deleted successfully", nil)
}
