package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// LeaveHandler handles leave applications
type LeaveHandler struct {
	leaves *service.LeaveService
	logger *slog.Logger
}

func NewLeaveHandler(leaves *service.LeaveService, logger *slog.Logger) *LeaveHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaveHandler{leaves: leaves, logger: logger}
}

// Create handles POST /api/v1/leave/create-leave
func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.LeaveInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	l, err := h.leaves.Apply(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusCreated, "Leave created successfully", viewLeave(l))
}

// All handles GET /api/v1/leave/all
func (h *LeaveHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.leaves.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All leaves found successfully", mapViews(list, viewLeave))
}

// Mine handles GET /api/v1/leave/my-leaves
func (h *LeaveHandler) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := h.leaves.Mine(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Leaves found successfully", mapViews(list, viewLeave))
}

// Get handles GET /api/v1/leave/{id}
func (h *LeaveHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.leaves.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Leave found successfully", viewLeave(l))
}

// EmployeeUpdate handles PATCH /api/v1/leave/employee-update-leave/{id}
func (h *LeaveHandler) EmployeeUpdate(w http.ResponseWriter, r *http.Request) {
	var req service.LeaveInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	l, err := h.leaves.Edit(r.Context(), r.PathValue("id"), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Leave updated successfully", viewLeave(l))
}

type leaveReviewRequest struct {
	Status domain.LeaveStatus `json:"status"`
}

// HRUpdate handles PATCH /api/v1/leave/HR-update-leave/{id}
func (h *LeaveHandler) HRUpdate(w http.ResponseWriter, r *http.Request) {
	var req leaveReviewRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	l, err := h.leaves.Review(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Leave "+string(l.Status), viewLeave(l))
}

// Delete handles DELETE /api/v1/leave/delete-leave/{id}
func (h *LeaveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.leaves.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Leave deleted successfully", nil)
}
