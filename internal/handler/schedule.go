package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// ScheduleHandler handles shift schedules
type ScheduleHandler struct {
	schedules *service.ScheduleService
	logger    *slog.Logger
}

func NewScheduleHandler(schedules *service.ScheduleService, logger *slog.Logger) *ScheduleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleHandler{schedules: schedules, logger: logger}
}

// Create handles POST /api/v1/schedule/create-schedule
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ScheduleInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	s, err := h.schedules.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusCreated, "Schedule created successfully", viewSchedule(s))
}

// All handles GET /api/v1/schedule/all
func (h *ScheduleHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.schedules.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Schedules retrieved successfully", mapViews(list, viewSchedule))
}

// Get handles GET /api/v1/schedule/{id}
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.schedules.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Schedule retrieved successfully", viewSchedule(s))
}

// ByEmployee handles GET /api/v1/schedule/employee/{employeeId}
func (h *ScheduleHandler) ByEmployee(w http.ResponseWriter, r *http.Request) {
	list, err := h.schedules.ByEmployee(r.Context(), r.PathValue("employeeId"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Schedules retrieved successfully", mapViews(list, viewSchedule))
}

// Update handles PUT /api/v1/schedule/update-schedule/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.ScheduleInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	s, err := h.schedules.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Schedule updated successfully", viewSchedule(s))
}

// Delete handles DELETE /api/v1/schedule/delete-schedule/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.schedules.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Schedule deleted successfully", nil)
}
