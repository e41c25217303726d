package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// RequestHandler handles generate-request tickets
type RequestHandler struct {
	requests *service.RequestService
	logger   *slog.Logger
}

func NewRequestHandler(requests *service.RequestService, logger *slog.Logger) *RequestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestHandler{requests: requests, logger: logger}
}

func (h *RequestHandler) one(w http.ResponseWriter, r *http.Request, code int, message string, req *domain.GenerateRequest, err error) {
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, code, message, viewRequest(req))
}

// Create handles POST /api/v1/generate-request/create-request
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.RequestInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	out, err := h.requests.Create(r.Context(), req)
	h.one(w, r, http.StatusCreated, "Request Generated Successfully", out, err)
}

// CreateByHR handles POST /api/v1/generate-request/create-request-by-hr
func (h *RequestHandler) CreateByHR(w http.ResponseWriter, r *http.Request) {
	var req service.RequestInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	out, err := h.requests.CreateByHR(r.Context(), req)
	h.one(w, r, http.StatusCreated, "Request Created Successfully by HR", out, err)
}

// All handles GET /api/v1/generate-request/all
func (h *RequestHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.requests.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All requests retrieved successfully", mapViews(list, viewRequest))
}

// Get handles GET /api/v1/generate-request/{id}
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.requests.Get(r.Context(), r.PathValue("id"))
	h.one(w, r, http.StatusOK, "Request retrieved successfully", out, err)
}

// ByEmployee handles GET /api/v1/generate-request/employee/{employeeID}
func (h *RequestHandler) ByEmployee(w http.ResponseWriter, r *http.Request) {
	list, err := h.requests.ByEmployee(r.Context(), r.PathValue("employeeID"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Employee requests retrieved successfully", mapViews(list, viewRequest))
}

// UpdateContent handles PATCH /api/v1/generate-request/update-request-content
func (h *RequestHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req service.RequestContentUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	out, err := h.requests.UpdateContent(r.Context(), req)
	h.one(w, r, http.StatusOK, "Request updated successfully", out, err)
}

// UpdateStatus handles PATCH /api/v1/generate-request/update-request-status
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req service.RequestStatusUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	out, err := h.requests.UpdateStatus(r.Context(), req)
	h.one(w, r, http.StatusOK, "Request updated successfully", out, err)
}

// Close handles PATCH /api/v1/generate-request/close-request
func (h *RequestHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req service.RequestClose
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	out, err := h.requests.Close(r.Context(), req)
	h.one(w, r, http.StatusOK, "Request closed successfully", out, err)
}

// UpdatePriority handles PATCH /api/v1/generate-request/update-priority
func (h *RequestHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	var req service.RequestPriorityUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	out, err := h.requests.UpdatePriority(r.Context(), req)
	h.one(w, r, http.StatusOK, "Request priority updated successfully", out, err)
}

// Delete handles DELETE /api/v1/generate-request/delete-request/{id}
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.requests.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Request deleted successfully", nil)
}
