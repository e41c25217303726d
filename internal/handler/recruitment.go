package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// RecruitmentHandler handles recruitment endpoints
type RecruitmentHandler struct {
	recruitments *service.RecruitmentService
	logger       *slog.Logger
}

func NewRecruitmentHandler(recruitments *service.RecruitmentService, logger *slog.Logger) *RecruitmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecruitmentHandler{recruitments: recruitments, logger: logger}
}

// Create handles POST /api/v1/recruitment/create-recruitment
func (h *RecruitmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.RecruitmentInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	rc, err := h.recruitments.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusCreated, "Recruitment created successfully", viewRecruitment(rc))
}

// All handles GET /api/v1/recruitment/all
func (h *RecruitmentHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.recruitments.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All recruitments retrieved successfully", mapViews(list, viewRecruitment))
}

func (h *RecruitmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	rc, err := h.recruitments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Recruitment retrieved successfully", viewRecruitment(rc))
}

// Update handles PATCH /api/v1/recruitment/update-recruitment/{id}
func (h *RecruitmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.RecruitmentUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	req.ID = r.PathValue("id")
	rc, err := h.recruitments.Update(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Recruitment updated successfully", viewRecruitment(rc))
}

func (h *RecruitmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.recruitments.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Recruitment deleted successfully", nil)
}
