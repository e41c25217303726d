package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// NoticeHandler handles notices
type NoticeHandler struct {
	notices *service.NoticeService
	logger  *slog.Logger
}

func NewNoticeHandler(notices *service.NoticeService, logger *slog.Logger) *NoticeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoticeHandler{notices: notices, logger: logger}
}

// Create handles POST /api/v1/notice/create-notice
func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.NoticeInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	n, err := h.notices.Create(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusCreated, "Notice created successfully", viewNotice(n))
}

// All handles GET /api/v1/notice/all
func (h *NoticeHandler) All(w http.ResponseWriter, r *http.Request) {
	list, err := h.notices.List(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "All notices found successfully", mapViews(list, viewNotice))
}

// Get handles GET /api/v1/notice/{id}
func (h *NoticeHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.notices.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Notice found successfully", viewNotice(n))
}

// Mine handles GET /api/v1/notice/employee/my-notices
func (h *NoticeHandler) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := h.notices.Mine(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Notices found successfully", mapViews(list, viewNotice))
}

// Delete handles DELETE /api/v1/notice/delete-notice/{id}
func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notices.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Notice deleted successfully", nil)
}
