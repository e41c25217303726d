package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/service"
)

// OrganizationHandler serves organization settings and the HR dashboard.
type OrganizationHandler struct {
	orgs      *service.OrganizationService
	dashboard *service.DashboardService
	logger    *slog.Logger
}

func NewOrganizationHandler(orgs *service.OrganizationService, dashboard *service.DashboardService, logger *slog.Logger) *OrganizationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrganizationHandler{orgs: orgs, dashboard: dashboard, logger: logger}
}

// Info handles GET /api/v1/organization/info
func (h *OrganizationHandler) Info(w http.ResponseWriter, r *http.Request) {
	o, err := h.orgs.Info(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Organization info retrieved successfully", viewOrganization(o))
}

// Update handles PUT /api/v1/organization/update
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.OrganizationInput
	if err := decode(r, &req); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	o, err := h.orgs.Update(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "Organization info updated successfully", viewOrganization(o))
}

// Dashboard handles GET /api/v1/dashboard/HR-dashboard
func (h *OrganizationHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.HR(r.Context())
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	ok(w, http.StatusOK, "", viewDashboard(d))
}
