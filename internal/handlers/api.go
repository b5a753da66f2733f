package handlers

import (
	"net/http"

	"github.com/leaseguard/leaseguard/internal/jobs"
	"github.com/leaseguard/leaseguard/internal/services"
)

// APIHandler handles API endpoints for the UI collaborator
type APIHandler struct {
	alertService *services.AlertService
	scanJob      *jobs.ExpiryScanJob
	threshold    int
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(alertService *services.AlertService, scanJob *jobs.ExpiryScanJob, threshold int) *APIHandler {
	return &APIHandler{
		alertService: alertService,
		scanJob:      scanJob,
		threshold:    threshold,
	}
}

// SetupRoutes sets up all API routes
func (h *APIHandler) SetupRoutes(mux *http.ServeMux) {
	// Alert query interface
	mux.HandleFunc("GET /api/alerts", h.handleListAlerts)
	mux.HandleFunc("GET /api/alerts/unread", h.handleUnreadAlerts)
	mux.HandleFunc("GET /api/alerts/unread/count", h.handleUnreadCount)
	mux.HandleFunc("POST /api/alerts/{id}/read", h.handleMarkAlertRead)

	// Scan runs
	mux.HandleFunc("GET /api/scans", h.handleListScanRuns)
	mux.HandleFunc("POST /api/scans", h.handleTriggerScan)

	// Agreement collaborator records
	mux.HandleFunc("GET /api/tenants", h.handleListTenants)
	mux.HandleFunc("POST /api/tenants", h.handleCreateTenant)
	mux.HandleFunc("GET /api/tenants/expiring", h.handleExpiringTenants)
	mux.HandleFunc("GET /api/tenants/{id}", h.handleGetTenant)
	mux.HandleFunc("PUT /api/tenants/{id}", h.handleUpdateTenant)
	mux.HandleFunc("DELETE /api/tenants/{id}", h.handleDeleteTenant)
	mux.HandleFunc("GET /api/buildings", h.handleListBuildings)
	mux.HandleFunc("POST /api/buildings", h.handleCreateBuilding)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", h.handleDashboardStats)
}
