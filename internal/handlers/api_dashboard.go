package handlers

import (
	"log"
	"net/http"

	"github.com/leaseguard/leaseguard/internal/api"
	"github.com/leaseguard/leaseguard/internal/database"
	"github.com/leaseguard/leaseguard/internal/dates"
)

// DashboardStats is the summary payload for the UI dashboard.
type DashboardStats struct {
	TotalBuildings     int64 `json:"total_buildings"`
	TotalTenants       int64 `json:"total_tenants"`
	ExpiringAgreements int64 `json:"expiring_agreements"`
	UnreadAlerts       int64 `json:"unread_alerts"`
	AlertThresholdDays int   `json:"alert_threshold_days"`
}

// handleDashboardStats handles GET /api/dashboard/stats
func (h *APIHandler) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	db := database.GetDB()
	stats := DashboardStats{AlertThresholdDays: h.threshold}

	if err := db.Model(&database.Building{}).Count(&stats.TotalBuildings).Error; err != nil {
		log.Printf("Failed to count buildings: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load dashboard stats")
		return
	}
	if err := db.Model(&database.Tenant{}).Where("active = ?", true).Count(&stats.TotalTenants).Error; err != nil {
		log.Printf("Failed to count tenants: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load dashboard stats")
		return
	}

	today := dates.Today(nil)
	expiring, err := database.ListExpiringTenants(db, today, h.threshold)
	if err != nil {
		log.Printf("Failed to count expiring agreements: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load dashboard stats")
		return
	}
	stats.ExpiringAgreements = int64(len(expiring))

	unread, err := database.CountUnreadAlerts(db)
	if err != nil {
		log.Printf("Failed to count unread alerts: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to load dashboard stats")
		return
	}
	stats.UnreadAlerts = unread

	api.RespondJSON(w, http.StatusOK, stats)
}
