package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/leaseguard/leaseguard/internal/api"
	"github.com/leaseguard/leaseguard/internal/database"
	"github.com/leaseguard/leaseguard/internal/jobs"
)

// handleListAlerts handles GET /api/alerts?filter=unread|read|all
func (h *APIHandler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	filter, err := database.ParseAlertFilter(r.URL.Query().Get("filter"))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	alerts, err := h.alertService.List(filter)
	if err != nil {
		log.Printf("Failed to list alerts: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}

	// Optional pagination over the result set
	if r.URL.Query().Get("page") != "" || r.URL.Query().Get("per_page") != "" {
		params := api.ParsePagination(r)
		total := int64(len(alerts))

		start := params.Offset()
		if start > len(alerts) {
			start = len(alerts)
		}
		end := start + params.PerPage
		if end > len(alerts) {
			end = len(alerts)
		}

		api.RespondJSON(w, http.StatusOK, api.PaginatedResponse{
			Data: alerts[start:end],
			Pagination: api.PaginationMeta{
				Page:       params.Page,
				PerPage:    params.PerPage,
				Total:      total,
				TotalPages: params.TotalPages(total),
			},
		})
		return
	}

	api.RespondJSON(w, http.StatusOK, alerts)
}

// handleUnreadAlerts handles GET /api/alerts/unread (most-urgent-first)
func (h *APIHandler) handleUnreadAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.ListUnread()
	if err != nil {
		log.Printf("Failed to list unread alerts: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list unread alerts")
		return
	}
	api.RespondJSON(w, http.StatusOK, alerts)
}

// handleUnreadCount handles GET /api/alerts/unread/count (dashboard badge)
func (h *APIHandler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.alertService.UnreadCount()
	if err != nil {
		log.Printf("Failed to count unread alerts: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to count unread alerts")
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// handleMarkAlertRead handles POST /api/alerts/{id}/read. Marking an
// already-read alert succeeds without change.
func (h *APIHandler) handleMarkAlertRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid alert ID")
		return
	}

	err = h.alertService.MarkRead(uint(id))
	if errors.Is(err, database.ErrAlertNotFound) {
		api.RespondError(w, http.StatusNotFound, "Alert not found")
		return
	}
	if err != nil {
		log.Printf("Failed to mark alert %d read: %v", id, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to mark alert read")
		return
	}

	api.RespondJSON(w, http.StatusOK, map[string]bool{"read": true})
}

// handleListScanRuns handles GET /api/scans (run history, newest first)
func (h *APIHandler) handleListScanRuns(w http.ResponseWriter, r *http.Request) {
	var runs []database.ScanRun
	err := database.GetDB().Order("started_at DESC, id DESC").Limit(100).Find(&runs).Error
	if err != nil {
		log.Printf("Failed to list scan runs: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list scan runs")
		return
	}
	api.RespondJSON(w, http.StatusOK, runs)
}

// handleTriggerScan handles POST /api/scans (manual tick)
func (h *APIHandler) handleTriggerScan(w http.ResponseWriter, r *http.Request) {
	if h.scanJob == nil {
		api.RespondError(w, http.StatusServiceUnavailable, "Scan job not available")
		return
	}

	summary, err := h.scanJob.RunOnce(jobs.TriggerManual)
	if err != nil {
		log.Printf("Manual scan failed: %v", err)
		api.RespondError(w, http.StatusBadGateway, "Scan failed: agreement source unavailable")
		return
	}

	api.RespondJSON(w, http.StatusOK, summary)
}
