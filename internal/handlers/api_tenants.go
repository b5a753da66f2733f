package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/leaseguard/leaseguard/internal/api"
	"github.com/leaseguard/leaseguard/internal/database"
	"github.com/leaseguard/leaseguard/internal/dates"
)

// handleListTenants handles GET /api/tenants?building_id=N
func (h *APIHandler) handleListTenants(w http.ResponseWriter, r *http.Request) {
	var buildingID uint
	if v := r.URL.Query().Get("building_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			api.RespondError(w, http.StatusBadRequest, "Invalid building_id")
			return
		}
		buildingID = uint(id)
	}

	tenants, err := database.ListTenants(database.GetDB(), buildingID)
	if err != nil {
		log.Printf("Failed to list tenants: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list tenants")
		return
	}
	api.RespondJSON(w, http.StatusOK, tenants)
}

// handleCreateTenant handles POST /api/tenants
func (h *APIHandler) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTenantRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}
	if req.AgreementEndDate.IsZero() {
		api.RespondValidationError(w, map[string]string{"agreement_end_date": "is required"})
		return
	}

	tenant := &database.Tenant{
		Name:               req.Name,
		Phone:              req.Phone,
		Email:              req.Email,
		PortionNumber:      req.PortionNumber,
		BuildingID:         req.BuildingID,
		AgreementStartDate: req.AgreementStartDate,
		AgreementEndDate:   req.AgreementEndDate,
		Active:             true,
	}
	if err := database.CreateTenant(database.GetDB(), tenant); err != nil {
		log.Printf("Failed to create tenant: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to create tenant")
		return
	}

	api.RespondJSON(w, http.StatusCreated, tenant)
}

// handleGetTenant handles GET /api/tenants/{id}
func (h *APIHandler) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantIDFromPath(w, r)
	if !ok {
		return
	}

	tenant, err := database.GetTenant(database.GetDB(), id)
	if errors.Is(err, database.ErrTenantNotFound) {
		api.RespondError(w, http.StatusNotFound, "Tenant not found")
		return
	}
	if err != nil {
		log.Printf("Failed to get tenant %d: %v", id, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to get tenant")
		return
	}
	api.RespondJSON(w, http.StatusOK, tenant)
}

// handleUpdateTenant handles PUT /api/tenants/{id}. Updating the agreement
// end date is how a renewal reaches the system; the expiry scan picks up the
// new end date as a fresh alert identity on its next tick.
func (h *APIHandler) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantIDFromPath(w, r)
	if !ok {
		return
	}

	var req api.UpdateTenantRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.PortionNumber != nil {
		updates["portion_number"] = *req.PortionNumber
	}
	if req.AgreementEndDate != nil {
		if req.AgreementEndDate.IsZero() {
			api.RespondValidationError(w, map[string]string{"agreement_end_date": "must be a valid date"})
			return
		}
		updates["agreement_end_date"] = req.AgreementEndDate.Time()
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		api.RespondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	tenant, err := database.UpdateTenant(database.GetDB(), id, updates)
	if errors.Is(err, database.ErrTenantNotFound) {
		api.RespondError(w, http.StatusNotFound, "Tenant not found")
		return
	}
	if err != nil {
		log.Printf("Failed to update tenant %d: %v", id, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to update tenant")
		return
	}
	api.RespondJSON(w, http.StatusOK, tenant)
}

// handleDeleteTenant handles DELETE /api/tenants/{id}; alerts cascade.
func (h *APIHandler) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := tenantIDFromPath(w, r)
	if !ok {
		return
	}

	err := database.DeleteTenant(database.GetDB(), id)
	if errors.Is(err, database.ErrTenantNotFound) {
		api.RespondError(w, http.StatusNotFound, "Tenant not found")
		return
	}
	if err != nil {
		log.Printf("Failed to delete tenant %d: %v", id, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to delete tenant")
		return
	}
	api.RespondNoContent(w)
}

// handleExpiringTenants handles GET /api/tenants/expiring?days=N
func (h *APIHandler) handleExpiringTenants(w http.ResponseWriter, r *http.Request) {
	days := h.threshold
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			api.RespondError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	tenants, err := database.ListExpiringTenants(database.GetDB(), dates.Today(nil), days)
	if err != nil {
		log.Printf("Failed to list expiring tenants: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list expiring tenants")
		return
	}
	api.RespondJSON(w, http.StatusOK, tenants)
}

// handleListBuildings handles GET /api/buildings
func (h *APIHandler) handleListBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, err := database.ListBuildings(database.GetDB())
	if err != nil {
		log.Printf("Failed to list buildings: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to list buildings")
		return
	}
	api.RespondJSON(w, http.StatusOK, buildings)
}

// handleCreateBuilding handles POST /api/buildings
func (h *APIHandler) handleCreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBuildingRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrors := api.Validate(req); fieldErrors != nil {
		api.RespondValidationError(w, fieldErrors)
		return
	}

	building := &database.Building{
		Name:             req.Name,
		Location:         req.Location,
		NumberOfPortions: req.NumberOfPortions,
	}
	if building.NumberOfPortions == 0 {
		building.NumberOfPortions = 1
	}
	if err := database.CreateBuilding(database.GetDB(), building); err != nil {
		log.Printf("Failed to create building: %v", err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to create building")
		return
	}
	api.RespondJSON(w, http.StatusCreated, building)
}

// tenantIDFromPath parses the {id} path segment, writing a 400 on failure.
func tenantIDFromPath(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid tenant ID")
		return 0, false
	}
	return uint(id), true
}
