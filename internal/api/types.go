package api

import "github.com/leaseguard/leaseguard/internal/dates"

// CreateBuildingRequest is the body for POST /api/buildings.
type CreateBuildingRequest struct {
	Name             string `json:"name" validate:"required,max=255"`
	Location         string `json:"location" validate:"max=500"`
	NumberOfPortions int    `json:"number_of_portions" validate:"omitempty,min=1"`
}

// CreateTenantRequest is the body for POST /api/tenants.
type CreateTenantRequest struct {
	Name               string     `json:"name" validate:"required,max=255"`
	Phone              string     `json:"phone" validate:"max=20"`
	Email              string     `json:"email" validate:"omitempty,email"`
	PortionNumber      string     `json:"portion_number" validate:"required,max=50"`
	BuildingID         uint       `json:"building_id" validate:"required"`
	AgreementStartDate dates.Date `json:"agreement_start_date"`
	AgreementEndDate   dates.Date `json:"agreement_end_date"`
}

// UpdateTenantRequest is the body for PUT /api/tenants/{id}. All fields are
// optional; setting AgreementEndDate is the renewal path.
type UpdateTenantRequest struct {
	Name             *string     `json:"name,omitempty" validate:"omitempty,max=255"`
	Phone            *string     `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email            *string     `json:"email,omitempty" validate:"omitempty,email"`
	PortionNumber    *string     `json:"portion_number,omitempty" validate:"omitempty,max=50"`
	AgreementEndDate *dates.Date `json:"agreement_end_date,omitempty"`
	Active           *bool       `json:"active,omitempty"`
}

// PaginationMeta describes the page window of a paginated response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse wraps a data page with pagination metadata.
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}
