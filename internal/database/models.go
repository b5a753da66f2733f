package database

import (
	"time"

	"github.com/leaseguard/leaseguard/internal/dates"
)

// Building represents a property containing one or more rentable portions
type Building struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Location         string    `gorm:"type:varchar(500)" json:"location"`
	NumberOfPortions int       `gorm:"not null;default:1" json:"number_of_portions"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relationships
	Tenants []Tenant `gorm:"foreignKey:BuildingID;constraint:OnDelete:CASCADE" json:"tenants,omitempty"`
}

func (Building) TableName() string {
	return "buildings"
}

// Tenant represents an occupancy agreement: an occupant renting a portion of
// a building for a bounded period. This is the record the expiry scan reads.
type Tenant struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Name               string     `gorm:"type:varchar(255);not null" json:"name"`
	Phone              string     `gorm:"type:varchar(20)" json:"phone"`
	Email              string     `gorm:"type:varchar(255);index" json:"email"`
	PortionNumber      string     `gorm:"type:varchar(50);not null" json:"portion_number"`
	BuildingID         uint       `gorm:"not null;index" json:"building_id"`
	AgreementStartDate dates.Date `gorm:"not null" json:"agreement_start_date"`
	AgreementEndDate   dates.Date `gorm:"not null;index" json:"agreement_end_date"`
	Active             bool       `gorm:"default:true;index" json:"active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relationships
	Building Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Alerts   []Alert  `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"alerts,omitempty"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// Alert is an expiry notification raised by the scan pipeline.
//
// TenantName, BuildingName and DaysRemaining are snapshots taken at creation
// time. They are historical facts ("as of creation, N days were left") and
// are never recomputed or re-joined against the live tenant record, so alert
// history stays accurate after renames or renewals.
//
// The unique index over (tenant_id, agreement_end_date) is the dedup key:
// repeated scans of the same window insert at most one row, and a renewal
// (new end date) forms a fresh identity eligible for its own alert.
type Alert struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	TenantID         uint       `gorm:"not null;index;uniqueIndex:uniq_alert_tenant_end" json:"tenant_id"`
	TenantName       string     `gorm:"type:varchar(255);not null" json:"tenant_name"`
	BuildingName     string     `gorm:"type:varchar(255);not null" json:"building_name"`
	AgreementEndDate dates.Date `gorm:"not null;uniqueIndex:uniq_alert_tenant_end" json:"agreement_end_date"`
	DaysRemaining    int        `gorm:"not null" json:"days_remaining"`
	IsRead           bool       `gorm:"default:false;index" json:"is_read"`
	CreatedAt        time.Time  `json:"created_at"`

	// Belongs to Tenant
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (Alert) TableName() string {
	return "alerts"
}

// ScanRunStatus represents the outcome of one scan tick
type ScanRunStatus string

const (
	ScanRunStatusCompleted ScanRunStatus = "completed"
	ScanRunStatusFailed    ScanRunStatus = "failed"
)

// ScanRun records one execution of the expiry scan for observability.
// A failed run keeps its error message; counters hold the per-row outcome.
type ScanRun struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UUID          string        `gorm:"uniqueIndex;not null" json:"uuid"`
	ScanDate      dates.Date    `gorm:"not null;index" json:"scan_date"`
	Trigger       string        `gorm:"type:varchar(20);not null" json:"trigger"` // scheduled, startup, manual
	Status        ScanRunStatus `gorm:"type:varchar(20);not null" json:"status"`
	Created       int           `gorm:"not null;default:0" json:"created"`
	AlreadyExists int           `gorm:"not null;default:0" json:"already_exists"`
	Failed        int           `gorm:"not null;default:0" json:"failed"`
	Error         string        `gorm:"type:text" json:"error,omitempty"`
	StartedAt     time.Time     `gorm:"not null" json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
}

func (ScanRun) TableName() string {
	return "scan_runs"
}
