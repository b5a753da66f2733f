package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/leaseguard/leaseguard/internal/dates"
)

// ErrTenantNotFound is returned when a tenant id does not exist.
var ErrTenantNotFound = errors.New("tenant not found")

// AgreementRow is the read-only view of an active occupancy agreement
// consumed by the expiry scan: identity, display metadata and end date.
type AgreementRow struct {
	TenantID     uint       `json:"tenant_id"`
	TenantName   string     `json:"tenant_name"`
	BuildingName string     `json:"building_name"`
	EndDate      dates.Date `json:"agreement_end_date"`
}

// ListActiveAgreements returns all active agreements with their building
// names resolved. This single snapshot query is the only join the alerting
// core performs against the record store.
func ListActiveAgreements(db *gorm.DB) ([]AgreementRow, error) {
	var rows []AgreementRow
	err := db.Model(&Tenant{}).
		Select("tenants.id AS tenant_id, tenants.name AS tenant_name, buildings.name AS building_name, tenants.agreement_end_date AS end_date").
		Joins("LEFT JOIN buildings ON buildings.id = tenants.building_id").
		Where("tenants.active = ?", true).
		Order("tenants.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query active agreements: %w", err)
	}
	return rows, nil
}

// GetTenant loads a tenant by id with its building.
func GetTenant(db *gorm.DB, id uint) (*Tenant, error) {
	var tenant Tenant
	if err := db.Preload("Building").First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to load tenant %d: %w", id, err)
	}
	return &tenant, nil
}

// ListTenants returns tenants, optionally filtered by building.
func ListTenants(db *gorm.DB, buildingID uint) ([]Tenant, error) {
	query := db.Preload("Building").Order("id ASC")
	if buildingID > 0 {
		query = query.Where("building_id = ?", buildingID)
	}

	var tenants []Tenant
	if err := query.Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// ListExpiringTenants returns active tenants whose agreement ends within the
// given number of days from today, soonest first.
func ListExpiringTenants(db *gorm.DB, today dates.Date, days int) ([]Tenant, error) {
	cutoff := today.AddDays(days)

	var tenants []Tenant
	err := db.Preload("Building").
		Where("active = ? AND agreement_end_date >= ? AND agreement_end_date <= ?",
			true, today.Time(), cutoff.Time()).
		Order("agreement_end_date ASC, id ASC").
		Find(&tenants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring tenants: %w", err)
	}
	return tenants, nil
}

// CreateTenant inserts a new tenant record.
func CreateTenant(db *gorm.DB, tenant *Tenant) error {
	if err := db.Create(tenant).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// UpdateTenant applies field updates to a tenant. Changing the agreement end
// date here is the renewal path: existing alerts keep their old end-date
// identity and the new date becomes eligible for its own alert.
func UpdateTenant(db *gorm.DB, id uint, updates map[string]interface{}) (*Tenant, error) {
	tenant, err := GetTenant(db, id)
	if err != nil {
		return nil, err
	}

	if err := db.Model(tenant).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update tenant %d: %w", id, err)
	}
	return GetTenant(db, id)
}

// DeleteTenant removes a tenant and cascades to its alerts. The delete runs
// in a transaction so the alert rows never outlive their parent even on
// backends without foreign-key enforcement.
func DeleteTenant(db *gorm.DB, id uint) error {
	if _, err := GetTenant(db, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", id).Delete(&Alert{}).Error; err != nil {
			return fmt.Errorf("failed to delete alerts for tenant %d: %w", id, err)
		}
		if err := tx.Delete(&Tenant{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete tenant %d: %w", id, err)
		}
		return nil
	})
}

// CreateBuilding inserts a new building record.
func CreateBuilding(db *gorm.DB, building *Building) error {
	if err := db.Create(building).Error; err != nil {
		return fmt.Errorf("failed to create building: %w", err)
	}
	return nil
}

// ListBuildings returns all buildings.
func ListBuildings(db *gorm.DB) ([]Building, error) {
	var buildings []Building
	if err := db.Order("id ASC").Find(&buildings).Error; err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}
