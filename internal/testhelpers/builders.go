package testhelpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/leaseguard/leaseguard/internal/database"
	"github.com/leaseguard/leaseguard/internal/dates"
)

// BuildingBuilder builds Building fixtures
type BuildingBuilder struct {
	building database.Building
}

// NewBuilding creates a building builder with sensible defaults
func NewBuilding() *BuildingBuilder {
	return &BuildingBuilder{
		building: database.Building{
			Name:             "Lakeview Apartments",
			NumberOfPortions: 4,
		},
	}
}

// WithName sets the building name
func (b *BuildingBuilder) WithName(name string) *BuildingBuilder {
	b.building.Name = name
	return b
}

// Create persists the building
func (b *BuildingBuilder) Create(t *testing.T, db *gorm.DB) *database.Building {
	t.Helper()
	building := b.building
	if err := db.Create(&building).Error; err != nil {
		t.Fatalf("failed to create building fixture: %v", err)
	}
	return &building
}

// TenantBuilder builds Tenant fixtures
type TenantBuilder struct {
	tenant database.Tenant
}

// NewTenant creates a tenant builder with sensible defaults. The agreement
// runs for one year ending on the given date.
func NewTenant(name string, endDate dates.Date) *TenantBuilder {
	return &TenantBuilder{
		tenant: database.Tenant{
			Name:               name,
			Phone:              "5550100",
			PortionNumber:      "A1",
			AgreementStartDate: endDate.AddDays(-365),
			AgreementEndDate:   endDate,
			Active:             true,
		},
	}
}

// InBuilding sets the building id
func (b *TenantBuilder) InBuilding(id uint) *TenantBuilder {
	b.tenant.BuildingID = id
	return b
}

// Inactive marks the agreement as inactive
func (b *TenantBuilder) Inactive() *TenantBuilder {
	b.tenant.Active = false
	return b
}

// Create persists the tenant, creating a default building if none was set
func (b *TenantBuilder) Create(t *testing.T, db *gorm.DB) *database.Tenant {
	t.Helper()
	tenant := b.tenant
	if tenant.BuildingID == 0 {
		building := NewBuilding().Create(t, db)
		tenant.BuildingID = building.ID
	}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("failed to create tenant fixture: %v", err)
	}
	return &tenant
}

// CreateAlert persists an alert fixture for the tenant
func CreateAlert(t *testing.T, db *gorm.DB, tenant *database.Tenant, daysRemaining int) *database.Alert {
	t.Helper()
	alert := &database.Alert{
		TenantID:         tenant.ID,
		TenantName:       tenant.Name,
		BuildingName:     "Lakeview Apartments",
		AgreementEndDate: tenant.AgreementEndDate,
		DaysRemaining:    daysRemaining,
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create alert fixture: %v", err)
	}
	return alert
}
