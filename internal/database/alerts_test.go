package database

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leaseguard/leaseguard/internal/dates"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(&Building{}, &Tenant{}, &Alert{}, &ScanRun{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestTenant(t *testing.T, db *gorm.DB, name string, endDate dates.Date) *Tenant {
	t.Helper()

	building := &Building{Name: "Lakeview Apartments", NumberOfPortions: 4}
	if err := db.Create(building).Error; err != nil {
		t.Fatalf("failed to create building: %v", err)
	}

	tenant := &Tenant{
		Name:               name,
		Phone:              "5550100",
		PortionNumber:      "A1",
		BuildingID:         building.ID,
		AgreementStartDate: endDate.AddDays(-365),
		AgreementEndDate:   endDate,
		Active:             true,
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("failed to create tenant: %v", err)
	}
	return tenant
}

func TestEnsureAlert_CreatesOnce(t *testing.T) {
	db := setupTestDB(t)
	endDate := dates.New(2024, time.June, 11)
	tenant := createTestTenant(t, db, "Ravi", endDate)

	result, err := EnsureAlert(db, tenant.ID, endDate, 10, "Ravi", "Lakeview Apartments")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != AlertCreated {
		t.Errorf("expected %s, got %s", AlertCreated, result)
	}

	// Second call with the same dedup key is absorbed by the constraint.
	result, err = EnsureAlert(db, tenant.ID, endDate, 10, "Ravi", "Lakeview Apartments")
	if err != nil {
		t.Fatalf("unexpected error on duplicate: %v", err)
	}
	if result != AlertAlreadyExists {
		t.Errorf("expected %s, got %s", AlertAlreadyExists, result)
	}

	var count int64
	db.Model(&Alert{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 alert, got %d", count)
	}
}

func TestEnsureAlert_NewEndDateIsFreshIdentity(t *testing.T) {
	db := setupTestDB(t)
	oldEnd := dates.New(2024, time.June, 11)
	tenant := createTestTenant(t, db, "Ravi", oldEnd)

	if _, err := EnsureAlert(db, tenant.ID, oldEnd, 10, "Ravi", "Lakeview Apartments"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Renewal: same tenant, new end date.
	newEnd := dates.New(2024, time.July, 5)
	result, err := EnsureAlert(db, tenant.ID, newEnd, 24, "Ravi", "Lakeview Apartments")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != AlertCreated {
		t.Errorf("expected new end date to create a fresh alert, got %s", result)
	}

	var count int64
	db.Model(&Alert{}).Where("tenant_id = ?", tenant.ID).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 alerts after renewal, got %d", count)
	}

	// The original alert is untouched.
	var original Alert
	if err := db.Where("tenant_id = ? AND agreement_end_date = ?", tenant.ID, oldEnd.Time()).First(&original).Error; err != nil {
		t.Fatalf("original alert missing: %v", err)
	}
	if original.DaysRemaining != 10 {
		t.Errorf("original days_remaining changed: got %d", original.DaysRemaining)
	}
}

func TestEnsureAlert_ReadAlertStillBlocksDuplicate(t *testing.T) {
	db := setupTestDB(t)
	endDate := dates.New(2024, time.June, 11)
	tenant := createTestTenant(t, db, "Ravi", endDate)

	if _, err := EnsureAlert(db, tenant.ID, endDate, 10, "Ravi", "Lakeview Apartments"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var alert Alert
	db.First(&alert)
	if err := MarkAlertRead(db, alert.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	result, err := EnsureAlert(db, tenant.ID, endDate, 9, "Ravi", "Lakeview Apartments")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != AlertAlreadyExists {
		t.Errorf("read alert should still block duplicates, got %s", result)
	}
}

func TestMarkAlertRead_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	endDate := dates.New(2024, time.June, 11)
	tenant := createTestTenant(t, db, "Ravi", endDate)

	if _, err := EnsureAlert(db, tenant.ID, endDate, 10, "Ravi", "Lakeview Apartments"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var alert Alert
	db.First(&alert)

	if err := MarkAlertRead(db, alert.ID); err != nil {
		t.Fatalf("first mark read failed: %v", err)
	}
	if err := MarkAlertRead(db, alert.ID); err != nil {
		t.Fatalf("second mark read should be a no-op success, got: %v", err)
	}

	var updated Alert
	db.First(&updated, alert.ID)
	if !updated.IsRead {
		t.Error("expected alert to be read")
	}
}

func TestMarkAlertRead_NotFound(t *testing.T) {
	db := setupTestDB(t)

	err := MarkAlertRead(db, 9999)
	if !errors.Is(err, ErrAlertNotFound) {
		t.Errorf("expected ErrAlertNotFound, got %v", err)
	}
}

func TestListUnreadAlerts_OrderedByUrgency(t *testing.T) {
	db := setupTestDB(t)

	t1 := createTestTenant(t, db, "Ravi", dates.New(2024, time.June, 21))
	t2 := createTestTenant(t, db, "Meena", dates.New(2024, time.June, 6))
	t3 := createTestTenant(t, db, "Kumar", dates.New(2024, time.June, 16))

	EnsureAlert(db, t1.ID, t1.AgreementEndDate, 20, t1.Name, "B")
	EnsureAlert(db, t2.ID, t2.AgreementEndDate, 5, t2.Name, "B")
	EnsureAlert(db, t3.ID, t3.AgreementEndDate, 15, t3.Name, "B")

	alerts, err := ListUnreadAlerts(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}

	wantOrder := []int{5, 15, 20}
	for i, alert := range alerts {
		if alert.DaysRemaining != wantOrder[i] {
			t.Errorf("position %d: expected days_remaining %d, got %d", i, wantOrder[i], alert.DaysRemaining)
		}
	}
}

func TestListUnreadAlerts_ExcludesRead(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "Ravi", dates.New(2024, time.June, 11))

	EnsureAlert(db, tenant.ID, tenant.AgreementEndDate, 10, tenant.Name, "B")

	var alert Alert
	db.First(&alert)
	MarkAlertRead(db, alert.ID)

	unread, err := ListUnreadAlerts(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected no unread alerts, got %d", len(unread))
	}

	read, err := ListAlerts(db, AlertFilterRead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(read) != 1 {
		t.Errorf("expected 1 read alert, got %d", len(read))
	}
}

func TestListAlerts_Filters(t *testing.T) {
	db := setupTestDB(t)
	t1 := createTestTenant(t, db, "Ravi", dates.New(2024, time.June, 11))
	t2 := createTestTenant(t, db, "Meena", dates.New(2024, time.June, 16))

	EnsureAlert(db, t1.ID, t1.AgreementEndDate, 10, t1.Name, "B")
	EnsureAlert(db, t2.ID, t2.AgreementEndDate, 15, t2.Name, "B")

	var first Alert
	db.First(&first)
	MarkAlertRead(db, first.ID)

	all, _ := ListAlerts(db, AlertFilterAll)
	unread, _ := ListAlerts(db, AlertFilterUnread)
	read, _ := ListAlerts(db, AlertFilterRead)

	if len(all) != 2 || len(unread) != 1 || len(read) != 1 {
		t.Errorf("expected all=2 unread=1 read=1, got all=%d unread=%d read=%d",
			len(all), len(unread), len(read))
	}
}

func TestParseAlertFilter(t *testing.T) {
	if f, err := ParseAlertFilter(""); err != nil || f != AlertFilterAll {
		t.Errorf("empty filter: got %v, %v", f, err)
	}
	if f, err := ParseAlertFilter("unread"); err != nil || f != AlertFilterUnread {
		t.Errorf("unread filter: got %v, %v", f, err)
	}
	if _, err := ParseAlertFilter("bogus"); err == nil {
		t.Error("expected error for invalid filter")
	}
}

func TestCountUnreadAlerts(t *testing.T) {
	db := setupTestDB(t)
	t1 := createTestTenant(t, db, "Ravi", dates.New(2024, time.June, 11))

	count, err := CountUnreadAlerts(db)
	if err != nil || count != 0 {
		t.Fatalf("expected 0 unread, got %d (%v)", count, err)
	}

	EnsureAlert(db, t1.ID, t1.AgreementEndDate, 10, t1.Name, "B")

	count, err = CountUnreadAlerts(db)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 unread, got %d (%v)", count, err)
	}
}
