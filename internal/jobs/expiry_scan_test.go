package jobs

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/leaseguard/leaseguard/internal/database"
	"github.com/leaseguard/leaseguard/internal/dates"
	"github.com/leaseguard/leaseguard/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(&database.Building{}, &database.Tenant{}, &database.Alert{}, &database.ScanRun{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type stubSource struct {
	agreements []services.Agreement
	err        error
}

func (s *stubSource) ActiveAgreements() ([]services.Agreement, error) {
	return s.agreements, s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRunOnce_CreatesAlertsAndRecordsRun(t *testing.T) {
	db := setupTestDB(t)

	source := &stubSource{agreements: []services.Agreement{
		{TenantID: 1, TenantName: "Ravi", BuildingName: "Lakeview", EndDate: dates.New(2024, time.June, 11)},
	}}
	expiry := services.NewExpiryService(db, source, 30)

	job := NewExpiryScanJob(db, expiry, "09:00", false, time.UTC)
	job.SetClock(fixedClock(time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)))

	summary, err := job.RunOnce(TriggerManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Created != 1 {
		t.Errorf("expected 1 created alert, got %+v", summary)
	}

	var run database.ScanRun
	if err := db.First(&run).Error; err != nil {
		t.Fatalf("expected a scan run row: %v", err)
	}
	if run.Status != database.ScanRunStatusCompleted {
		t.Errorf("expected completed run, got %s", run.Status)
	}
	if run.Trigger != TriggerManual {
		t.Errorf("expected manual trigger, got %s", run.Trigger)
	}
	if run.Created != 1 || run.AlreadyExists != 0 || run.Failed != 0 {
		t.Errorf("unexpected counters: %+v", run)
	}
	if !run.ScanDate.Equal(dates.New(2024, time.June, 1)) {
		t.Errorf("expected scan date 2024-06-01, got %s", run.ScanDate)
	}
	if run.UUID == "" {
		t.Error("expected run UUID to be set")
	}
}

func TestRunOnce_RepeatedRunsAreIdempotent(t *testing.T) {
	db := setupTestDB(t)

	source := &stubSource{agreements: []services.Agreement{
		{TenantID: 1, TenantName: "Ravi", BuildingName: "Lakeview", EndDate: dates.New(2024, time.June, 11)},
	}}
	expiry := services.NewExpiryService(db, source, 30)

	job := NewExpiryScanJob(db, expiry, "09:00", false, time.UTC)
	job.SetClock(fixedClock(time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)))

	for i := 0; i < 3; i++ {
		if _, err := job.RunOnce(TriggerScheduled); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	var alertCount int64
	db.Model(&database.Alert{}).Count(&alertCount)
	if alertCount != 1 {
		t.Errorf("expected exactly 1 alert after 3 runs, got %d", alertCount)
	}

	var runCount int64
	db.Model(&database.ScanRun{}).Count(&runCount)
	if runCount != 3 {
		t.Errorf("expected 3 recorded runs, got %d", runCount)
	}

	var last database.ScanRun
	db.Order("id DESC").First(&last)
	if last.Created != 0 || last.AlreadyExists != 1 {
		t.Errorf("later runs should report already_exists: %+v", last)
	}
}

func TestRunOnce_SourceFailureRecordedAsFailedRun(t *testing.T) {
	db := setupTestDB(t)

	source := &stubSource{err: errors.New("store unavailable")}
	expiry := services.NewExpiryService(db, source, 30)

	job := NewExpiryScanJob(db, expiry, "09:00", false, time.UTC)
	job.SetClock(fixedClock(time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)))

	if _, err := job.RunOnce(TriggerScheduled); err == nil {
		t.Fatal("expected error from failed source")
	}

	var run database.ScanRun
	if err := db.First(&run).Error; err != nil {
		t.Fatalf("failed run should still be recorded: %v", err)
	}
	if run.Status != database.ScanRunStatusFailed {
		t.Errorf("expected failed status, got %s", run.Status)
	}
	if run.Error == "" {
		t.Error("expected error message on failed run")
	}
}

func TestStart_CatchUpRunsOnStartup(t *testing.T) {
	db := setupTestDB(t)

	source := &stubSource{agreements: []services.Agreement{
		{TenantID: 1, TenantName: "Ravi", BuildingName: "Lakeview", EndDate: dates.New(2024, time.June, 11)},
	}}
	expiry := services.NewExpiryService(db, source, 30)

	job := NewExpiryScanJob(db, expiry, "09:00", true, time.UTC)
	job.SetClock(fixedClock(time.Date(2024, time.June, 1, 17, 30, 0, 0, time.UTC)))

	if err := job.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer job.Stop()

	// The catch-up run is asynchronous; poll briefly for its scan run row.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var count int64
		db.Model(&database.ScanRun{}).Where("trigger = ?", TriggerStartup).Count(&count)
		if count == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected a startup catch-up run to be recorded")
}

func TestStart_InvalidScanTime(t *testing.T) {
	db := setupTestDB(t)
	expiry := services.NewExpiryService(db, &stubSource{}, 30)

	for _, bad := range []string{"9", "25:00", "09:99", "nine am"} {
		job := NewExpiryScanJob(db, expiry, bad, false, time.UTC)
		if err := job.Start(); err == nil {
			job.Stop()
			t.Errorf("expected error for scan time %q", bad)
		}
	}
}

func TestParseScanTime(t *testing.T) {
	hour, minute, err := parseScanTime("09:00")
	if err != nil || hour != 9 || minute != 0 {
		t.Errorf("expected 9:00, got %d:%d (%v)", hour, minute, err)
	}

	hour, minute, err = parseScanTime("23:59")
	if err != nil || hour != 23 || minute != 59 {
		t.Errorf("expected 23:59, got %d:%d (%v)", hour, minute, err)
	}
}
