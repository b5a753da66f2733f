package services

import (
	"fmt"
	"log"
	"sort"

	"gorm.io/gorm"

	"github.com/leaseguard/leaseguard/internal/database"
	"github.com/leaseguard/leaseguard/internal/dates"
)

// DefaultThresholdDays is the default alerting window.
const DefaultThresholdDays = 30

// Agreement is the scanner's view of an active occupancy agreement.
type Agreement struct {
	TenantID     uint
	TenantName   string
	BuildingName string
	EndDate      dates.Date
}

// AgreementSource supplies the currently active agreements. The production
// implementation reads the tenant table; tests substitute their own.
type AgreementSource interface {
	ActiveAgreements() ([]Agreement, error)
}

// DBAgreementSource reads agreements from the record store.
type DBAgreementSource struct {
	db *gorm.DB
}

// NewDBAgreementSource creates an agreement source backed by the database.
func NewDBAgreementSource(db *gorm.DB) *DBAgreementSource {
	return &DBAgreementSource{db: db}
}

// ActiveAgreements returns all active agreements with building names resolved.
func (s *DBAgreementSource) ActiveAgreements() ([]Agreement, error) {
	rows, err := database.ListActiveAgreements(s.db)
	if err != nil {
		return nil, err
	}

	agreements := make([]Agreement, 0, len(rows))
	for _, row := range rows {
		agreements = append(agreements, Agreement{
			TenantID:     row.TenantID,
			TenantName:   row.TenantName,
			BuildingName: row.BuildingName,
			EndDate:      row.EndDate,
		})
	}
	return agreements, nil
}

// Candidate is an agreement that qualifies for an alert.
type Candidate struct {
	Agreement
	DaysRemaining int
}

// ScanForExpiring selects agreements whose end date falls within
// [today, today+threshold]. Already-expired agreements are excluded: expiry
// alerting is forward-looking only. Agreements with a missing end date are
// skipped and counted rather than failing the scan. Output is sorted by
// tenant id so results are deterministic for a given input.
func ScanForExpiring(today dates.Date, agreements []Agreement, threshold int) (candidates []Candidate, skipped int) {
	for _, a := range agreements {
		if a.EndDate.IsZero() {
			log.Printf("Expiry scan: tenant %d has no agreement end date, skipping", a.TenantID)
			skipped++
			continue
		}

		days := today.DaysUntil(a.EndDate)
		if days < 0 || days > threshold {
			continue
		}

		candidates = append(candidates, Candidate{Agreement: a, DaysRemaining: days})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TenantID < candidates[j].TenantID
	})
	return candidates, skipped
}

// AlertNotifier receives alerts as the scan creates them.
type AlertNotifier interface {
	AlertCreated(alert database.Alert)
}

// ScanSummary is the per-tick outcome report.
type ScanSummary struct {
	Scanned       int `json:"scanned"`
	Created       int `json:"created"`
	AlreadyExists int `json:"already_exists"`
	Failed        int `json:"failed"`
}

// ExpiryService runs the scan-and-alert pipeline.
type ExpiryService struct {
	db        *gorm.DB
	source    AgreementSource
	threshold int
	notifier  AlertNotifier
}

// NewExpiryService creates an expiry service. A threshold <= 0 falls back to
// the default window.
func NewExpiryService(db *gorm.DB, source AgreementSource, threshold int) *ExpiryService {
	if threshold <= 0 {
		threshold = DefaultThresholdDays
	}
	return &ExpiryService{db: db, source: source, threshold: threshold}
}

// SetNotifier registers a notifier for created alerts.
func (s *ExpiryService) SetNotifier(n AlertNotifier) {
	s.notifier = n
}

// Threshold returns the configured alerting window in days.
func (s *ExpiryService) Threshold() int {
	return s.threshold
}

// RunScan executes one tick: pull the active agreements, select candidates
// within the threshold window and ensure an alert for each.
//
// A source failure aborts the whole tick with an error; no partial alerts are
// committed and the next tick retries from scratch. Per-candidate store
// failures are isolated: each check-then-insert is its own short statement,
// a failed row is counted and skipped, and the rest of the scan proceeds.
// Running the scan N times for the same day yields the same alert set as
// running it once; the unique constraint absorbs overlapping runs.
func (s *ExpiryService) RunScan(today dates.Date) (ScanSummary, error) {
	agreements, err := s.source.ActiveAgreements()
	if err != nil {
		return ScanSummary{}, fmt.Errorf("agreement source unavailable: %w", err)
	}

	candidates, skipped := ScanForExpiring(today, agreements, s.threshold)
	summary := ScanSummary{Scanned: len(agreements), Failed: skipped}

	for _, c := range candidates {
		result, err := database.EnsureAlert(s.db, c.TenantID, c.EndDate, c.DaysRemaining, c.TenantName, c.BuildingName)
		if err != nil {
			log.Printf("Expiry scan: failed to persist alert for tenant %d: %v", c.TenantID, err)
			summary.Failed++
			continue
		}

		switch result {
		case database.AlertCreated:
			summary.Created++
			log.Printf("Expiry scan: alert created for tenant %s (%d days remaining)", c.TenantName, c.DaysRemaining)
			s.notifyCreated(c)
		case database.AlertAlreadyExists:
			summary.AlreadyExists++
		}
	}

	return summary, nil
}

// notifyCreated loads the persisted alert row and hands it to the notifier.
func (s *ExpiryService) notifyCreated(c Candidate) {
	if s.notifier == nil {
		return
	}

	var alert database.Alert
	err := s.db.Where("tenant_id = ? AND agreement_end_date = ?", c.TenantID, c.EndDate.Time()).
		First(&alert).Error
	if err != nil {
		log.Printf("Expiry scan: failed to load created alert for tenant %d: %v", c.TenantID, err)
		return
	}
	s.notifier.AlertCreated(alert)
}
