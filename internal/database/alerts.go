package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/leaseguard/leaseguard/internal/dates"
)

// ErrAlertNotFound is returned when an alert id does not exist.
var ErrAlertNotFound = errors.New("alert not found")

// EnsureResult is the outcome of an EnsureAlert call
type EnsureResult string

const (
	AlertCreated       EnsureResult = "created"
	AlertAlreadyExists EnsureResult = "already_exists"
)

// AlertFilter selects alerts by read state
type AlertFilter string

const (
	AlertFilterAll    AlertFilter = "all"
	AlertFilterUnread AlertFilter = "unread"
	AlertFilterRead   AlertFilter = "read"
)

// ParseAlertFilter validates a filter string, defaulting to "all".
func ParseAlertFilter(s string) (AlertFilter, error) {
	switch AlertFilter(s) {
	case "":
		return AlertFilterAll, nil
	case AlertFilterAll, AlertFilterUnread, AlertFilterRead:
		return AlertFilter(s), nil
	default:
		return "", fmt.Errorf("invalid alert filter %q", s)
	}
}

// EnsureAlert inserts an alert for (tenantID, endDate) unless one already
// exists. The unique index is the authority: the insert is attempted
// unconditionally and a duplicate-key error is absorbed as AlertAlreadyExists,
// which keeps the operation safe under overlapping scan runs. Read state does
// not factor in; a read alert still suppresses a duplicate for the same pair.
func EnsureAlert(db *gorm.DB, tenantID uint, endDate dates.Date, daysRemaining int, tenantName, buildingName string) (EnsureResult, error) {
	alert := &Alert{
		TenantID:         tenantID,
		TenantName:       tenantName,
		BuildingName:     buildingName,
		AgreementEndDate: endDate,
		DaysRemaining:    daysRemaining,
		IsRead:           false,
	}

	err := db.Create(alert).Error
	if err == nil {
		return AlertCreated, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return AlertAlreadyExists, nil
	}
	return "", fmt.Errorf("failed to create alert for tenant %d: %w", tenantID, err)
}

/// ListUnreadAlerts returns unread alerts most-urgent-first: ascending
// days-remaining snapshot, then ascending end date.
func ListUnreadAlerts(db *gorm.DB) ([]Alert, error) {
	var alerts []Alert
	err := db.Where("is_read = ?", false).
		Order("days_remaining ASC, agreement_end_date ASC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unread alerts: %w", err)
	}
	return alerts, nil
}

// ListAlerts returns alerts matching the read-state filter, newest first.
func ListAlerts(db *gorm.DB, filter AlertFilter) ([]Alert, error) {
	query := db.Order("created_at DESC, id DESC")
	switch filter {
	case AlertFilterUnread:
		query = query.Where("is_read = ?", false)
	case AlertFilterRead:
		query = query.Where("is_read = ?", true)
	}

	var alerts []Alert
	if err := query.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// MarkAlertRead marks an alert as read. Marking an already-read alert is a
// no-op success. Returns ErrAlertNotFound for an unknown id.
func MarkAlertRead(db *gorm.DB, id uint) error {
	var alert Alert
	if err := db.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		return fmt.Errorf("failed to load alert %d: %w", id, err)
	}

	if alert.IsRead {
		return nil
	}

	if err := db.Model(&alert).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark alert %d read: %w", id, err)
	}
	return nil
}

// CountUnreadAlerts returns the number of unread alerts.
func CountUnreadAlerts(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Alert{}).Where("is_read = ?", false).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread alerts: %w", err)
	}
	return count, nil
}
