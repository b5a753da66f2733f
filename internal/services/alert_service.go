package services

import (
	"gorm.io/gorm"

	"github.com/leaseguard/leaseguard/internal/database"
)

// AlertService is the query interface over alert records consumed by the API.
// Alerts are immutable once created except for the read flag, so the surface
// is deliberately small: list, count and mark-read.
type AlertService struct {
	db *gorm.DB
}

// NewAlertService creates a new alert service
func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

// ListUnread returns unread alerts most-urgent-first.
func (s *AlertService) ListUnread() ([]database.Alert, error) {
	return database.ListUnreadAlerts(s.db)
}

// List returns alerts matching the read-state filter.
func (s *AlertService) List(filter database.AlertFilter) ([]database.Alert, error) {
	return database.ListAlerts(s.db, filter)
}

// MarkRead marks an alert read. Idempotent; database.ErrAlertNotFound for
// unknown ids.
func (s *AlertService) MarkRead(id uint) error {
	return database.MarkAlertRead(s.db, id)
}

// UnreadCount returns the number of unread alerts, for the dashboard badge.
func (s *AlertService) UnreadCount() (int64, error) {
	return database.CountUnreadAlerts(s.db)
}
