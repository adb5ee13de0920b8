package statuses

import (
	"github.com/vigil-dev/vigil/internal/models"
)

// History returns a page of the monitor's status records, newest first.
// Bounds on skip and limit are a boundary concern; a skip beyond the
// available count yields an empty page, not an error.
func (s *Service) History(monitorID uint, skip, limit int) ([]models.Status, error) {
	if err := s.findMonitor(s.db, monitorID); err != nil {
		return nil, err
	}

	var history []models.Status

	err := s.db.Where("monitor_id = ?", monitorID).
		Order("timestamp DESC").
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&history).Error

	if err != nil {
		return nil, err
	}

	return history, nil
}
