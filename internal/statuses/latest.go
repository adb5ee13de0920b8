package statuses

import (
	"errors"

	"github.com/vigil-dev/vigil/internal/models"
	"gorm.io/gorm"
)

// LatestStatusOf returns the most recent status of one monitor. It fails with
// ErrMonitorNotFound if the monitor is absent and ErrNoStatus if it has no
// recorded status. A timestamp tie goes to the higher id (later insertion).
func (s *Service) LatestStatusOf(monitorID uint) (*models.Status, error) {
	if err := s.findMonitor(s.db, monitorID); err != nil {
		return nil, err
	}

	return s.latestOf(monitorID)
}

func (s *Service) latestOf(monitorID uint) (*models.Status, error) {
	var status models.Status

	err := s.db.Where("monitor_id = ?", monitorID).
		Order("timestamp DESC").
		Order("id DESC").
		First(&status).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoStatus
		}
		return nil, err
	}

	return &status, nil
}

// LatestStatusOfAll returns monitor id -> latest status for every monitor
// that has one, resolved in a single query.
func (s *Service) LatestStatusOfAll() (map[uint]models.Status, error) {
	return s.latestStatuses(nil)
}

// LatestStatusOfMany returns monitor id -> latest status for the given ids,
// resolved in a single query. Ids without any status are simply absent from
// the result.
func (s *Service) LatestStatusOfMany(monitorIDs []uint) (map[uint]models.Status, error) {
	if len(monitorIDs) == 0 {
		return map[uint]models.Status{}, nil
	}

	return s.latestStatuses(monitorIDs)
}

// latestStatuses computes MAX(timestamp) per monitor and joins back to the
// full status rows, restricted to monitorIDs when given. Rows are scanned in
// id order so that on a timestamp tie the later insertion wins.
func (s *Service) latestStatuses(monitorIDs []uint) (map[uint]models.Status, error) {
	newest := s.db.Model(&models.Status{}).
		Select("monitor_id, MAX(timestamp) AS max_timestamp").
		Group("monitor_id")

	query := s.db.Model(&models.Status{}).
		Joins("JOIN (?) newest ON newest.monitor_id = statuses.monitor_id AND newest.max_timestamp = statuses.timestamp", newest).
		Order("statuses.id")

	if monitorIDs != nil {
		query = query.Where("statuses.monitor_id IN ?", monitorIDs)
	}

	var rows []models.Status

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	latest := make(map[uint]models.Status, len(rows))

	for _, status := range rows {
		latest[status.MonitorID] = status
	}

	return latest, nil
}
