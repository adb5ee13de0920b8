package statuses

import (
	"errors"
	"time"

	"github.com/vigil-dev/vigil/internal/models"
	"github.com/vigil-dev/vigil/internal/types"
	"gorm.io/gorm"
)

// CreateMonitor creates a monitor with the given tags. Tag names not yet
// present are created; existing tags are shared. An initial Normal status is
// recorded in the same transaction, so every monitor always has at least one
// status. Fails with ErrMonitorExists on a duplicate name.
func (s *Service) CreateMonitor(name string, tagNames []string) (*models.Monitor, error) {
	var monitor models.Monitor

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Monitor

		if err := tx.Where("name = ?", name).First(&existing).Error; err == nil {
			return ErrMonitorExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		tags := make([]models.Tag, 0, len(tagNames))
		seen := make(map[string]bool, len(tagNames))

		for _, tagName := range tagNames {
			if seen[tagName] {
				continue
			}
			seen[tagName] = true

			var tag models.Tag

			if err := tx.Where(models.Tag{Name: tagName}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}

			tags = append(tags, tag)
		}

		monitor = models.Monitor{
			Name: name,
			Tags: tags,
			Statuses: []models.Status{
				{State: types.StateNormal, Timestamp: time.Now().UTC()},
			},
		}

		return tx.Create(&monitor).Error
	})

	if err != nil {
		return nil, err
	}

	return &monitor, nil
}

// AppendStatus records a new status for the monitor. Prior statuses are never
// touched; the history only grows. The timestamp is assigned here, not by the
// caller.
func (s *Service) AppendStatus(monitorID uint, state types.MonitorState, message *string) (*models.Status, error) {
	status := models.Status{
		MonitorID: monitorID,
		State:     state,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.findMonitor(tx, monitorID); err != nil {
			return err
		}

		return tx.Create(&status).Error
	})

	if err != nil {
		return nil, err
	}

	return &status, nil
}

// DeleteMonitor removes the monitor, its status history and its tag
// associations in one transaction. Shared tags survive; other monitors are
// untouched. The cascade is explicit (children, then parent) so it holds even
// where the store does not enforce declarative cascades.
func (s *Service) DeleteMonitor(monitorID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var monitor models.Monitor

		if err := tx.First(&monitor, monitorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMonitorNotFound
			}
			return err
		}

		if err := tx.Where("monitor_id = ?", monitorID).Delete(&models.Status{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&monitor).Association("Tags").Clear(); err != nil {
			return err
		}

		return tx.Delete(&monitor).Error
	})
}

func (s *Service) findMonitor(tx *gorm.DB, monitorID uint) error {
	var monitor models.Monitor

	if err := tx.First(&monitor, monitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMonitorNotFound
		}
		return err
	}

	return nil
}
