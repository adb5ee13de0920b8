package statuses

import (
	"errors"
	"sort"

	"github.com/vigil-dev/vigil/internal/models"
	"gorm.io/gorm"
)

// MonitorStatus pairs a monitor with its latest status and full tag list.
type MonitorStatus struct {
	MonitorID uint
	Name      string
	Status    models.Status
	Tags      []string
}

// ByTags returns the latest status of every monitor whose tag set contains
// all of tagNames, newest first. Candidates are resolved by the tag index,
// their statuses by one bulk query, and their tag lists by another; a
// candidate with no recorded status is not in any state and is excluded.
func (s *Service) ByTags(tagNames []string) ([]MonitorStatus, error) {
	monitorIDs, err := s.MonitorsWithAllTags(tagNames)

	if err != nil {
		return nil, err
	}

	if len(monitorIDs) == 0 {
		return []MonitorStatus{}, nil
	}

	latest, err := s.LatestStatusOfMany(monitorIDs)

	if err != nil {
		return nil, err
	}

	return s.assemble(latest)
}

// StatusOf returns one monitor with its latest status and tag list. It fails
// with ErrMonitorNotFound if the monitor is absent and ErrNoStatus if it has
// no recorded status.
func (s *Service) StatusOf(monitorID uint) (*MonitorStatus, error) {
	var monitor models.Monitor

	if err := s.db.First(&monitor, monitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMonitorNotFound
		}
		return nil, err
	}

	status, err := s.latestOf(monitorID)

	if err != nil {
		return nil, err
	}

	tags, err := s.TagsOfMonitors([]uint{monitorID})

	if err != nil {
		return nil, err
	}

	monitorTags := tags[monitorID]

	if monitorTags == nil {
		monitorTags = []string{}
	}

	return &MonitorStatus{
		MonitorID: monitor.ID,
		Name:      monitor.Name,
		Status:    *status,
		Tags:      monitorTags,
	}, nil
}

// All returns the latest status of every monitor that has one, newest first.
// No monitors is an empty result, not an error.
func (s *Service) All() ([]MonitorStatus, error) {
	latest, err := s.LatestStatusOfAll()

	if err != nil {
		return nil, err
	}

	return s.assemble(latest)
}

func (s *Service) assemble(latest map[uint]models.Status) ([]MonitorStatus, error) {
	if len(latest) == 0 {
		return []MonitorStatus{}, nil
	}

	monitorIDs := make([]uint, 0, len(latest))

	for monitorID := range latest {
		monitorIDs = append(monitorIDs, monitorID)
	}

	var monitors []models.Monitor

	if err := s.db.Where("id IN ?", monitorIDs).Find(&monitors).Error; err != nil {
		return nil, err
	}

	tags, err := s.TagsOfMonitors(monitorIDs)

	if err != nil {
		return nil, err
	}

	results := make([]MonitorStatus, 0, len(monitors))

	for _, monitor := range monitors {
		status, ok := latest[monitor.ID]

		if !ok {
			continue
		}

		monitorTags := tags[monitor.ID]

		if monitorTags == nil {
			monitorTags = []string{}
		}

		results = append(results, MonitorStatus{
			MonitorID: monitor.ID,
			Name:      monitor.Name,
			Status:    status,
			Tags:      monitorTags,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Status.Timestamp.Equal(results[j].Status.Timestamp) {
			return results[i].Status.ID > results[j].Status.ID
		}
		return results[i].Status.Timestamp.After(results[j].Status.Timestamp)
	})

	return results, nil
}
