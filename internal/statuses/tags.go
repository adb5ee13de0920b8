package statuses

// MonitorsWithAllTags resolves the set of monitor ids whose tag set is a
// superset of tagNames (intersection semantics). Tag names unknown to the
// system contribute no matches and are not an error; an empty input set is.
// Duplicate input names are collapsed so they cannot inflate the required
// match count.
func (s *Service) MonitorsWithAllTags(tagNames []string) ([]uint, error) {
	distinct := dedupe(tagNames)

	if len(distinct) == 0 {
		return nil, ErrNoTags
	}

	var monitorIDs []uint

	err := s.db.Table("monitor_tags").
		Joins("JOIN tags ON tags.id = monitor_tags.tag_id").
		Where("tags.name IN ?", distinct).
		Group("monitor_tags.monitor_id").
		Having("COUNT(DISTINCT tags.id) = ?", len(distinct)).
		Pluck("monitor_tags.monitor_id", &monitorIDs).Error

	if err != nil {
		return nil, err
	}

	return monitorIDs, nil
}

// TagsOfMonitors returns monitor id -> tag names for the given ids in one
// joined query, instead of walking each monitor's association.
func (s *Service) TagsOfMonitors(monitorIDs []uint) (map[uint][]string, error) {
	tags := make(map[uint][]string, len(monitorIDs))

	if len(monitorIDs) == 0 {
		return tags, nil
	}

	var rows []struct {
		MonitorID uint
		Name      string
	}

	err := s.db.Table("monitor_tags").
		Select("monitor_tags.monitor_id, tags.name").
		Joins("JOIN tags ON tags.id = monitor_tags.tag_id").
		Where("monitor_tags.monitor_id IN ?", monitorIDs).
		Order("tags.name").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		tags[row.MonitorID] = append(tags[row.MonitorID], row.Name)
	}

	return tags, nil
}

func dedupe(names []string) []string {
	distinct := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		distinct = append(distinct, name)
	}

	return distinct
}
