package statuses

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vigil-dev/vigil/db"
	"github.com/vigil-dev/vigil/internal/models"
	"github.com/vigil-dev/vigil/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite exists per connection; keep the pool at one so every
	// query sees the same database.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	return database
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	database := newTestDB(t)
	return NewService(database), database
}

func strptr(s string) *string {
	return &s
}

func TestCreateMonitorRecordsInitialNormalStatus(t *testing.T) {
	service, _ := newTestService(t)

	monitor, err := service.CreateMonitor("svc-a", []string{"prod", "web"})
	require.NoError(t, err)

	assert.NotZero(t, monitor.ID)
	assert.Equal(t, "svc-a", monitor.Name)
	require.Len(t, monitor.Statuses, 1)
	assert.Equal(t, types.StateNormal, monitor.Statuses[0].State)
	assert.Nil(t, monitor.Statuses[0].Message)

	latest, err := service.LatestStatusOf(monitor.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StateNormal, latest.State)
}

func TestCreateMonitorDuplicateNameFailsWithoutMutation(t *testing.T) {
	service, database := newTestService(t)

	_, err := service.CreateMonitor("svc-a", []string{"prod"})
	require.NoError(t, err)

	_, err = service.CreateMonitor("svc-a", []string{"staging"})
	assert.ErrorIs(t, err, ErrMonitorExists)

	var monitors, tags int64
	require.NoError(t, database.Model(&models.Monitor{}).Count(&monitors).Error)
	require.NoError(t, database.Model(&models.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(1), monitors)
	assert.Equal(t, int64(1), tags, "failed create must not add tags")
}

func TestCreateMonitorSharesExistingTags(t *testing.T) {
	service, database := newTestService(t)

	_, err := service.CreateMonitor("svc-a", []string{"prod", "web"})
	require.NoError(t, err)

	second, err := service.CreateMonitor("svc-b", []string{"prod", "db"})
	require.NoError(t, err)
	assert.Len(t, second.Tags, 2)

	var tags int64
	require.NoError(t, database.Model(&models.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(3), tags)
}

func TestCreateMonitorCollapsesDuplicateTagNames(t *testing.T) {
	service, _ := newTestService(t)

	monitor, err := service.CreateMonitor("svc-a", []string{"prod", "prod"})
	require.NoError(t, err)
	assert.Len(t, monitor.Tags, 1)
}

func TestAppendStatusUnknownMonitor(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.AppendStatus(999, types.StateNormal, nil)
	assert.ErrorIs(t, err, ErrMonitorNotFound)
}

func TestAppendStatusGrowsHistoryOnly(t *testing.T) {
	service, database := newTestService(t)

	monitor, err := service.CreateMonitor("svc-a", nil)
	require.NoError(t, err)

	first, err := service.AppendStatus(monitor.ID, types.StateWarning, strptr("high latency"))
	require.NoError(t, err)

	_, err = service.AppendStatus(monitor.ID, types.StateNormal, nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, database.Model(&models.Status{}).Where("monitor_id = ?", monitor.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count, "initial status plus two appends")

	var unchanged models.Status
	require.NoError(t, database.First(&unchanged, first.ID).Error)
	assert.Equal(t, types.StateWarning, unchanged.State)
	require.NotNil(t, unchanged.Message)
	assert.Equal(t, "high latency", *unchanged.Message)
}

func TestLatestStatusOfReturnsLastAppended(t *testing.T) {
	service, _ := newTestService(t)

	monitor, err := service.CreateMonitor("svc-a", nil)
	require.NoError(t, err)

	states := []types.MonitorState{
		types.StateWarning,
		types.StateCritical,
		types.StateNormal,
		types.StateNormal,
		types.StateMissingData,
	}

	for _, state := range states {
		_, err = service.AppendStatus(monitor.ID, state, nil)
		require.NoError(t, err)
	}

	latest, err := service.LatestStatusOf(monitor.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StateMissingData, latest.State)
}

func TestLatestStatusOfBreaksTimestampTiesByID(t *testing.T) {
	service, database := newTestService(t)

	monitor, err := service.CreateMonitor("svc-a", nil)
	require.NoError(t, err)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	older := models.Status{MonitorID: monitor.ID, State: types.StateCritical, Timestamp: ts}
	require.NoError(t, database.Create(&older).Error)

	newer := models.Status{MonitorID: monitor.ID, State: types.StateWarning, Timestamp: ts}
	require.NoError(t, database.Create(&newer).Error)

	// Wipe the initial status so the tied pair is all that remains.
	require.NoError(t, database.Where("monitor_id = ? AND id NOT IN ?", monitor.ID, []uint{older.ID, newer.ID}).Delete(&models.Status{}).Error)

	latest, err := service.LatestStatusOf(monitor.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID, "tie must go to the later insertion")
	assert.Equal(t, types.StateWarning, latest.State)

	bulk, err := service.LatestStatusOfAll()
	require.NoError(t, err)
	require.Contains(t, bulk, monitor.ID)
	assert.Equal(t, newer.ID, bulk[monitor.ID].ID)
}

func TestLatestStatusOfMonitorWithoutStatuses(t *testing.T) {
	service, database := newTestService(t)

	monitor, err := service.CreateMonitor("svc-a", nil)
	require.NoError(t, err)

	require.NoError(t, database.Where("monitor_id = ?", monitor.ID).Delete(&models.Status{}).Error)

	_, err = service.LatestStatusOf(monitor.ID)
	assert.ErrorIs(t, err, ErrNoStatus)

	_, err = service.LatestStatusOf(999)
	assert.ErrorIs(t, err, ErrMonitorNotFound)
}

func TestLatestStatusOfAllTouchesEachMonitorOnce(t *testing.T) {
	service, _ := newTestService(t)

	a, err := service.CreateMonitor("svc-a", nil)
	require.NoError(t, err)
	b, err := service.CreateMonitor("svc-b", nil)
	require.NoError(t, err)
	c, err := service.CreateMonitor("svc-c", nil)
	require.NoError(t, err)

	_, err = service.AppendStatus(a.ID, types.StateCritical, nil)
	require.NoError(t, err)
	_, err = service.AppendStatus(b.ID, types.StateWarning, nil)
	require.NoError(t, err)

	all, err := service.LatestStatusOfAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, types.StateCritical, all[a.ID].State)
	assert.Equal(t, types.StateWarning, all[b.ID].State)
	assert.Equal(t, types.StateNormal, all[c.ID].State)

	some, err := service.LatestStatusOfMany([]uint{a.ID, c.ID})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, types.StateCritical, some[a.ID].State)
	assert.NotContains(t, some, b.ID)

	none, err := service.LatestStatusOfMany(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMonitorsWithAllTagsIntersection(t *testing.T) {
	service, _ := newTestService(t)

	a, err := service.CreateMonitor("svc-a", []string{"prod", "web"})
	require.NoError(t, err)
	b, err := service.CreateMonitor("svc-b", []string{"prod", "db"})
	require.NoError(t, err)
	_, err = service.CreateMonitor("svc-c", []string{"staging", "web"})
	require.NoError(t, err)

	both, err := service.MonitorsWithAllTags([]string{"prod", "web"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID}, both)

	prod, err := service.MonitorsWithAllTags([]string{"prod"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, prod)
	assert.Subset(t, prod, both, "narrower filter must return a subset")
}

func TestMonitorsWithAllTagsDuplicateInputNames(t *testing.T) {
	service, _ := newTestService(t)

	a, err := service.CreateMonitor("svc-a", []string{"prod"})
	require.NoError(t, err)

	ids, err := service.MonitorsWithAllTags([]string{"prod", "prod"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID}, ids)
}

func TestMonitorsWithAllTagsUnknownAndEmpty(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateMonitor("svc-a", []string{"prod"})
	require.NoError(t, err)

	ids, err := service.MonitorsWithAllTags([]string{"nope"})
	require.NoError(t, err)
	assert.Empty(t, ids, "unknown tags contribute no matches, not an error")

	ids, err = service.MonitorsWithAllTags([]string{"prod", "nope"})
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = service.MonitorsWithAllTags(nil)
	assert.ErrorIs(t, err, ErrNoTags)
}

func TestTagsOfMonitorsBatch(t *testing.T) {
	service, _ := newTestService(t)

	a, err := service.CreateMonitor("svc-a", []string{"web", "prod"})
	require.NoError(t, err)
	b, err := service.CreateMonitor("svc-b", nil)
	require.NoError(t, err)

	tags, err := service.TagsOfMonitors([]uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"prod", "web"}, tags[a.ID])
	assert.NotContains(t, tags, b.ID)
}

func TestHistoryPagination(t *testing.T) {
	service, database := newTestService(t)

	monitor, err := service.CreateMonitor("svc-a", nil)
	require.NoError(t, err)

	require.NoError(t, database.Where("monitor_id = ?", monitor.ID).Delete(&models.Status{}).Error)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	states := []types.MonitorState{
		types.StateNormal,
		types.StateWarning,
		types.StateCritical,
		types.StateNormal,
		types.StateMissingData,
		types.StateWarning,
	}

	for i, state := range states {
		status := models.Status{
			MonitorID: monitor.ID,
			State:     state,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, database.Create(&status).Error)
	}

	page, err := service.History(monitor.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, types.StateWarning, page[0].State)
	assert.Equal(t, types.StateMissingData, page[1].State)

	page, err = service.History(monitor.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, types.StateNormal, page[0].State)
	assert.Equal(t, types.StateCritical, page[1].State)

	page, err = service.History(monitor.ID, 100, 10)
	require.NoError(t, err)
	assert.Empty(t, page, "skip past the end is an empty page, not an error")

	_, err = service.History(999, 0, 10)
	assert.ErrorIs(t, err, ErrMonitorNotFound)
}

func TestDeleteMonitorCascades(t *testing.T) {
	service, database := newTestService(t)

	doomed, err := service.CreateMonitor("svc-a", []string{"prod", "web"})
	require.NoError(t, err)
	survivor, err := service.CreateMonitor("svc-b", []string{"prod"})
	require.NoError(t, err)

	_, err = service.AppendStatus(doomed.ID, types.StateCritical, nil)
	require.NoError(t, err)
	_, err = service.AppendStatus(survivor.ID, types.StateWarning, nil)
	require.NoError(t, err)

	require.NoError(t, service.DeleteMonitor(doomed.ID))

	_, err = service.LatestStatusOf(doomed.ID)
	assert.ErrorIs(t, err, ErrMonitorNotFound)

	var orphaned int64
	require.NoError(t, database.Model(&models.Status{}).Where("monitor_id = ?", doomed.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned, "statuses must be cascaded")

	var associations int64
	require.NoError(t, database.Table("monitor_tags").Where("monitor_id = ?", doomed.ID).Count(&associations).Error)
	assert.Zero(t, associations, "tag associations must be cascaded")

	var tags int64
	require.NoError(t, database.Model(&models.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(2), tags, "shared tags must survive")

	latest, err := service.LatestStatusOf(survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StateWarning, latest.State)

	all, err := service.LatestStatusOfAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Contains(t, all, survivor.ID)
}

func TestDeleteMonitorUnknown(t *testing.T) {
	service, _ := newTestService(t)

	assert.ErrorIs(t, service.DeleteMonitor(999), ErrMonitorNotFound)
}

func TestByTagsComposesIndexAndResolver(t *testing.T) {
	service, _ := newTestService(t)

	a, err := service.CreateMonitor("svc-a", []string{"prod", "web"})
	require.NoError(t, err)
	_, err = service.CreateMonitor("svc-b", []string{"staging", "web"})
	require.NoError(t, err)

	_, err = service.AppendStatus(a.ID, types.StateWarning, strptr("high latency"))
	require.NoError(t, err)

	results, err := service.ByTags([]string{"prod", "web"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "svc-a", results[0].Name)
	assert.Equal(t, types.StateWarning, results[0].Status.State)
	assert.Equal(t, []string{"prod", "web"}, results[0].Tags)

	empty, err := service.ByTags([]string{"nope"})
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = service.ByTags(nil)
	assert.ErrorIs(t, err, ErrNoTags)
}

func TestByTagsExcludesStatuslessCandidates(t *testing.T) {
	service, database := newTestService(t)

	bare, err := service.CreateMonitor("svc-a", []string{"prod"})
	require.NoError(t, err)
	full, err := service.CreateMonitor("svc-b", []string{"prod"})
	require.NoError(t, err)

	require.NoError(t, database.Where("monitor_id = ?", bare.ID).Delete(&models.Status{}).Error)

	results, err := service.ByTags([]string{"prod"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, full.ID, results[0].MonitorID)
}

func TestAllOrdersByLatestTimestampDescending(t *testing.T) {
	service, database := newTestService(t)

	a, err := service.CreateMonitor("svc-a", nil)
	require.NoError(t, err)
	b, err := service.CreateMonitor("svc-b", nil)
	require.NoError(t, err)

	require.NoError(t, database.Where("monitor_id IN ?", []uint{a.ID, b.ID}).Delete(&models.Status{}).Error)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, database.Create(&models.Status{MonitorID: a.ID, State: types.StateNormal, Timestamp: base}).Error)
	require.NoError(t, database.Create(&models.Status{MonitorID: b.ID, State: types.StateCritical, Timestamp: base.Add(time.Hour)}).Error)

	results, err := service.All()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, b.ID, results[0].MonitorID)
	assert.Equal(t, a.ID, results[1].MonitorID)
}

func TestAllEmpty(t *testing.T) {
	service, _ := newTestService(t)

	results, err := service.All()
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestStatusOf(t *testing.T) {
	service, database := newTestService(t)

	monitor, err := service.CreateMonitor("svc-a", []string{"prod"})
	require.NoError(t, err)

	_, err = service.AppendStatus(monitor.ID, types.StateCritical, strptr("disk full"))
	require.NoError(t, err)

	result, err := service.StatusOf(monitor.ID)
	require.NoError(t, err)
	assert.Equal(t, "svc-a", result.Name)
	assert.Equal(t, types.StateCritical, result.Status.State)
	require.NotNil(t, result.Status.Message)
	assert.Equal(t, "disk full", *result.Status.Message)
	assert.Equal(t, []string{"prod"}, result.Tags)

	_, err = service.StatusOf(999)
	assert.ErrorIs(t, err, ErrMonitorNotFound)

	require.NoError(t, database.Where("monitor_id = ?", monitor.ID).Delete(&models.Status{}).Error)

	_, err = service.StatusOf(monitor.ID)
	assert.ErrorIs(t, err, ErrNoStatus)
}
