package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"careminder/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}, &model.Rule{}, &model.Completion{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, uuid, token string) {
	t.Helper()
	require.NoError(t, db.Create(&model.User{
		UUID:     uuid,
		Username: uuid,
		Email:    uuid + "@example.com",
		FCMToken: token,
	}).Error)
}

func seedTask(t *testing.T, db *gorm.DB, task model.Task) {
	t.Helper()
	require.NoError(t, db.Create(&task).Error)
}

func TestListDueRemindersFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	seedUser(t, db, "with-token", "tok-1")
	seedUser(t, db, "no-token", "")

	expired := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 7)

	rule := func(taskUUID string) *model.Rule {
		return &model.Rule{UUID: "rule-" + taskUUID, Kind: model.RuleOnce, StartTime: "09:00"}
	}

	seedTask(t, db, model.Task{UUID: "t-active", Kind: model.KindTask, Name: "due", Status: model.StatusActive,
		AssigneeUUID: "with-token", Rule: rule("t-active")})
	seedTask(t, db, model.Task{UUID: "t-future-valid", Kind: model.KindMedication, Name: "still valid", Status: model.StatusActive,
		AssigneeUUID: "with-token", ValidUntil: &future, Rule: rule("t-future-valid")})
	seedTask(t, db, model.Task{UUID: "t-expired", Kind: model.KindTask, Name: "expired", Status: model.StatusActive,
		AssigneeUUID: "with-token", ValidUntil: &expired, Rule: rule("t-expired")})
	seedTask(t, db, model.Task{UUID: "t-inactive", Kind: model.KindTask, Name: "paused", Status: model.StatusInactive,
		AssigneeUUID: "with-token", Rule: rule("t-inactive")})
	seedTask(t, db, model.Task{UUID: "t-deleted", Kind: model.KindTask, Name: "gone", Status: model.StatusDeleted,
		AssigneeUUID: "with-token", Rule: rule("t-deleted")})
	seedTask(t, db, model.Task{UUID: "t-unreachable", Kind: model.KindTask, Name: "no push", Status: model.StatusActive,
		AssigneeUUID: "no-token", Rule: rule("t-unreachable")})
	seedTask(t, db, model.Task{UUID: "t-ruleless", Kind: model.KindTask, Name: "no rule", Status: model.StatusActive,
		AssigneeUUID: "with-token"})

	rows, err := repo.ListDueReminders(ctx, now)
	require.NoError(t, err)

	got := make(map[string]model.ReminderRow, len(rows))
	for _, row := range rows {
		got[row.TaskUUID] = row
	}
	require.Len(t, got, 2)

	due, ok := got["t-active"]
	require.True(t, ok)
	assert.Equal(t, model.KindTask, due.Kind)
	assert.Equal(t, "tok-1", due.FCMToken)
	assert.Equal(t, model.RuleOnce, due.RuleKind)
	assert.Equal(t, "09:00", due.StartTime)

	_, ok = got["t-future-valid"]
	assert.True(t, ok)
}

func TestReplaceRuleKeepsSingleRule(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedUser(t, db, "u-1", "tok")
	seedTask(t, db, model.Task{UUID: "t-1", Kind: model.KindTask, Name: "task", Status: model.StatusActive,
		AssigneeUUID: "u-1", Rule: &model.Rule{UUID: "r-1", Kind: model.RuleOnce, StartTime: "08:00"}})

	require.NoError(t, repo.ReplaceRule(ctx, "t-1", &model.Rule{UUID: "r-2", Kind: model.RuleInterval, StartTime: "06:00", IntervalHours: 4}))

	var rules []model.Rule
	require.NoError(t, db.Where("task_uuid = ?", "t-1").Find(&rules).Error)
	require.Len(t, rules, 1)
	assert.Equal(t, "r-2", rules[0].UUID)
	assert.Equal(t, model.RuleInterval, rules[0].Kind)
}

func TestUpdateStatusUnknownTask(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)

	err := repo.UpdateStatus(context.Background(), "missing", model.StatusDeleted)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
