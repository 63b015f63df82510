package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"careminder/internal/model"
	"careminder/internal/repository"
)

func newTaskService(t *testing.T, db *gorm.DB, now time.Time) *TaskService {
	t.Helper()
	return NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewCompletionRepository(db),
		func() time.Time { return now },
	)
}

func TestCreateTaskStoresRule(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := newTaskService(t, db, now)
	actor := &model.User{UUID: "actor-1", Role: model.RoleUser}

	task, err := svc.CreateTask(context.Background(), actor, TaskInput{
		Kind:         model.KindMedication,
		Name:         "ibuprofen",
		AssigneeUUID: "actor-1",
		Rule: RuleInput{
			Kind:          model.RuleNTimes,
			StartTime:     "08:00",
			IntervalHours: 6,
			Count:         3,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, task.Status)
	assert.Equal(t, "actor-1", task.SenderUUID)

	stored, err := svc.GetTask(context.Background(), task.UUID)
	require.NoError(t, err)
	require.NotNil(t, stored.Rule)
	assert.Equal(t, model.RuleNTimes, stored.Rule.Kind)
	assert.Equal(t, 6, stored.Rule.IntervalHours)
}

func TestUpdateTaskReplacesRule(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(t, db, time.Now())
	actor := &model.User{UUID: "actor-1", Role: model.RoleUser}
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, actor, TaskInput{
		Name:         "walk",
		AssigneeUUID: "actor-1",
		Rule:         RuleInput{Kind: model.RuleOnce, StartTime: "09:00"},
	})
	require.NoError(t, err)

	newName := "evening walk"
	_, err = svc.UpdateTask(ctx, actor, task.UUID, TaskUpdate{
		Name: &newName,
		Rule: &RuleInput{Kind: model.RuleBedtime, Extras: `{"bedtime_time":"21:30"}`},
	})
	require.NoError(t, err)

	stored, err := svc.GetTask(ctx, task.UUID)
	require.NoError(t, err)
	assert.Equal(t, "evening walk", stored.Name)
	require.NotNil(t, stored.Rule)
	assert.Equal(t, model.RuleBedtime, stored.Rule.Kind)

	// Exactly one rule row remains; replace never appends.
	var count int64
	require.NoError(t, db.Model(&model.Rule{}).Where("task_uuid = ?", task.UUID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateTaskPermission(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(t, db, time.Now())
	ctx := context.Background()
	sender := &model.User{UUID: "sender-1", Role: model.RoleUser}

	task, err := svc.CreateTask(ctx, sender, TaskInput{
		Name:         "stretch",
		AssigneeUUID: "patient-1",
		Rule:         RuleInput{Kind: model.RuleOnce, StartTime: "09:00"},
	})
	require.NoError(t, err)

	stranger := &model.User{UUID: "other-1", Role: model.RoleUser}
	status := model.StatusInactive
	_, err = svc.UpdateTask(ctx, stranger, task.UUID, TaskUpdate{Status: &status})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// A caretaker may mutate anyone's task.
	caretaker := &model.User{UUID: "care-1", Role: model.RoleCaretaker}
	_, err = svc.UpdateTask(ctx, caretaker, task.UUID, TaskUpdate{Status: &status})
	require.NoError(t, err)
}

func TestDeleteTaskIsSoft(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(t, db, time.Now())
	ctx := context.Background()
	actor := &model.User{UUID: "actor-1", Role: model.RoleAdmin}

	task, err := svc.CreateTask(ctx, actor, TaskInput{
		Name:         "old task",
		AssigneeUUID: "actor-1",
		Rule:         RuleInput{Kind: model.RuleOnce, StartTime: "09:00"},
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTask(ctx, actor, task.UUID))

	stored, err := svc.GetTask(ctx, task.UUID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDeleted, stored.Status)

	listed, err := svc.ListTasks(ctx, "actor-1", model.KindTask)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListTasksComputesAggregates(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	svc := newTaskService(t, db, now)
	completions := NewCompletionService(repository.NewCompletionRepository(db), func() time.Time { return now })
	ctx := context.Background()
	actor := &model.User{UUID: "actor-1", Role: model.RoleUser}

	task, err := svc.CreateTask(ctx, actor, TaskInput{
		Name:         "vitamins",
		Kind:         model.KindMedication,
		AssigneeUUID: "actor-1",
		Rule:         RuleInput{Kind: model.RuleBedtime},
	})
	require.NoError(t, err)

	// Two completions today, one two days ago.
	_, err = completions.Record(ctx, model.KindMedication, task.UUID)
	require.NoError(t, err)
	_, err = completions.Record(ctx, model.KindMedication, task.UUID)
	require.NoError(t, err)
	earlier := NewCompletionService(repository.NewCompletionRepository(db), func() time.Time { return now.AddDate(0, 0, -2) })
	_, err = earlier.Record(ctx, model.KindMedication, task.UUID)
	require.NoError(t, err)

	listed, err := svc.ListTasks(ctx, "actor-1", model.KindMedication)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.EqualValues(t, 2, listed[0].CompletedToday)
	assert.EqualValues(t, 2, listed[0].TotalDaysCompleted)
}
