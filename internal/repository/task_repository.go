package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"careminder/internal/model"
)

// TaskRepository handles CRUD for tasks and their current rule.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores a task together with its rule in one transaction.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByUUID(ctx context.Context, taskUUID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Rule").Where("uuid = ?", taskUUID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByAssignee returns the assignee's tasks of one kind, newest first,
// excluding deleted and completed ones.
func (r *TaskRepository) ListByAssignee(ctx context.Context, assigneeUUID string, kind model.TaskKind) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Rule").
		Where("assignee_uuid = ? AND kind = ? AND status NOT IN ?", assigneeUUID, kind,
			[]string{model.StatusDeleted, model.StatusCompleted}).
		Order("start_date, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Save persists field updates of an already-loaded task.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// UpdateStatus performs a status transition without touching other fields.
func (r *TaskRepository) UpdateStatus(ctx context.Context, taskUUID, status string) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("uuid = ?", taskUUID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update task status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceRule swaps the task's current rule for a new one. The system keeps
// exactly one rule per task, so the old row is removed in the same
// transaction.
func (r *TaskRepository) ReplaceRule(ctx context.Context, taskUUID string, rule *model.Rule) error {
	rule.TaskUUID = taskUUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_uuid = ?", taskUUID).Delete(&model.Rule{}).Error; err != nil {
			return err
		}
		return tx.Create(rule).Error
	})
	if err != nil {
		return fmt.Errorf("replace rule: %w", err)
	}
	return nil
}

// ListDueReminders fetches every active, unexpired task whose assignee can
// receive pushes, joined with its rule and token. One query per tick; the
// evaluator never goes back to the store per item.
func (r *TaskRepository) ListDueReminders(ctx context.Context, now time.Time) ([]model.ReminderRow, error) {
	var rows []model.ReminderRow
	err := r.db.WithContext(ctx).
		Table("tasks AS t").
		Select(`t.uuid AS task_uuid, t.kind, t.name, t.assignee_uuid, u.fcm_token,
			r.rule_type AS rule_kind, r.count, r.start_time, r.interval_hours, r.duration_days, r.extras,
			t.created_at`).
		Joins("JOIN rules r ON r.task_uuid = t.uuid").
		Joins("JOIN users u ON u.uuid = t.assignee_uuid").
		Where("t.status = ? AND (t.valid_until IS NULL OR t.valid_until >= ?)", model.StatusActive, now).
		Where("u.fcm_token <> ''").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	return rows, nil
}
