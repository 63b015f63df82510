package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"careminder/internal/model"
)

// ErrNoCompletionToday is returned by DeleteLatestToday when the task has no
// completion dated today. Callers treat it as a normal outcome, not a store
// failure.
var ErrNoCompletionToday = errors.New("no completion to undo for today")

// CompletionRepository stores immutable completion events.
type CompletionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

func (r *CompletionRepository) Create(ctx context.Context, completion *model.Completion) error {
	if err := r.db.WithContext(ctx).Create(completion).Error; err != nil {
		return fmt.Errorf("create completion: %w", err)
	}
	return nil
}

// DeleteLatestToday removes the single most recent completion of the task
// dated today. The delete is keyed on the row's UUID inside a transaction, so
// two concurrent undos cannot both claim the same completion.
func (r *CompletionRepository) DeleteLatestToday(ctx context.Context, taskType model.TaskKind, parentUUID string, now time.Time) error {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest model.Completion
		err := tx.Where("task_type = ? AND parent_task_uuid = ? AND completed_at >= ? AND completed_at < ?",
			taskType, parentUUID, dayStart, dayEnd).
			Order("completed_at DESC").
			First(&latest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoCompletionToday
		}
		if err != nil {
			return fmt.Errorf("find latest completion: %w", err)
		}

		res := tx.Where("uuid = ?", latest.UUID).Delete(&model.Completion{})
		if res.Error != nil {
			return fmt.Errorf("delete completion: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race to a concurrent undo.
			return ErrNoCompletionToday
		}
		return nil
	})
}

// CountToday returns how many completions the task accumulated today.
func (r *CompletionRepository) CountToday(ctx context.Context, taskType model.TaskKind, parentUUID string, now time.Time) (int64, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Completion{}).
		Where("task_type = ? AND parent_task_uuid = ? AND completed_at >= ? AND completed_at < ?",
			taskType, parentUUID, dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return count, nil
}

// DistinctDays returns on how many distinct calendar days the task was
// completed at least once.
func (r *CompletionRepository) DistinctDays(ctx context.Context, taskType model.TaskKind, parentUUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Completion{}).
		Where("task_type = ? AND parent_task_uuid = ?", taskType, parentUUID).
		Distinct("date(completed_at)").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count completion days: %w", err)
	}
	return count, nil
}
