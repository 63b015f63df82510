package model

import "time"

// Completion records one performed occurrence of a task or medication. Many
// completions may exist per day per task; the only permitted mutation is the
// undo delete of the latest completion made today.
type Completion struct {
	ID             uint      `gorm:"primaryKey"`
	UUID           string    `gorm:"uniqueIndex;size:36"`
	TaskType       TaskKind  `gorm:"index:idx_completion_parent"`
	ParentTaskUUID string    `gorm:"index:idx_completion_parent;size:36"`
	CompletedAt    time.Time `gorm:"index"`
}
