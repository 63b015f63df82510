package model

import "time"

// TaskKind distinguishes ordinary tasks from medication tasks. The two share
// one schema; only notification wording differs.
type TaskKind string

const (
	KindTask       TaskKind = "task"
	KindMedication TaskKind = "medication"
)

// Task statuses. Tasks are never physically removed, only moved to
// StatusDeleted.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
)

// Task represents a scheduled item assigned to a user. Each task carries at
// most one current recurrence rule; updates replace the rule, never append.
type Task struct {
	ID           uint     `gorm:"primaryKey"`
	UUID         string   `gorm:"uniqueIndex;size:36"`
	Kind         TaskKind `gorm:"index;default:task"`
	Name         string
	Description  string
	Priority     int    `gorm:"default:2"`
	Status       string `gorm:"index;default:active"`
	SenderUUID   string `gorm:"size:36"`
	AssigneeUUID string `gorm:"index;size:36"`
	ValidUntil   *time.Time
	StartDate    *time.Time
	Rule         *Rule `gorm:"foreignKey:TaskUUID;references:UUID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsExpired reports whether the task's validity window has closed.
func (t Task) IsExpired(now time.Time) bool {
	return t.ValidUntil != nil && t.ValidUntil.Before(now)
}
