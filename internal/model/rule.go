package model

import "time"

// RuleKind enumerates the recurrence strategies. Unknown kinds are legal in
// the store and simply never fire.
type RuleKind string

const (
	RuleOnce      RuleKind = "once"
	RuleNTimes    RuleKind = "n_times"
	RuleInterval  RuleKind = "interval"
	RuleMealBased RuleKind = "meal_based"
	RuleBedtime   RuleKind = "bedtime"
	RuleDuration  RuleKind = "duration"
)

// Rule is the single current recurrence rule of a task. Which optional fields
// are populated depends on Kind; a rule missing a field its kind requires is
// not an error, it just never fires.
type Rule struct {
	ID            uint     `gorm:"primaryKey"`
	UUID          string   `gorm:"uniqueIndex;size:36"`
	TaskUUID      string   `gorm:"index;size:36"`
	Kind          RuleKind `gorm:"column:rule_type"`
	Count         int
	StartTime     string // "HH:MM", empty when unset
	IntervalHours int
	DurationDays  int
	Extras        string // raw JSON blob, empty when unset
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReminderRow is the flattened task+rule+token projection the scheduler
// evaluates each tick. It is produced by a single joined query, never stored.
type ReminderRow struct {
	TaskUUID      string
	Kind          TaskKind
	Name          string
	AssigneeUUID  string
	FCMToken      string
	RuleKind      RuleKind
	Count         int
	StartTime     string
	IntervalHours int
	DurationDays  int
	Extras        string
	CreatedAt     time.Time
}
