package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"careminder/internal/model"
	"careminder/internal/repository"
	"careminder/internal/rule"
)

// ErrPermissionDenied signals the actor may not mutate the targeted task.
var ErrPermissionDenied = errors.New("permission denied")

// RuleInput carries the recurrence rule attached to a task. Fields irrelevant
// to the kind are ignored; missing required fields are not rejected, the rule
// simply never fires.
type RuleInput struct {
	Kind          model.RuleKind
	Count         int
	StartTime     string
	IntervalHours int
	DurationDays  int
	Extras        string
}

// TaskInput represents data required to create a task or medication task.
type TaskInput struct {
	Kind         model.TaskKind
	Name         string
	Description  string
	Priority     int
	AssigneeUUID string
	ValidUntil   *time.Time
	StartDate    *time.Time
	Rule         RuleInput
}

// TaskUpdate carries a partial update; nil fields are left untouched. A
// non-nil Rule replaces the current rule wholesale.
type TaskUpdate struct {
	Name        *string
	Description *string
	Priority    *int
	Status      *string
	ValidUntil  *time.Time
	StartDate   *time.Time
	Rule        *RuleInput
}

// TaskWithStats pairs a task with its computed completion aggregates. The
// aggregates are derived per request, never stored.
type TaskWithStats struct {
	Task               model.Task
	CompletedToday     int64
	TotalDaysCompleted int64
}

// TaskService wraps task lifecycle logic shared by tasks and medications.
type TaskService struct {
	taskRepo       *repository.TaskRepository
	completionRepo *repository.CompletionRepository
	clock          rule.Clock
}

func NewTaskService(taskRepo *repository.TaskRepository, completionRepo *repository.CompletionRepository, clock rule.Clock) *TaskService {
	if clock == nil {
		clock = rule.SystemClock
	}
	return &TaskService{taskRepo: taskRepo, completionRepo: completionRepo, clock: clock}
}

func (s *TaskService) CreateTask(ctx context.Context, actor *model.User, input TaskInput) (*model.Task, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.AssigneeUUID == "" {
		return nil, fmt.Errorf("assignee is required")
	}
	if input.Kind == "" {
		input.Kind = model.KindTask
	}
	if input.Priority == 0 {
		input.Priority = 2
	}

	task := model.Task{
		UUID:         uuid.NewString(),
		Kind:         input.Kind,
		Name:         input.Name,
		Description:  input.Description,
		Priority:     input.Priority,
		Status:       model.StatusActive,
		SenderUUID:   actor.UUID,
		AssigneeUUID: input.AssigneeUUID,
		ValidUntil:   input.ValidUntil,
		StartDate:    input.StartDate,
		Rule:         newRule(input.Rule),
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask patches task fields and, when a rule is supplied, replaces the
// current rule. Only the sender or a privileged role may mutate a task.
func (s *TaskService) UpdateTask(ctx context.Context, actor *model.User, taskUUID string, update TaskUpdate) (*model.Task, error) {
	task, err := s.taskRepo.FindByUUID(ctx, taskUUID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModifyTask(task.SenderUUID) {
		return nil, ErrPermissionDenied
	}

	if update.Name != nil {
		task.Name = *update.Name
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Status != nil {
		if !validStatus(*update.Status) {
			return nil, fmt.Errorf("invalid status %q", *update.Status)
		}
		task.Status = *update.Status
	}
	if update.ValidUntil != nil {
		task.ValidUntil = update.ValidUntil
	}
	if update.StartDate != nil {
		task.StartDate = update.StartDate
	}

	if update.Rule != nil {
		replacement := newRule(*update.Rule)
		if err := s.taskRepo.ReplaceRule(ctx, task.UUID, replacement); err != nil {
			return nil, err
		}
		task.Rule = replacement
	}

	// Avoid re-saving the association; the rule is managed explicitly above.
	saved := *task
	saved.Rule = nil
	if err := s.taskRepo.Save(ctx, &saved); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask soft-deletes: the row stays, only the status moves.
func (s *TaskService) DeleteTask(ctx context.Context, actor *model.User, taskUUID string) error {
	task, err := s.taskRepo.FindByUUID(ctx, taskUUID)
	if err != nil {
		return err
	}
	if !actor.CanModifyTask(task.SenderUUID) {
		return ErrPermissionDenied
	}
	return s.taskRepo.UpdateStatus(ctx, taskUUID, model.StatusDeleted)
}

func (s *TaskService) GetTask(ctx context.Context, taskUUID string) (*model.Task, error) {
	return s.taskRepo.FindByUUID(ctx, taskUUID)
}

// ListTasks returns the assignee's open tasks of one kind with completion
// aggregates attached.
func (s *TaskService) ListTasks(ctx context.Context, assigneeUUID string, kind model.TaskKind) ([]TaskWithStats, error) {
	tasks, err := s.taskRepo.ListByAssignee(ctx, assigneeUUID, kind)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	out := make([]TaskWithStats, 0, len(tasks))
	for _, task := range tasks {
		today, err := s.completionRepo.CountToday(ctx, task.Kind, task.UUID, now)
		if err != nil {
			return nil, err
		}
		days, err := s.completionRepo.DistinctDays(ctx, task.Kind, task.UUID)
		if err != nil {
			return nil, err
		}
		out = append(out, TaskWithStats{Task: task, CompletedToday: today, TotalDaysCompleted: days})
	}
	return out, nil
}

func newRule(input RuleInput) *model.Rule {
	return &model.Rule{
		UUID:          uuid.NewString(),
		Kind:          input.Kind,
		Count:         input.Count,
		StartTime:     input.StartTime,
		IntervalHours: input.IntervalHours,
		DurationDays:  input.DurationDays,
		Extras:        input.Extras,
	}
}

func validStatus(status string) bool {
	switch status {
	case model.StatusActive, model.StatusInactive, model.StatusCompleted, model.StatusDeleted:
		return true
	}
	return false
}
