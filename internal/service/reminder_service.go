package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"careminder/internal/model"
	"careminder/internal/notify"
	"careminder/internal/rule"
)

// ReminderSource is the batched read the scheduler depends on: every active,
// unexpired task whose assignee holds a device token, joined with its rule.
type ReminderSource interface {
	ListDueReminders(ctx context.Context, now time.Time) ([]model.ReminderRow, error)
}

// ReminderService runs one evaluation pass per tick. A fetch error aborts the
// whole tick; a failed dispatch is logged and the remaining items still get
// their chance.
type ReminderService struct {
	source    ReminderSource
	notifier  notify.Notifier
	evaluator *rule.Evaluator
	clock     rule.Clock
}

func NewReminderService(source ReminderSource, notifier notify.Notifier, evaluator *rule.Evaluator, clock rule.Clock) *ReminderService {
	if clock == nil {
		clock = rule.SystemClock
	}
	return &ReminderService{source: source, notifier: notifier, evaluator: evaluator, clock: clock}
}

// RunTick fetches all candidate rows once, evaluates each against the same
// instant, and dispatches one notification per match.
func (s *ReminderService) RunTick(ctx context.Context) error {
	now := s.clock()
	rows, err := s.source.ListDueReminders(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch reminders: %w", err)
	}

	for _, row := range rows {
		if !s.evaluator.Evaluate(row, now) {
			continue
		}
		title, body := reminderMessage(row)
		if err := s.notifier.Send(ctx, row.FCMToken, title, body); err != nil {
			log.Printf("send reminder for %s %s to user %s: %v", row.Kind, row.TaskUUID, row.AssigneeUUID, err)
			continue
		}
		log.Printf("reminder sent to user %s for %s %q", row.AssigneeUUID, row.Kind, row.Name)
	}
	return nil
}

func reminderMessage(row model.ReminderRow) (title, body string) {
	if row.Kind == model.KindMedication {
		return "Medication Reminder: " + row.Name, "Time to take your medication: " + row.Name
	}
	return "Task Reminder: " + row.Name, fmt.Sprintf("You have a scheduled task: %q", row.Name)
}
