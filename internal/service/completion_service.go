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

// ErrNothingToUndo signals that an undo found no completion dated today. It
// is a normal outcome and callers should render it as such, not as a failure.
var ErrNothingToUndo = repository.ErrNoCompletionToday

// CompletionStore is the write contract completion tracking depends on.
type CompletionStore interface {
	Create(ctx context.Context, completion *model.Completion) error
	DeleteLatestToday(ctx context.Context, taskType model.TaskKind, parentUUID string, now time.Time) error
}

// CompletionService records and undoes "done today" events.
type CompletionService struct {
	store CompletionStore
	clock rule.Clock
}

func NewCompletionService(store CompletionStore, clock rule.Clock) *CompletionService {
	if clock == nil {
		clock = rule.SystemClock
	}
	return &CompletionService{store: store, clock: clock}
}

// Record appends a completion stamped with the current instant and returns
// its UUID. Each call is one occurrence; multiple completions per day are
// expected.
func (s *CompletionService) Record(ctx context.Context, taskType model.TaskKind, parentUUID string) (string, error) {
	if parentUUID == "" {
		return "", fmt.Errorf("parent task uuid is required")
	}
	completion := model.Completion{
		UUID:           uuid.NewString(),
		TaskType:       taskType,
		ParentTaskUUID: parentUUID,
		CompletedAt:    s.clock(),
	}
	if err := s.store.Create(ctx, &completion); err != nil {
		return "", err
	}
	return completion.UUID, nil
}

// UndoLatestToday deletes the most recent completion made today. Returns
// ErrNothingToUndo when today holds none; completions from previous days are
// never touched.
func (s *CompletionService) UndoLatestToday(ctx context.Context, taskType model.TaskKind, parentUUID string) error {
	err := s.store.DeleteLatestToday(ctx, taskType, parentUUID, s.clock())
	if err != nil && !errors.Is(err, ErrNothingToUndo) {
		return fmt.Errorf("undo completion: %w", err)
	}
	return err
}
