package driven

import (
	"context"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// SchedulerStore keeps housekeeping job state and run history so
// intervals carry over across restarts.
type SchedulerStore interface {
	// GetTask returns nil, nil when the task is unknown.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all tasks ordered by ID.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask inserts or replaces the task with the same ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	DeleteTask(ctx context.Context, taskID string) error

	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// GetTaskHistory returns up to limit results, newest first.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory keeps only the newest keep results of each task.
	PruneHistory(ctx context.Context, keep int) error
}
