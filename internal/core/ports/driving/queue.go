package driving

import (
	"context"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// TaskQueue accepts change events and applies them asynchronously with
// retry, backoff and dead-lettering.
type TaskQueue interface {
	// Enqueue accepts an event for processing and returns its task.
	// The task is persisted before Enqueue returns.
	// Returns domain.ErrUnroutable for content types that are not indexed.
	Enqueue(ctx context.Context, event domain.ChangeEvent) (*domain.SyncTask, error)

	// Retry moves a dead or pending task back to the front of the queue.
	Retry(ctx context.Context, taskID string) (*domain.SyncTask, error)

	// List returns tasks with the given status. Empty status lists all.
	List(ctx context.Context, status domain.TaskStatus, limit int) ([]domain.SyncTask, error)

	// Stats returns task counts by status.
	Stats(ctx context.Context) (domain.QueueStats, error)

	// Drain re-enqueues every due pending task. Returns how many were queued.
	Drain(ctx context.Context) (int, error)

	// Prune removes finished tasks past retention. Returns how many were removed.
	Prune(ctx context.Context) (int, error)
}
