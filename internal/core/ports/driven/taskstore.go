package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// TaskStore persists accepted sync tasks so that nothing is lost between
// the webhook acknowledging an event and the index being updated.
type TaskStore interface {
	// Save stores or updates a task.
	Save(ctx context.Context, task *domain.SyncTask) error

	// Get retrieves a task by ID.
	// Returns domain.ErrNotFound if the task does not exist.
	Get(ctx context.Context, id string) (*domain.SyncTask, error)

	// List returns tasks with the given status, oldest first.
	// An empty status lists every task.
	List(ctx context.Context, status domain.TaskStatus, limit int) ([]domain.SyncTask, error)

	// Due returns pending tasks whose next attempt is at or before now, oldest first.
	Due(ctx context.Context, now time.Time, limit int) ([]domain.SyncTask, error)

	// Stats returns task counts by status.
	Stats(ctx context.Context) (domain.QueueStats, error)

	// Delete removes a task.
	Delete(ctx context.Context, id string) error

	// PruneFinished removes done tasks last updated before the cutoff.
	// Returns the number of removed tasks.
	PruneFinished(ctx context.Context, before time.Time) (int, error)

	// ResetRunning moves running tasks back to pending.
	// Used at startup to recover work interrupted by a crash.
	ResetRunning(ctx context.Context) (int, error)
}
