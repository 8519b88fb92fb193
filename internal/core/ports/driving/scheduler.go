package driving

import (
	"context"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// Scheduler runs the queue's housekeeping jobs on fixed intervals.
type Scheduler interface {
	// Start registers the jobs and runs them until ctx is cancelled or
	// Stop is called.
	Start(ctx context.Context) error

	// Stop ends the loop and waits for in-flight jobs.
	Stop() error

	// Status lists stored jobs with up to history recent runs each.
	Status(ctx context.Context, history int) ([]domain.ScheduleStatus, error)
}
