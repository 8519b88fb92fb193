package domain

import "time"

// TaskStatus is the lifecycle state of a queued sync task.
type TaskStatus string

// Task statuses.
const (
	// TaskPending is waiting for its first or next attempt.
	TaskPending TaskStatus = "pending"

	// TaskRunning is claimed by a worker.
	TaskRunning TaskStatus = "running"

	// TaskDone completed successfully.
	TaskDone TaskStatus = "done"

	// TaskDead exhausted its attempts and is kept for inspection.
	TaskDead TaskStatus = "dead"
)

// IsValid returns true if the status is recognised.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskRunning, TaskDone, TaskDead:
		return true
	default:
		return false
	}
}

// SyncTask is a change event accepted by the webhook and waiting to be
// applied to the index.
type SyncTask struct {
	// ID is the unique identifier for the task.
	ID string

	// Event is the change to apply.
	Event ChangeEvent

	// Status is the current lifecycle state.
	Status TaskStatus

	// Attempts counts finished attempts.
	Attempts int

	// NextAttempt is the earliest time the task may run again.
	NextAttempt time.Time

	// LastError is the error from the most recent failed attempt.
	LastError string

	// CreatedAt is when the event was accepted.
	CreatedAt time.Time

	// UpdatedAt is when the task last changed.
	UpdatedAt time.Time
}

// IsDue reports whether a pending task may run at now.
func (t *SyncTask) IsDue(now time.Time) bool {
	return t.Status == TaskPending && !t.NextAttempt.After(now)
}

// QueueStats summarises task counts by status.
type QueueStats struct {
	Pending int
	Running int
	Done    int
	Dead    int
}
