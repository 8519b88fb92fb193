package domain

import "time"

// Built-in housekeeping tasks.
const (
	// TaskIDQueueDrain re-enqueues pending sync tasks whose retry time has come.
	TaskIDQueueDrain = "queue-drain"

	// TaskIDQueuePrune deletes done sync tasks older than queue.retention.
	TaskIDQueuePrune = "queue-prune"
)

// ScheduledTask is the persisted state of one housekeeping job.
type ScheduledTask struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Interval    time.Duration `json:"interval"`
	Enabled     bool          `json:"enabled"`
	LastRun     time.Time     `json:"last_run"`
	NextRun     time.Time     `json:"next_run"`
	LastSuccess time.Time     `json:"last_success"`
	LastError   string        `json:"last_error,omitempty"`
}

// IsDue reports whether an enabled task should run at now.
func (t *ScheduledTask) IsDue(now time.Time) bool {
	return t.Enabled && !t.NextRun.After(now)
}

// TaskResult records one run of a scheduled task.
type TaskResult struct {
	TaskID    string    `json:"task_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`

	// ItemsProcessed counts sync tasks drained or pruned.
	ItemsProcessed int `json:"items_processed"`
}

// Duration is how long the run took.
func (r *TaskResult) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// ScheduleStatus pairs a task with its most recent runs, newest first.
type ScheduleStatus struct {
	Task   ScheduledTask `json:"task"`
	Recent []TaskResult  `json:"recent"`
}

// SchedulerConfig switches the scheduler and its tasks on and off.
type SchedulerConfig struct {
	Enabled bool

	// Tick is how often due tasks are checked. Zero means one minute.
	Tick time.Duration

	TaskConfigs map[string]TaskConfig
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// GetTaskConfig returns the task's configuration, or a zero (disabled)
// TaskConfig when the task is unknown.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	return c.TaskConfigs[taskID]
}

// DefaultSchedulerConfig drains every minute and prunes every six hours.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]TaskConfig{
			TaskIDQueueDrain: {Enabled: true, Interval: time.Minute},
			TaskIDQueuePrune: {Enabled: true, Interval: 6 * time.Hour},
		},
	}
}
