package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	config := DefaultSchedulerConfig()

	assert.True(t, config.Enabled)
	assert.Len(t, config.TaskConfigs, 2)

	drain := config.TaskConfigs[TaskIDQueueDrain]
	assert.True(t, drain.Enabled)
	assert.Equal(t, 1*time.Minute, drain.Interval)

	prune := config.TaskConfigs[TaskIDQueuePrune]
	assert.True(t, prune.Enabled)
	assert.Equal(t, 6*time.Hour, prune.Interval)
}

func TestSchedulerConfig_GetTaskConfig(t *testing.T) {
	config := DefaultSchedulerConfig()

	drain := config.GetTaskConfig(TaskIDQueueDrain)
	assert.True(t, drain.Enabled)
	assert.Equal(t, 1*time.Minute, drain.Interval)

	unknown := config.GetTaskConfig("unknown-task")
	assert.False(t, unknown.Enabled)
	assert.Equal(t, time.Duration(0), unknown.Interval)
}

func TestSchedulerConfig_GetTaskConfig_NilMap(t *testing.T) {
	config := SchedulerConfig{
		Enabled:     true,
		TaskConfigs: nil,
	}

	cfg := config.GetTaskConfig("any-task")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, time.Duration(0), cfg.Interval)
}

func TestTaskConstants(t *testing.T) {
	assert.Equal(t, "queue-drain", TaskIDQueueDrain)
	assert.Equal(t, "queue-prune", TaskIDQueuePrune)
}

func TestTaskResult_Failed(t *testing.T) {
	now := time.Now()
	result := TaskResult{
		TaskID:    TaskIDQueueDrain,
		StartedAt: now.Add(-5 * time.Second),
		EndedAt:   now,
		Success:   false,
		Error:     "database is locked",
	}

	assert.False(t, result.Success)
	assert.Equal(t, "database is locked", result.Error)
	assert.Zero(t, result.ItemsProcessed)
}

func TestScheduledTask_IsDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task ScheduledTask
		want bool
	}{
		{"past next run", ScheduledTask{Enabled: true, NextRun: now.Add(-time.Second)}, true},
		{"exactly now", ScheduledTask{Enabled: true, NextRun: now}, true},
		{"future", ScheduledTask{Enabled: true, NextRun: now.Add(time.Minute)}, false},
		{"zero next run", ScheduledTask{Enabled: true}, true},
		{"disabled", ScheduledTask{Enabled: false, NextRun: now.Add(-time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsDue(now))
		})
	}
}

func TestTaskResult_Duration(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r := TaskResult{StartedAt: start, EndedAt: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, r.Duration())

	unfinished := TaskResult{StartedAt: start}
	assert.Zero(t, unfinished.Duration())
}
