package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
)

// Ensure TaskStore implements the interface.
var _ driven.TaskStore = (*TaskStore)(nil)

// TaskStore is an in-memory implementation of driven.TaskStore.
// Tasks do not survive a restart.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]domain.SyncTask
}

// NewTaskStore creates a new in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]domain.SyncTask),
	}
}

// Save stores or updates a task.
func (s *TaskStore) Save(_ context.Context, task *domain.SyncTask) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

// Get retrieves a task by ID.
func (s *TaskStore) Get(_ context.Context, id string) (*domain.SyncTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &task, nil
}

// List returns tasks with the given status, oldest first.
func (s *TaskStore) List(_ context.Context, status domain.TaskStatus, limit int) ([]domain.SyncTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(t *domain.SyncTask) bool {
		return status == "" || t.Status == status
	}), nil
}

// Due returns pending tasks whose next attempt is at or before now.
func (s *TaskStore) Due(_ context.Context, now time.Time, limit int) ([]domain.SyncTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(limit, func(t *domain.SyncTask) bool {
		return t.IsDue(now)
	}), nil
}

// Stats returns task counts by status.
func (s *TaskStore) Stats(_ context.Context) (domain.QueueStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats domain.QueueStats
	for _, t := range s.tasks {
		switch t.Status {
		case domain.TaskPending:
			stats.Pending++
		case domain.TaskRunning:
			stats.Running++
		case domain.TaskDone:
			stats.Done++
		case domain.TaskDead:
			stats.Dead++
		}
	}
	return stats, nil
}

// Delete removes a task.
func (s *TaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

// PruneFinished removes done tasks last updated before the cutoff.
func (s *TaskStore) PruneFinished(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, t := range s.tasks {
		if t.Status == domain.TaskDone && t.UpdatedAt.Before(before) {
			delete(s.tasks, id)
			removed++
		}
	}
	return removed, nil
}

// ResetRunning moves running tasks back to pending.
func (s *TaskStore) ResetRunning(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reset := 0
	for id, t := range s.tasks {
		if t.Status == domain.TaskRunning {
			t.Status = domain.TaskPending
			s.tasks[id] = t
			reset++
		}
	}
	return reset, nil
}

// collect returns matching tasks ordered by creation time. Caller holds the lock.
func (s *TaskStore) collect(limit int, match func(*domain.SyncTask) bool) []domain.SyncTask {
	result := []domain.SyncTask{}
	for id := range s.tasks {
		t := s.tasks[id]
		if match(&t) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
