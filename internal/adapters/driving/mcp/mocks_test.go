package mcp

import (
	"context"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits  []domain.SearchHit
	count int
	err   error
	limit int
}

func (m *mockSearchService) Search(_ context.Context, _ string, limit int) ([]domain.SearchHit, error) {
	m.limit = limit
	return m.hits, m.err
}

func (m *mockSearchService) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

// mockTaskQueue is a mock implementation of driving.TaskQueue.
type mockTaskQueue struct {
	enqueued []domain.ChangeEvent
	tasks    []domain.SyncTask
	stats    domain.QueueStats
	status   domain.TaskStatus
	err      error
}

func (m *mockTaskQueue) Enqueue(_ context.Context, event domain.ChangeEvent) (*domain.SyncTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.enqueued = append(m.enqueued, event)
	return &domain.SyncTask{ID: "task-1", Event: event, Status: domain.TaskPending}, nil
}

func (m *mockTaskQueue) Retry(_ context.Context, _ string) (*domain.SyncTask, error) {
	return nil, m.err
}

func (m *mockTaskQueue) List(_ context.Context, status domain.TaskStatus, _ int) ([]domain.SyncTask, error) {
	m.status = status
	return m.tasks, m.err
}

func (m *mockTaskQueue) Stats(_ context.Context) (domain.QueueStats, error) {
	return m.stats, m.err
}

func (m *mockTaskQueue) Drain(_ context.Context) (int, error) {
	return 0, m.err
}

func (m *mockTaskQueue) Prune(_ context.Context) (int, error) {
	return 0, m.err
}
