package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
	"github.com/custodia-labs/searchsync/internal/logger"
)

// Ensure TaskQueue implements the interface.
var _ driving.TaskQueue = (*TaskQueue)(nil)

var queueLog = logger.Named("queue")

// TaskQueue decouples accepting a change event from applying it.
// Accepted events are persisted as tasks, handed to a pool of workers and
// retried with exponential backoff. Tasks that keep failing are marked dead
// and kept for inspection and manual retry.
type TaskQueue struct {
	store  driven.TaskStore
	syncer driving.SyncService
	config domain.QueueSettings
	now    func() time.Time

	ids chan string

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	inflight map[string]struct{}
	timers   map[string]*time.Timer
	wg       sync.WaitGroup
}

// NewTaskQueue creates a task queue. Call Start to begin processing.
func NewTaskQueue(store driven.TaskStore, syncer driving.SyncService, config domain.QueueSettings) *TaskQueue {
	capacity := config.Capacity
	if capacity < 1 {
		capacity = 1
	}
	return &TaskQueue{
		store:    store,
		syncer:   syncer,
		config:   config,
		now:      time.Now,
		ids:      make(chan string, capacity),
		inflight: make(map[string]struct{}),
		timers:   make(map[string]*time.Timer),
	}
}

// Start launches the workers and queues any pending work left from a
// previous run. It returns immediately.
func (q *TaskQueue) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return nil // Already running
	}
	q.running = true
	q.stopCh = make(chan struct{})
	q.mu.Unlock()

	if n, err := q.store.ResetRunning(ctx); err != nil {
		queueLog.Warn("failed to recover running tasks: %v", err)
	} else if n > 0 {
		queueLog.Info("recovered %d interrupted tasks", n)
	}

	workers := q.config.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}

	if _, err := q.Drain(ctx); err != nil {
		queueLog.Warn("initial drain failed: %v", err)
	}
	return nil
}

// Stop signals the workers to finish and waits for in-flight attempts.
func (q *TaskQueue) Stop() error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	close(q.stopCh)
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Enqueue persists a task for the event and hands it to a worker.
// A full in-memory buffer is not an error: the task stays pending and is
// picked up by the next drain.
func (q *TaskQueue) Enqueue(ctx context.Context, event domain.ChangeEvent) (*domain.SyncTask, error) {
	if err := q.syncer.Route(event); err != nil {
		return nil, err
	}

	now := q.now()
	task := &domain.SyncTask{
		ID:          uuid.New().String(),
		Event:       event,
		Status:      domain.TaskPending,
		NextAttempt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := q.store.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if err := q.push(task.ID); err != nil {
		queueLog.Debug("task %s deferred: %v", task.ID, err)
	}
	return task, nil
}

// Retry resets a pending or dead task so it runs again with a full set of
// attempts.
func (q *TaskQueue) Retry(ctx context.Context, taskID string) (*domain.SyncTask, error) {
	task, err := q.store.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.Status == domain.TaskDone || task.Status == domain.TaskRunning {
		return nil, fmt.Errorf("%w: task %s is %s", domain.ErrInvalidInput, taskID, task.Status)
	}

	now := q.now()
	task.Status = domain.TaskPending
	task.Attempts = 0
	task.NextAttempt = now
	task.UpdatedAt = now
	if err := q.store.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if err := q.push(task.ID); err != nil {
		queueLog.Debug("task %s deferred: %v", task.ID, err)
	}
	return task, nil
}

// List returns tasks with the given status.
func (q *TaskQueue) List(ctx context.Context, status domain.TaskStatus, limit int) ([]domain.SyncTask, error) {
	return q.store.List(ctx, status, limit)
}

// Stats returns task counts by status.
func (q *TaskQueue) Stats(ctx context.Context) (domain.QueueStats, error) {
	return q.store.Stats(ctx)
}

// Drain queues every due pending task until the buffer is full.
func (q *TaskQueue) Drain(ctx context.Context) (int, error) {
	due, err := q.store.Due(ctx, q.now(), cap(q.ids))
	if err != nil {
		return 0, fmt.Errorf("list due tasks: %w", err)
	}

	queued := 0
	for i := range due {
		if err := q.push(due[i].ID); err != nil {
			break
		}
		queued++
	}
	return queued, nil
}

// Prune removes finished tasks older than the retention period.
func (q *TaskQueue) Prune(ctx context.Context) (int, error) {
	return q.store.PruneFinished(ctx, q.now().Add(-q.config.Retention))
}

// Process runs one attempt of a task immediately, outside the worker pool.
func (q *TaskQueue) Process(ctx context.Context, taskID string) error {
	return q.process(ctx, taskID)
}

// push offers a task ID to the workers without blocking.
func (q *TaskQueue) push(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return domain.ErrQueueClosed
	}
	select {
	case q.ids <- id:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// worker pulls task IDs until the queue stops.
func (q *TaskQueue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopCh:
			return
		case id := <-q.ids:
			if err := q.process(ctx, id); err != nil {
				queueLog.Debug("task %s: %v", id, err)
			}
		}
	}
}

// process claims a task, applies it and records the outcome.
func (q *TaskQueue) process(ctx context.Context, id string) error {
	if !q.claim(id) {
		return nil // Another worker has it
	}
	defer q.release(id)

	task, err := q.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if !task.IsDue(q.now()) {
		return nil
	}

	task.Status = domain.TaskRunning
	task.UpdatedAt = q.now()
	if err := q.store.Save(ctx, task); err != nil {
		return fmt.Errorf("claim task: %w", err)
	}

	attemptCtx := ctx
	if q.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, q.config.AttemptTimeout)
		defer cancel()
	}

	result, syncErr := q.syncer.Apply(attemptCtx, task.Event)
	task.Attempts++
	task.UpdatedAt = q.now()

	switch {
	case syncErr == nil:
		task.Status = domain.TaskDone
		task.LastError = ""
		queueLog.Info("%s %s (%s)", result.Action, result.ObjectID, task.Event)

	case isPermanent(syncErr) || task.Attempts >= q.config.MaxAttempts:
		task.Status = domain.TaskDead
		task.LastError = syncErr.Error()
		queueLog.Error("task %s dead after %d attempts: %s: %v", task.ID, task.Attempts, task.Event, syncErr)

	default:
		delay := q.config.Backoff(task.Attempts)
		task.Status = domain.TaskPending
		task.LastError = syncErr.Error()
		task.NextAttempt = task.UpdatedAt.Add(delay)
		queueLog.Warn("task %s attempt %d failed, retrying in %s: %v", task.ID, task.Attempts, delay, syncErr)
	}

	// The attempt context may have expired; persisting the outcome must not.
	if err := q.store.Save(context.WithoutCancel(ctx), task); err != nil {
		return fmt.Errorf("save task outcome: %w", err)
	}

	if task.Status == domain.TaskPending {
		q.schedule(task.ID, task.NextAttempt.Sub(q.now()))
	}
	return syncErr
}

// schedule re-queues a task after delay. Tasks whose timer is lost, for
// example because the buffer was full, are found by the next drain.
func (q *TaskQueue) schedule(id string, delay time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return
	}
	if t, ok := q.timers[id]; ok {
		t.Stop()
	}
	q.timers[id] = time.AfterFunc(delay, func() {
		q.mu.Lock()
		delete(q.timers, id)
		q.mu.Unlock()
		if err := q.push(id); err != nil {
			queueLog.Debug("task %s deferred: %v", id, err)
		}
	})
}

func (q *TaskQueue) claim(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, busy := q.inflight[id]; busy {
		return false
	}
	q.inflight[id] = struct{}{}
	return true
}

func (q *TaskQueue) release(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.inflight, id)
}

// isPermanent reports errors that retrying cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrUnroutable) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrIndexUnavailable) ||
		errors.Is(err, domain.ErrContentSourceUnavailable)
}
