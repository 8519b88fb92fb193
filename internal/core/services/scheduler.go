package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
	"github.com/custodia-labs/searchsync/internal/core/ports/driving"
	"github.com/custodia-labs/searchsync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

var schedLog = logger.Named("scheduler")

// historyKeep is the number of results kept per scheduled task.
const historyKeep = 100

// job is a unit of queue housekeeping. It returns the number of tasks touched.
type job struct {
	name string
	run  func(ctx context.Context) (int, error)
}

// Scheduler runs the task queue's housekeeping on fixed intervals:
// draining due retries and pruning finished tasks. Task state and run
// history are persisted so intervals survive restarts.
type Scheduler struct {
	config domain.SchedulerConfig
	store  driven.SchedulerStore
	jobs   map[string]job
	now    func() time.Time

	mu       sync.Mutex
	running  bool
	stopped  bool
	stopCh   chan struct{}
	inflight map[string]bool

	// wg tracks the Start loop and in-flight jobs. Add is only called
	// under mu while not stopped, so it never races with Stop's Wait.
	wg sync.WaitGroup
}

// NewScheduler creates a scheduler for the queue's drain and prune jobs.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	queue driving.TaskQueue,
) *Scheduler {
	s := &Scheduler{
		config:   config,
		store:    store,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		inflight: make(map[string]bool),
		jobs:     make(map[string]job),
	}
	if queue != nil {
		s.jobs[domain.TaskIDQueueDrain] = job{name: "Queue drain", run: queue.Drain}
		s.jobs[domain.TaskIDQueuePrune] = job{name: "Queue prune", run: queue.Prune}
	}
	return s
}

// Start registers the configured jobs and runs due ones until ctx is
// cancelled or Stop is called. It blocks. A call while already running,
// or after Stop, returns nil at once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.wg.Add(1)
	stopCh := s.stopCh
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	if !s.config.Enabled {
		schedLog.Info("disabled")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		}
	}

	if err := s.register(ctx); err != nil {
		schedLog.Warn("registering tasks: %v", err)
	}

	s.runDue(ctx)

	ticker := time.NewTicker(s.tick())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

// Stop ends the loop and waits for it and any running jobs to return.
// It is safe to call before Start, which then never runs. A stopped
// scheduler cannot be restarted.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
	}
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Scheduler) tick() time.Duration {
	if s.config.Tick > 0 {
		return s.config.Tick
	}
	return time.Minute
}

// register stores every known job with its configured interval.
// Disabled jobs are stored disabled so they stop running after a config change.
func (s *Scheduler) register(ctx context.Context) error {
	for id, j := range s.jobs {
		cfg := s.config.GetTaskConfig(id)
		if cfg.Enabled && cfg.Interval <= 0 {
			schedLog.Warn("%s has no interval, disabling", id)
			cfg.Enabled = false
		}

		task, err := s.store.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if task == nil {
			task = &domain.ScheduledTask{ID: id, Name: j.name, NextRun: s.now().Add(cfg.Interval)}
		} else if task.Interval != cfg.Interval {
			task.NextRun = s.now().Add(cfg.Interval)
		}
		task.Interval = cfg.Interval
		task.Enabled = cfg.Enabled

		if err := s.store.SaveTask(ctx, task); err != nil {
			return err
		}
	}
	return s.dropStale(ctx)
}

// dropStale deletes stored tasks that no longer have a job, such as
// tasks left behind by an older release.
func (s *Scheduler) dropStale(ctx context.Context) error {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if _, ok := s.jobs[task.ID]; ok {
			continue
		}
		schedLog.Info("removing stale task %s", task.ID)
		if err := s.store.DeleteTask(ctx, task.ID); err != nil {
			return err
		}
	}
	return nil
}

// Status returns every stored task with up to history recent runs.
func (s *Scheduler) Status(ctx context.Context, history int) ([]domain.ScheduleStatus, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing scheduled tasks: %w", err)
	}
	out := make([]domain.ScheduleStatus, 0, len(tasks))
	for _, task := range tasks {
		st := domain.ScheduleStatus{Task: task}
		if history > 0 {
			st.Recent, err = s.store.GetTaskHistory(ctx, task.ID, history)
			if err != nil {
				return nil, fmt.Errorf("history for %s: %w", task.ID, err)
			}
		}
		out = append(out, st)
	}
	return out, nil
}

// runDue starts every enabled job whose next run has arrived.
func (s *Scheduler) runDue(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		schedLog.Warn("listing tasks: %v", err)
		return
	}

	now := s.now()
	for i := range tasks {
		task := tasks[i]
		if !task.IsDue(now) {
			continue
		}
		j, ok := s.jobs[task.ID]
		if !ok {
			schedLog.Debug("no job for task %s", task.ID)
			continue
		}
		if !s.claim(task.ID) {
			continue
		}

		go func() {
			defer s.release(task.ID)
			s.execute(ctx, &task, j)
		}()
	}
}

// execute runs one job and persists its outcome.
func (s *Scheduler) execute(ctx context.Context, task *domain.ScheduledTask, j job) {
	result := &domain.TaskResult{TaskID: task.ID, StartedAt: s.now()}
	n, err := j.run(ctx)
	result.EndedAt = s.now()
	result.ItemsProcessed = n

	if err != nil {
		result.Error = err.Error()
		task.LastError = err.Error()
		schedLog.Warn("%s failed: %v", task.ID, err)
	} else {
		result.Success = true
		task.LastError = ""
		task.LastSuccess = result.EndedAt
		if n > 0 {
			schedLog.Debug("%s processed %d tasks", task.ID, n)
		}
	}
	task.LastRun = result.StartedAt
	task.NextRun = result.EndedAt.Add(task.Interval)

	if err := s.store.SaveTask(ctx, task); err != nil {
		schedLog.Warn("saving %s: %v", task.ID, err)
	}
	if err := s.store.RecordResult(ctx, result); err != nil {
		schedLog.Warn("recording %s: %v", task.ID, err)
	}
	if err := s.store.PruneHistory(ctx, historyKeep); err != nil {
		schedLog.Warn("pruning history: %v", err)
	}
}

// claim marks id in flight and adds it to wg. It refuses once stopped
// or while a previous run of id is still going.
func (s *Scheduler) claim(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.inflight[id] {
		return false
	}
	s.inflight[id] = true
	s.wg.Add(1)
	return true
}

func (s *Scheduler) release(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
	s.wg.Done()
}
