package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

func newTask(id string, status domain.TaskStatus, created time.Time) *domain.SyncTask {
	return &domain.SyncTask{
		ID:          id,
		Event:       domain.NewPageEvent(1, domain.StatePublished),
		Status:      status,
		NextAttempt: created,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestNewTaskStore(t *testing.T) {
	store := NewTaskStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.tasks)
}

func TestTaskStore_SaveAndGet(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, newTask("t1", domain.TaskPending, now)))

	got, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, got.Status)
	assert.Equal(t, 1, got.Event.SubjectID)

	// Mutating the returned copy does not change the store
	got.Status = domain.TaskDead
	again, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, again.Status)
}

func TestTaskStore_Get_NotFound(t *testing.T) {
	store := NewTaskStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskStore_Save_RejectsEmptyID(t *testing.T) {
	store := NewTaskStore()
	assert.ErrorIs(t, store.Save(context.Background(), &domain.SyncTask{}), domain.ErrInvalidInput)
}

func TestTaskStore_ListAndDue(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, newTask("b", domain.TaskPending, base.Add(time.Minute))))
	require.NoError(t, store.Save(ctx, newTask("a", domain.TaskPending, base)))
	require.NoError(t, store.Save(ctx, newTask("c", domain.TaskDead, base)))

	later := newTask("d", domain.TaskPending, base)
	later.NextAttempt = base.Add(time.Hour)
	require.NoError(t, store.Save(ctx, later))

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	pending, err := store.List(ctx, domain.TaskPending, 0)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "a", pending[0].ID)

	due, err := store.Due(ctx, base.Add(2*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "a", due[0].ID)
	assert.Equal(t, "b", due[1].ID)

	due, err = store.Due(ctx, base.Add(2*time.Minute), 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestTaskStore_Stats(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, newTask("1", domain.TaskPending, now)))
	require.NoError(t, store.Save(ctx, newTask("2", domain.TaskRunning, now)))
	require.NoError(t, store.Save(ctx, newTask("3", domain.TaskDone, now)))
	require.NoError(t, store.Save(ctx, newTask("4", domain.TaskDead, now)))
	require.NoError(t, store.Save(ctx, newTask("5", domain.TaskDead, now)))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.QueueStats{Pending: 1, Running: 1, Done: 1, Dead: 2}, stats)
}

func TestTaskStore_PruneFinished(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, newTask("old-done", domain.TaskDone, now.Add(-48*time.Hour))))
	require.NoError(t, store.Save(ctx, newTask("new-done", domain.TaskDone, now)))
	require.NoError(t, store.Save(ctx, newTask("old-dead", domain.TaskDead, now.Add(-48*time.Hour))))

	removed, err := store.PruneFinished(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, "old-done")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(ctx, "old-dead")
	assert.NoError(t, err, "dead tasks are kept for inspection")
}

func TestTaskStore_ResetRunning(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTask("r", domain.TaskRunning, time.Now())))
	require.NoError(t, store.Save(ctx, newTask("p", domain.TaskPending, time.Now())))

	n, err := store.ResetRunning(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.Get(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPending, got.Status)
}

func TestTaskStore_Delete(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTask("t", domain.TaskDead, time.Now())))
	require.NoError(t, store.Delete(ctx, "t"))
	require.NoError(t, store.Delete(ctx, "t"))

	_, err := store.Get(ctx, "t")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskStore_ConcurrentAccess(t *testing.T) {
	store := NewTaskStore()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%26))
			_ = store.Save(ctx, newTask(id, domain.TaskPending, time.Now()))
			_, _ = store.Get(ctx, id)
			_, _ = store.Stats(ctx)
		}(i)
	}
	wg.Wait()
}
