package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/searchsync/internal/core/domain"
	"github.com/custodia-labs/searchsync/internal/core/ports/driven"
)

// taskStore implements driven.TaskStore.
type taskStore struct {
	store *Store
}

var _ driven.TaskStore = (*taskStore)(nil)

const taskColumns = `id, subject_kind, subject_id, type_hint, state, status,
	attempts, next_attempt, last_error, created_at, updated_at`

// Save stores or updates a task.
func (s *taskStore) Save(ctx context.Context, task *domain.SyncTask) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject_kind = excluded.subject_kind,
			subject_id = excluded.subject_id,
			type_hint = excluded.type_hint,
			state = excluded.state,
			status = excluded.status,
			attempts = excluded.attempts,
			next_attempt = excluded.next_attempt,
			last_error = excluded.last_error,
			updated_at = excluded.updated_at
	`, task.ID, task.Event.SubjectKind.String(), task.Event.SubjectID, task.Event.TypeHint,
		string(task.Event.State), string(task.Status), task.Attempts,
		unixNano(task.NextAttempt), nullString(task.LastError),
		unixNano(task.CreatedAt), unixNano(task.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving sync task: %w", err)
	}
	return nil
}

// Get retrieves a task by ID.
func (s *taskStore) Get(ctx context.Context, id string) (*domain.SyncTask, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM sync_tasks WHERE id = ?`, id)

	task, err := scanSyncTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// List returns tasks with the given status, oldest first.
func (s *taskStore) List(ctx context.Context, status domain.TaskStatus, limit int) ([]domain.SyncTask, error) {
	query := `SELECT ` + taskColumns + ` FROM sync_tasks`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, id LIMIT ?`
	args = append(args, sqlLimit(limit))

	return s.query(ctx, query, args...)
}

// Due returns pending tasks whose next attempt has arrived, oldest first.
func (s *taskStore) Due(ctx context.Context, now time.Time, limit int) ([]domain.SyncTask, error) {
	return s.query(ctx, `
		SELECT `+taskColumns+` FROM sync_tasks
		WHERE status = ? AND next_attempt <= ?
		ORDER BY created_at, id
		LIMIT ?
	`, string(domain.TaskPending), unixNano(now), sqlLimit(limit))
}

// Stats returns task counts by status.
func (s *taskStore) Stats(ctx context.Context) (domain.QueueStats, error) {
	var stats domain.QueueStats

	rows, err := s.store.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM sync_tasks GROUP BY status`)
	if err != nil {
		return stats, fmt.Errorf("querying queue stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("scanning queue stats: %w", err)
		}
		switch domain.TaskStatus(status) {
		case domain.TaskPending:
			stats.Pending = count
		case domain.TaskRunning:
			stats.Running = count
		case domain.TaskDone:
			stats.Done = count
		case domain.TaskDead:
			stats.Dead = count
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterating queue stats: %w", err)
	}
	return stats, nil
}

// Delete removes a task.
func (s *taskStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting sync task: %w", err)
	}
	return nil
}

// PruneFinished removes done tasks last updated before the cutoff.
func (s *taskStore) PruneFinished(ctx context.Context, before time.Time) (int, error) {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM sync_tasks WHERE status = ? AND updated_at < ?",
		string(domain.TaskDone), unixNano(before))
	if err != nil {
		return 0, fmt.Errorf("pruning sync tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned sync tasks: %w", err)
	}
	return int(n), nil
}

// ResetRunning moves running tasks back to pending.
func (s *taskStore) ResetRunning(ctx context.Context) (int, error) {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE sync_tasks SET status = ? WHERE status = ?",
		string(domain.TaskPending), string(domain.TaskRunning))
	if err != nil {
		return 0, fmt.Errorf("resetting running sync tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting reset sync tasks: %w", err)
	}
	return int(n), nil
}

func (s *taskStore) query(ctx context.Context, query string, args ...interface{}) ([]domain.SyncTask, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sync tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.SyncTask{}
	for rows.Next() {
		task, err := scanSyncTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync tasks: %w", err)
	}
	return tasks, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSyncTask(row rowScanner) (*domain.SyncTask, error) {
	var task domain.SyncTask
	var kind, state, status string
	var lastError sql.NullString
	var nextAttempt, createdAt, updatedAt int64

	err := row.Scan(&task.ID, &kind, &task.Event.SubjectID, &task.Event.TypeHint,
		&state, &status, &task.Attempts, &nextAttempt, &lastError, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning sync task: %w", err)
	}

	task.Event.SubjectKind = domain.SubjectContentItem
	if kind == domain.SubjectPage.String() {
		task.Event.SubjectKind = domain.SubjectPage
	}
	task.Event.State = domain.ContentState(state)
	task.Status = domain.TaskStatus(status)
	task.NextAttempt = fromUnixNano(nextAttempt)
	task.CreatedAt = fromUnixNano(createdAt)
	task.UpdatedAt = fromUnixNano(updatedAt)
	if lastError.Valid {
		task.LastError = lastError.String
	}
	return &task, nil
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
