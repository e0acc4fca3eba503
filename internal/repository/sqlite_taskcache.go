package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/db"
	"github.com/alexmendoza/salesboard/internal/domain"
)

// taskCacheColumns is the canonical SELECT column list for task_cache.
const taskCacheColumns = `id, title, description, time, priority, category, comment,
		synced, week_start, day_index, created_at, updated_at`

// SQLiteTaskCacheRepo implements TaskCacheRepo using the local SQLite cache.
type SQLiteTaskCacheRepo struct {
	db db.DBTX
}

// NewSQLiteTaskCacheRepo creates a new SQLiteTaskCacheRepo.
func NewSQLiteTaskCacheRepo(conn db.DBTX) *SQLiteTaskCacheRepo {
	return &SQLiteTaskCacheRepo{db: conn}
}

func (r *SQLiteTaskCacheRepo) Upsert(ctx context.Context, t CachedTask) error {
	query := `INSERT OR REPLACE INTO task_cache
		(id, title, description, time, priority, category, comment, synced, week_start, day_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.Task.ID,
		t.Task.Title,
		t.Task.Description,
		t.Task.Time,
		string(t.Task.Priority),
		t.Task.Category,
		t.Task.Comment,
		boolToInt(t.Task.Synced),
		calendar.FormatWeekStart(t.WeekStart),
		t.DayIndex,
		t.Task.CreatedAt.Format(time.RFC3339),
		t.Task.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting cached task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskCacheRepo) GetByID(ctx context.Context, id string) (*CachedTask, error) {
	query := `SELECT ` + taskCacheColumns + ` FROM task_cache WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	t, err := scanCachedTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("cached task: %w", ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskCacheRepo) ListByWeek(ctx context.Context, weekStart time.Time) ([]CachedTask, error) {
	query := `SELECT ` + taskCacheColumns + ` FROM task_cache
		WHERE week_start = ? ORDER BY day_index, created_at`
	rows, err := r.db.QueryContext(ctx, query, calendar.FormatWeekStart(weekStart))
	if err != nil {
		return nil, fmt.Errorf("listing cached tasks by week: %w", err)
	}
	defer rows.Close()
	return scanCachedTasks(rows)
}

func (r *SQLiteTaskCacheRepo) ListUnsynced(ctx context.Context) ([]CachedTask, error) {
	query := `SELECT ` + taskCacheColumns + ` FROM task_cache
		WHERE synced = 0 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing unsynced tasks: %w", err)
	}
	defer rows.Close()
	return scanCachedTasks(rows)
}

func (r *SQLiteTaskCacheRepo) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE task_cache SET synced = 1, updated_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("marking task synced: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking marked rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cached task: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskCacheRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_cache WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting cached task: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCachedTask(row rowScanner) (*CachedTask, error) {
	var (
		t         CachedTask
		priority  string
		synced    int
		weekStart string
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&t.Task.ID,
		&t.Task.Title,
		&t.Task.Description,
		&t.Task.Time,
		&priority,
		&t.Task.Category,
		&t.Task.Comment,
		&synced,
		&weekStart,
		&t.DayIndex,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning cached task: %w", err)
	}

	t.Task.Priority = domain.TaskPriority(priority)
	t.Task.Synced = intToBool(synced)

	ws, err := calendar.ParseWeekStart(weekStart)
	if err != nil {
		return nil, fmt.Errorf("parsing cached task week start: %w", err)
	}
	t.WeekStart = ws

	if t.Task.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing cached task created_at: %w", err)
	}
	if t.Task.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing cached task updated_at: %w", err)
	}
	return &t, nil
}

func scanCachedTasks(rows *sql.Rows) ([]CachedTask, error) {
	var tasks []CachedTask
	for rows.Next() {
		t, err := scanCachedTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached tasks: %w", err)
	}
	return tasks, nil
}
