package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/db"
)

// SQLiteWeekCacheRepo implements WeekCacheRepo using the local SQLite cache.
// Snapshots are stored as JSON payloads keyed by week start; they are only
// read on the degraded path when the backend is unreachable.
type SQLiteWeekCacheRepo struct {
	db db.DBTX
}

// NewSQLiteWeekCacheRepo creates a new SQLiteWeekCacheRepo.
func NewSQLiteWeekCacheRepo(conn db.DBTX) *SQLiteWeekCacheRepo {
	return &SQLiteWeekCacheRepo{db: conn}
}

func (r *SQLiteWeekCacheRepo) Put(ctx context.Context, w CachedWeek) error {
	payload, err := json.Marshal(w.Schedule)
	if err != nil {
		return fmt.Errorf("encoding week snapshot: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO week_cache (week_start, payload, cached_at) VALUES (?, ?, ?)`,
		calendar.FormatWeekStart(w.WeekStart),
		string(payload),
		w.CachedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing week snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteWeekCacheRepo) Get(ctx context.Context, weekStart time.Time) (*CachedWeek, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload, cached_at FROM week_cache WHERE week_start = ?`,
		calendar.FormatWeekStart(weekStart))

	var payload, cachedAt string
	if err := row.Scan(&payload, &cachedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("week snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning week snapshot: %w", err)
	}

	var schedule backend.WeekSchedule
	if err := json.Unmarshal([]byte(payload), &schedule); err != nil {
		return nil, fmt.Errorf("decoding week snapshot: %w", err)
	}

	at, err := time.Parse(time.RFC3339, cachedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot time: %w", err)
	}

	return &CachedWeek{WeekStart: weekStart, Schedule: &schedule, CachedAt: at}, nil
}
