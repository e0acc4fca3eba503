package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Explicit per-container display orderings. One container per kanban
	// status column, one per (week, day) calendar slot. This is the single
	// source of truth for display order; it is never derived from business
	// fields.
	`CREATE TABLE IF NOT EXISTS container_orders (
		container_id TEXT NOT NULL,
		position     INTEGER NOT NULL,
		item_id      TEXT NOT NULL,
		PRIMARY KEY (container_id, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_container_orders_item ON container_orders(item_id)`,

	// Local copy of custom tasks. Rows with synced = 0 exist only locally
	// (offline fallback) and are re-pushed by the reconciliation pass.
	`CREATE TABLE IF NOT EXISTS task_cache (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		time        TEXT NOT NULL DEFAULT '',
		priority    TEXT NOT NULL DEFAULT 'medium'
		            CHECK(priority IN ('low','medium','high')),
		category    TEXT NOT NULL DEFAULT '',
		comment     TEXT NOT NULL DEFAULT '',
		synced      INTEGER NOT NULL DEFAULT 0,
		week_start  TEXT NOT NULL,
		day_index   INTEGER NOT NULL CHECK(day_index BETWEEN 0 AND 6),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_cache_week ON task_cache(week_start)`,
	`CREATE INDEX IF NOT EXISTS idx_task_cache_synced ON task_cache(synced)`,

	// Last-known-good weekly schedule snapshots, used as a read-through
	// fallback when the backend is unreachable. Never authoritative.
	`CREATE TABLE IF NOT EXISTS week_cache (
		week_start TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		cached_at  TEXT NOT NULL
	)`,

	// Per-user preference snapshot: filter state plus display flags,
	// reloaded at session start and reapplied before first render.
	`CREATE TABLE IF NOT EXISTS preferences (
		username         TEXT PRIMARY KEY,
		search_text      TEXT NOT NULL DEFAULT '',
		client           TEXT NOT NULL DEFAULT '',
		account_manager  TEXT NOT NULL DEFAULT '',
		solution         TEXT NOT NULL DEFAULT '',
		pic              TEXT NOT NULL DEFAULT '',
		include_weekends INTEGER NOT NULL DEFAULT 0,
		updated_at       TEXT NOT NULL
	)`,
}
