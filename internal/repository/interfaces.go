package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// CachedTask is a locally stored custom task together with its slot.
type CachedTask struct {
	Task      domain.CustomTask
	WeekStart time.Time
	DayIndex  int
}

// TaskCacheRepo is the local copy of custom tasks. Tasks saved while the
// backend is unreachable are stored with Synced=false and re-pushed by the
// reconciliation pass; they are never silently merged.
type TaskCacheRepo interface {
	Upsert(ctx context.Context, t CachedTask) error
	GetByID(ctx context.Context, id string) (*CachedTask, error)
	ListByWeek(ctx context.Context, weekStart time.Time) ([]CachedTask, error)
	ListUnsynced(ctx context.Context) ([]CachedTask, error)
	MarkSynced(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// CachedWeek is a non-authoritative snapshot of a backend week load.
type CachedWeek struct {
	WeekStart time.Time
	Schedule  *backend.WeekSchedule
	CachedAt  time.Time
}

// WeekCacheRepo stores last-known-good weekly schedules for the offline
// read path.
type WeekCacheRepo interface {
	Put(ctx context.Context, w CachedWeek) error
	Get(ctx context.Context, weekStart time.Time) (*CachedWeek, error)
}

// Prefs is the per-user preference snapshot reloaded at session start.
type Prefs struct {
	Username        string
	Filter          domain.FilterState
	IncludeWeekends bool
	UpdatedAt       time.Time
}

// PrefsRepo persists per-user preferences.
type PrefsRepo interface {
	Get(ctx context.Context, username string) (*Prefs, error)
	Save(ctx context.Context, p *Prefs) error
}
