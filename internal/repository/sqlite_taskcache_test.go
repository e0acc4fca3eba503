package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCache_UpsertAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTaskCacheRepo(database)
	ctx := context.Background()

	week := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	task := testutil.NewTestTask("Call client", testutil.WithPriority(domain.PriorityHigh), testutil.WithSynced(false))
	require.NoError(t, repo.Upsert(ctx, CachedTask{Task: *task, WeekStart: week, DayIndex: 5}))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call client", got.Task.Title)
	assert.Equal(t, domain.PriorityHigh, got.Task.Priority)
	assert.False(t, got.Task.Synced)
	assert.Equal(t, week, got.WeekStart)
	assert.Equal(t, 5, got.DayIndex)
}

func TestTaskCache_GetMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTaskCacheRepo(database)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskCache_ListByWeekOrdersByDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTaskCacheRepo(database)
	ctx := context.Background()

	week := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	otherWeek := week.AddDate(0, 0, 7)

	friday := testutil.NewTestTask("Friday task")
	monday := testutil.NewTestTask("Monday task")
	elsewhere := testutil.NewTestTask("Next week task")
	require.NoError(t, repo.Upsert(ctx, CachedTask{Task: *friday, WeekStart: week, DayIndex: 5}))
	require.NoError(t, repo.Upsert(ctx, CachedTask{Task: *monday, WeekStart: week, DayIndex: 1}))
	require.NoError(t, repo.Upsert(ctx, CachedTask{Task: *elsewhere, WeekStart: otherWeek, DayIndex: 1}))

	got, err := repo.ListByWeek(ctx, week)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Monday task", got[0].Task.Title)
	assert.Equal(t, "Friday task", got[1].Task.Title)
}

func TestTaskCache_UnsyncedLifecycle(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTaskCacheRepo(database)
	ctx := context.Background()

	week := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	pending := testutil.NewTestTask("Offline task", testutil.WithSynced(false))
	synced := testutil.NewTestTask("Synced task", testutil.WithSynced(true))
	require.NoError(t, repo.Upsert(ctx, CachedTask{Task: *pending, WeekStart: week, DayIndex: 2}))
	require.NoError(t, repo.Upsert(ctx, CachedTask{Task: *synced, WeekStart: week, DayIndex: 2}))

	unsynced, err := repo.ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, pending.ID, unsynced[0].Task.ID)

	require.NoError(t, repo.MarkSynced(ctx, pending.ID))

	unsynced, err = repo.ListUnsynced(ctx)
	require.NoError(t, err)
	assert.Empty(t, unsynced)
}

func TestTaskCache_MarkSyncedMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTaskCacheRepo(database)

	err := repo.MarkSynced(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskCache_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTaskCacheRepo(database)
	ctx := context.Background()

	week := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	task := testutil.NewTestTask("Doomed")
	require.NoError(t, repo.Upsert(ctx, CachedTask{Task: *task, WeekStart: week, DayIndex: 0}))
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
