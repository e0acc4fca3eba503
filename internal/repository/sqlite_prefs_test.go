package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefs_SaveAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePrefsRepo(database)
	ctx := context.Background()

	prefs := &Prefs{
		Username: "mvega",
		Filter: domain.FilterState{
			SearchText: "acme",
			PIC:        "Mia Vega",
		},
		IncludeWeekends: true,
	}
	require.NoError(t, repo.Save(ctx, prefs))

	got, err := repo.Get(ctx, "mvega")
	require.NoError(t, err)
	assert.Equal(t, prefs.Filter, got.Filter)
	assert.True(t, got.IncludeWeekends)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestPrefs_GetMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePrefsRepo(database)

	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrefs_SaveOverwrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePrefsRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &Prefs{Username: "mvega", Filter: domain.FilterState{Client: "Acme"}}))
	require.NoError(t, repo.Save(ctx, &Prefs{Username: "mvega", Filter: domain.FilterState{Client: "Globex"}}))

	got, err := repo.Get(ctx, "mvega")
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.Filter.Client)
}

func TestWeekCache_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekCacheRepo(database)
	ctx := context.Background()

	week := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	schedule := backend.NewWeekSchedule()
	schedule.Proposals[1] = []domain.Placement{
		*testutil.NewTestPlacement("p1", domain.PlacementProposal, week, 1),
	}
	task := testutil.NewTestTask("Cached task")
	schedule.TaskByID[task.ID] = *task
	schedule.Tasks[3] = []domain.Placement{
		*testutil.NewTestPlacement(task.ID, domain.PlacementTask, week, 3),
	}

	cachedAt := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Put(ctx, CachedWeek{WeekStart: week, Schedule: schedule, CachedAt: cachedAt}))

	got, err := repo.Get(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, cachedAt, got.CachedAt)
	require.Len(t, got.Schedule.Proposals[1], 1)
	assert.Equal(t, "p1", got.Schedule.Proposals[1][0].ItemID)
	require.Len(t, got.Schedule.Tasks[3], 1)
	assert.Equal(t, task.Title, got.Schedule.TaskByID[task.ID].Title)
}

func TestWeekCache_GetMissing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekCacheRepo(database)

	_, err := repo.Get(context.Background(), time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWeekCache_PutOverwrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWeekCacheRepo(database)
	ctx := context.Background()

	week := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	first := backend.NewWeekSchedule()
	first.Proposals[0] = []domain.Placement{
		*testutil.NewTestPlacement("p1", domain.PlacementProposal, week, 0),
	}
	require.NoError(t, repo.Put(ctx, CachedWeek{WeekStart: week, Schedule: first, CachedAt: time.Now()}))

	second := backend.NewWeekSchedule()
	require.NoError(t, repo.Put(ctx, CachedWeek{WeekStart: week, Schedule: second, CachedAt: time.Now()}))

	got, err := repo.Get(ctx, week)
	require.NoError(t, err)
	assert.Empty(t, got.Schedule.Proposals)
}
