package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/repository"
	"github.com/alexmendoza/salesboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeek(t *testing.T) time.Time {
	t.Helper()
	week, err := calendar.ParseWeekStart("2026-08-30") // a Sunday
	require.NoError(t, err)
	return week
}

func TestLoadWeek_HappyPathCachesSnapshot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	f.backend.SeedProposalPlacement(*testutil.NewTestPlacement("prop-1", domain.PlacementProposal, week, calendar.Monday))
	task := *testutil.NewTestTask("Prep demo")
	f.backend.SeedTaskPlacement(task, *testutil.NewTestPlacement(task.ID, domain.PlacementTask, week, calendar.Monday))

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	assert.False(t, view.ReadOnly)
	assert.False(t, view.NonAuthoritative)
	assert.Len(t, view.Days[calendar.Monday], 2)
	assert.Contains(t, view.TaskByID, task.ID)

	// A successful load refreshes the local snapshot for offline fallback.
	cached, err := f.weekCache.Get(ctx, week)
	require.NoError(t, err)
	assert.Len(t, cached.Schedule.Proposals[calendar.Monday], 1)
}

func TestLoadWeek_PermissionDeniedShowsEmptyReadOnlyView(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	f.backend.LoadWeekErr = &backend.PermissionError{Op: "load week", Detail: "forbidden"}

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err, "a 403 is a presentation state, not an error")

	assert.True(t, view.ReadOnly)
	assert.Contains(t, view.Notice, "permission")
	for day := 0; day <= 6; day++ {
		assert.Empty(t, view.Days[day])
	}
}

func TestLoadWeek_BackendFailureFallsBackToCachedSnapshot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	f.backend.SeedProposalPlacement(*testutil.NewTestPlacement("prop-1", domain.PlacementProposal, week, calendar.Tuesday))

	svc := f.scheduleService()
	_, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	f.backend.LoadWeekErr = errors.New("connection refused")
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	assert.True(t, view.NonAuthoritative)
	assert.Contains(t, view.Notice, "local copy")
	require.Len(t, view.Days[calendar.Tuesday], 1)
	assert.Equal(t, "prop-1", view.Days[calendar.Tuesday][0].ItemID)
}

func TestLoadWeek_BackendFailureWithoutCacheShowsEmptyView(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.backend.LoadWeekErr = errors.New("connection refused")
	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, testWeek(t), nil)
	require.NoError(t, err)

	assert.True(t, view.NonAuthoritative)
	assert.Contains(t, view.Notice, "no local copy")
}

func TestLoadWeek_MergesUnsyncedLocalTasks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	local := testutil.NewTestTask("Offline note", testutil.WithSynced(false))
	require.NoError(t, f.taskCache.Upsert(ctx, repository.CachedTask{
		Task:      *local,
		WeekStart: week,
		DayIndex:  calendar.Wednesday,
	}))

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	require.Len(t, view.Days[calendar.Wednesday], 1)
	got := view.Days[calendar.Wednesday][0]
	assert.Equal(t, local.ID, got.ItemID)
	assert.False(t, view.TaskByID[local.ID].Synced,
		"a locally saved task must surface flagged, never silently merged")
}

func TestLoadWeek_DayOrderSurvivesReload(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	f.backend.SeedProposalPlacement(*testutil.NewTestPlacement("a", domain.PlacementProposal, week, calendar.Monday))
	f.backend.SeedProposalPlacement(*testutil.NewTestPlacement("b", domain.PlacementProposal, week, calendar.Monday))
	f.backend.SeedProposalPlacement(*testutil.NewTestPlacement("c", domain.PlacementProposal, week, calendar.Monday))

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)
	require.Len(t, view.Days[calendar.Monday], 3)

	// Move "c" to the front, then reload.
	require.NoError(t, svc.MoveWithinDay(ctx, view.Days[calendar.Monday][2], 0))

	reloaded, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)
	ids := placementIDs(reloaded.Days[calendar.Monday])
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestPlaceProposal_RejectsInvalidDay(t *testing.T) {
	f := setup(t)
	svc := f.scheduleService()

	err := svc.PlaceProposal(context.Background(), "prop-1", testWeek(t), 7)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.backend.Calls)
}

func TestMoveAcrossDays_ConservesItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	f.backend.SeedProposalPlacement(*testutil.NewTestPlacement("a", domain.PlacementProposal, week, calendar.Monday))
	f.backend.SeedProposalPlacement(*testutil.NewTestPlacement("b", domain.PlacementProposal, week, calendar.Monday))

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	reload, err := svc.MoveAcrossDays(ctx, view.Days[calendar.Monday][0], week, calendar.Thursday)
	require.NoError(t, err)
	assert.Nil(t, reload, "no reload needed on success")

	after, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	var total int
	for day := 0; day <= 6; day++ {
		total += len(after.Days[day])
	}
	assert.Equal(t, 2, total, "a move never creates or destroys placements")
	assert.Len(t, after.Days[calendar.Monday], 1)
	require.Len(t, after.Days[calendar.Thursday], 1)
	assert.Equal(t, "a", after.Days[calendar.Thursday][0].ItemID)
}

func TestMoveAcrossDays_BackendFailureReturnsReloadedView(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	f.backend.SeedProposalPlacement(*testutil.NewTestPlacement("a", domain.PlacementProposal, week, calendar.Monday))

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	f.backend.MoveProposalErr = errors.New("backend down")
	reload, err := svc.MoveAcrossDays(ctx, view.Days[calendar.Monday][0], week, calendar.Friday)
	require.Error(t, err)
	assert.True(t, backend.IsPersistence(err))

	// The caller gets the last-known-good week to replace its optimistic
	// picture: the item is still on Monday.
	require.NotNil(t, reload)
	require.Len(t, reload.Days[calendar.Monday], 1)
	assert.Empty(t, reload.Days[calendar.Friday])
}

func TestMoveAcrossDays_MovesCachedTaskSlot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	task := *testutil.NewTestTask("Prep demo")
	f.backend.SeedTaskPlacement(task, *testutil.NewTestPlacement(task.ID, domain.PlacementTask, week, calendar.Monday))
	require.NoError(t, f.taskCache.Upsert(ctx, repository.CachedTask{
		Task: task, WeekStart: week, DayIndex: calendar.Monday,
	}))

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	_, err = svc.MoveAcrossDays(ctx, view.Days[calendar.Monday][0], week, calendar.Friday)
	require.NoError(t, err)

	cached, err := f.taskCache.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.Friday, cached.DayIndex)
}

func TestDuplicate_TaskOnFridayWithWeekendsHiddenLandsOnMonday(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	task := *testutil.NewTestTask("Prep demo", testutil.WithPriority(domain.PriorityHigh))
	placement := *testutil.NewTestPlacement(task.ID, domain.PlacementTask, week, calendar.Friday)
	f.backend.SeedTaskPlacement(task, placement)

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, view, placement, false)
	require.NoError(t, err)

	assert.Equal(t, calendar.Monday, dup.DayIndex,
		"Saturday is hidden, so the copy wraps to Monday of the same week")
	assert.True(t, week.Equal(dup.WeekStart))
	assert.NotEqual(t, task.ID, dup.ItemID, "duplicate is a new task")

	created := f.backend.Weeks[calendar.FormatWeekStart(week)].TaskByID[dup.ItemID]
	assert.Equal(t, "Prep demo (Copy)", created.Title)
	assert.Equal(t, domain.PriorityHigh, created.Priority)
}

func TestDuplicate_TaskWithWeekendsShownLandsNextDay(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	task := *testutil.NewTestTask("Prep demo")
	placement := *testutil.NewTestPlacement(task.ID, domain.PlacementTask, week, calendar.Friday)
	f.backend.SeedTaskPlacement(task, placement)

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, view, placement, true)
	require.NoError(t, err)
	assert.Equal(t, calendar.Saturday, dup.DayIndex)
}

func TestDuplicate_ProposalReusesProposalID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	placement := *testutil.NewTestPlacement("prop-1", domain.PlacementProposal, week, calendar.Monday)
	f.backend.SeedProposalPlacement(placement)

	svc := f.scheduleService()
	view, err := svc.LoadWeek(ctx, week, nil)
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, view, placement, false)
	require.NoError(t, err)

	assert.Equal(t, "prop-1", dup.ItemID, "proposal duplicates re-place the same proposal")
	assert.Equal(t, calendar.Tuesday, dup.DayIndex)
}

func TestToggleCompletion_RevertsOnBackendFailure(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	placement := testutil.NewTestPlacement("prop-1", domain.PlacementProposal, week, calendar.Monday)
	f.backend.SeedProposalPlacement(*placement)

	svc := f.scheduleService()
	require.NoError(t, svc.ToggleCompletion(ctx, placement, true))
	assert.True(t, placement.Completed)

	f.backend.ToggleErr = errors.New("backend down")
	err := svc.ToggleCompletion(ctx, placement, false)
	require.Error(t, err)
	assert.True(t, backend.IsPersistence(err))
	assert.True(t, placement.Completed, "failed toggle reverts the optimistic change")
}

func TestSummary_CountsAndBusiestDay(t *testing.T) {
	f := setup(t)
	week := testWeek(t)

	view := &WeekView{
		WeekStart: week,
		TaskByID: map[string]domain.CustomTask{
			"t1": *testutil.NewTestTask("t1", testutil.WithPriority(domain.PriorityHigh)),
			"t2": *testutil.NewTestTask("t2", testutil.WithPriority(domain.PriorityLow)),
		},
	}
	view.Days[calendar.Monday] = []domain.Placement{
		*testutil.NewTestPlacement("prop-1", domain.PlacementProposal, week, calendar.Monday, testutil.WithCompleted(true)),
		*testutil.NewTestPlacement("t1", domain.PlacementTask, week, calendar.Monday),
	}
	view.Days[calendar.Thursday] = []domain.Placement{
		*testutil.NewTestPlacement("t2", domain.PlacementTask, week, calendar.Thursday),
		*testutil.NewTestPlacement("prop-2", domain.PlacementProposal, week, calendar.Thursday),
	}

	summary := f.scheduleService().Summary(view)
	assert.Equal(t, 4, summary.TotalItems)
	assert.Equal(t, 2, summary.ProposalCount)
	assert.Equal(t, 2, summary.CustomTasks)
	assert.Equal(t, 1, summary.CompletedCount)
	assert.Equal(t, 1, summary.PriorityCounts[domain.PriorityHigh])
	assert.Equal(t, 1, summary.PriorityCounts[domain.PriorityLow])
	assert.Equal(t, calendar.Monday, summary.BusiestDay, "ties resolve to the earliest day")
}

func TestSummary_EmptyWeek(t *testing.T) {
	f := setup(t)
	summary := f.scheduleService().Summary(&WeekView{WeekStart: testWeek(t)})
	assert.Zero(t, summary.TotalItems)
	assert.Equal(t, -1, summary.BusiestDay)
}

func TestListScheduleUsers_PermissionDeniedHidesSwitcher(t *testing.T) {
	f := setup(t)
	f.backend.ListUsersErr = &backend.PermissionError{Op: "list users"}

	users, err := f.scheduleService().ListScheduleUsers(context.Background())
	require.NoError(t, err)
	assert.Nil(t, users)
}

func placementIDs(placements []domain.Placement) []string {
	ids := make([]string, len(placements))
	for i, p := range placements {
		ids[i] = p.ItemID
	}
	return ids
}
