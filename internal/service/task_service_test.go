package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/ordering"
	"github.com/alexmendoza/salesboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_SyncsAndCaches(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	svc := f.taskService()
	created, err := svc.Create(ctx, domain.CustomTask{Title: "Prep demo"}, week, calendar.Monday)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Synced)
	assert.Equal(t, domain.PriorityMedium, created.Priority, "priority defaults to medium")

	cached, err := f.taskCache.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, cached.Task.Synced)

	order, err := f.orders.Load(ctx, ordering.DayContainer(week, calendar.Monday))
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, order)
}

func TestCreateTask_ValidatesInput(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)
	svc := f.taskService()

	var verr *domain.ValidationError

	_, err := svc.Create(ctx, domain.CustomTask{}, week, calendar.Monday)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = svc.Create(ctx, domain.CustomTask{Title: "x"}, week, 9)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "dayIndex", verr.Field)

	_, err = svc.Create(ctx, domain.CustomTask{Title: "x", Priority: "urgent"}, week, calendar.Monday)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)

	assert.Empty(t, f.backend.Calls)
}

func TestCreateTask_BackendFailureFallsBackToLocalStore(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	f.backend.AddTaskErr = errors.New("backend down")
	svc := f.taskService()

	created, err := svc.Create(ctx, domain.CustomTask{Title: "Offline note"}, week, calendar.Tuesday)

	// The task survives the outage, but the caller is told it is local-only.
	var warn *backend.DesyncWarning
	require.ErrorAs(t, err, &warn)
	require.NotNil(t, created)
	assert.False(t, created.Synced)

	cached, cacheErr := f.taskCache.GetByID(ctx, created.ID)
	require.NoError(t, cacheErr)
	assert.False(t, cached.Task.Synced)
	assert.Equal(t, calendar.Tuesday, cached.DayIndex)

	order, orderErr := f.orders.Load(ctx, ordering.DayContainer(week, calendar.Tuesday))
	require.NoError(t, orderErr)
	assert.Equal(t, []string{created.ID}, order)
}

func TestUpdateTask_BackendFailureSavesEditLocally(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	svc := f.taskService()
	created, err := svc.Create(ctx, domain.CustomTask{Title: "Prep demo"}, week, calendar.Monday)
	require.NoError(t, err)

	f.backend.UpdateTaskErr = errors.New("backend down")
	edited := *created
	edited.Title = "Prep demo v2"
	err = svc.Update(ctx, edited)

	var warn *backend.DesyncWarning
	require.ErrorAs(t, err, &warn)

	cached, cacheErr := f.taskCache.GetByID(ctx, created.ID)
	require.NoError(t, cacheErr)
	assert.Equal(t, "Prep demo v2", cached.Task.Title, "the edit is kept, not dropped")
	assert.False(t, cached.Task.Synced)
	assert.Equal(t, calendar.Monday, cached.DayIndex, "slot is preserved across an offline edit")
}

func TestUpdateTask_SuccessMarksSynced(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	svc := f.taskService()
	created, err := svc.Create(ctx, domain.CustomTask{Title: "Prep demo"}, week, calendar.Monday)
	require.NoError(t, err)

	edited := *created
	edited.Priority = domain.PriorityHigh
	require.NoError(t, svc.Update(ctx, edited))

	cached, cacheErr := f.taskCache.GetByID(ctx, created.ID)
	require.NoError(t, cacheErr)
	assert.Equal(t, domain.PriorityHigh, cached.Task.Priority)
	assert.True(t, cached.Task.Synced)
}

func TestDeleteTask_RemovesCacheAndOrderEntry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	svc := f.taskService()
	a, err := svc.Create(ctx, domain.CustomTask{Title: "a"}, week, calendar.Monday)
	require.NoError(t, err)
	b, err := svc.Create(ctx, domain.CustomTask{Title: "b"}, week, calendar.Monday)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))

	_, cacheErr := f.taskCache.GetByID(ctx, a.ID)
	assert.Error(t, cacheErr)

	order, orderErr := f.orders.Load(ctx, ordering.DayContainer(week, calendar.Monday))
	require.NoError(t, orderErr)
	assert.Equal(t, []string{b.ID}, order)
}

func TestDeleteTask_BackendFailure(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	svc := f.taskService()
	created, err := svc.Create(ctx, domain.CustomTask{Title: "a"}, week, calendar.Monday)
	require.NoError(t, err)

	f.backend.DeleteTaskErr = errors.New("backend down")
	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, backend.IsPersistence(err))

	// Nothing local is removed until the backend confirms.
	_, cacheErr := f.taskCache.GetByID(ctx, created.ID)
	assert.NoError(t, cacheErr)
}

func TestResyncPending_PushesUnsyncedTasks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	svc := f.taskService()

	f.backend.AddTaskErr = errors.New("backend down")
	first, err := svc.Create(ctx, domain.CustomTask{Title: "offline 1"}, week, calendar.Monday)
	require.Error(t, err)
	second, err := svc.Create(ctx, domain.CustomTask{Title: "offline 2"}, week, calendar.Tuesday)
	require.Error(t, err)

	f.backend.AddTaskErr = nil
	synced, err := svc.ResyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	for _, id := range []string{first.ID, second.ID} {
		cached, cacheErr := f.taskCache.GetByID(ctx, id)
		require.NoError(t, cacheErr)
		assert.True(t, cached.Task.Synced)
	}

	pending, err := f.taskCache.ListUnsynced(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResyncPending_ReportsRemainingFailures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	week := testWeek(t)

	svc := f.taskService()

	f.backend.AddTaskErr = errors.New("backend down")
	_, err := svc.Create(ctx, domain.CustomTask{Title: "offline"}, week, calendar.Monday)
	require.Error(t, err)

	synced, err := svc.ResyncPending(ctx)
	assert.Zero(t, synced)

	var warn *backend.DesyncWarning
	require.ErrorAs(t, err, &warn)
	assert.Contains(t, warn.Detail, "still unsynced")

	pending, listErr := f.taskCache.ListUnsynced(ctx)
	require.NoError(t, listErr)
	assert.Len(t, pending, 1, "the task stays pending for the next attempt")
}

func TestCopyTitle(t *testing.T) {
	task := testutil.NewTestTask("Prep demo")
	assert.Equal(t, "Prep demo (Copy)", task.CopyTitle())
}
