package service

import (
	"testing"

	"github.com/alexmendoza/salesboard/internal/db"
	"github.com/alexmendoza/salesboard/internal/repository"
	"github.com/alexmendoza/salesboard/internal/testutil"
)

type fixture struct {
	backend   *testutil.FakeBackend
	orders    *repository.SQLiteOrderRepo
	taskCache *repository.SQLiteTaskCacheRepo
	weekCache *repository.SQLiteWeekCacheRepo
	prefs     *repository.SQLitePrefsRepo
}

func setup(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &fixture{
		backend:   testutil.NewFakeBackend(),
		orders:    repository.NewSQLiteOrderRepo(database, db.NewSQLiteUnitOfWork(database)),
		taskCache: repository.NewSQLiteTaskCacheRepo(database),
		weekCache: repository.NewSQLiteWeekCacheRepo(database),
		prefs:     repository.NewSQLitePrefsRepo(database),
	}
}

func (f *fixture) statusService(actor string) StatusService {
	return NewStatusService(f.backend, f.backend, f.orders, actor)
}

func (f *fixture) scheduleService() ScheduleService {
	return NewScheduleService(f.backend, f.orders, f.taskCache, f.weekCache)
}

func (f *fixture) taskService() TaskService {
	return NewTaskService(f.backend, f.orders, f.taskCache)
}

func (f *fixture) filterService() FilterService {
	return NewFilterService(f.prefs)
}
