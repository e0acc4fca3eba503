package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexmendoza/salesboard/internal/db"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/repository"
	"github.com/alexmendoza/salesboard/internal/service"
	"github.com/alexmendoza/salesboard/internal/testutil"
)

func newTestApp(t *testing.T) (*App, *testutil.FakeBackend) {
	t.Helper()

	database := testutil.NewTestDB(t)
	fake := testutil.NewFakeBackend()

	orders := repository.NewSQLiteOrderRepo(database, db.NewSQLiteUnitOfWork(database))
	taskCache := repository.NewSQLiteTaskCacheRepo(database)
	weekCache := repository.NewSQLiteWeekCacheRepo(database)
	prefs := repository.NewSQLitePrefsRepo(database)

	app := &App{
		Status:    service.NewStatusService(fake, fake, orders, "mvega"),
		Schedule:  service.NewScheduleService(fake, orders, taskCache, weekCache),
		Tasks:     service.NewTaskService(fake, orders, taskCache),
		Filters:   service.NewFilterService(prefs),
		Proposals: fake,
		Username:  "mvega",
		Roles:     []domain.Role{domain.RoleSales},
	}
	return app, fake
}

// execute runs the CLI against a buffered output and fails the test on a
// command error.
func execute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := tryExecute(app, args...)
	require.NoError(t, err)
	return out
}

func tryExecute(app *App, args ...string) (string, error) {
	root := NewRootCmd(app)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}
