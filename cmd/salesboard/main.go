package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/cli"
	"github.com/alexmendoza/salesboard/internal/config"
	"github.com/alexmendoza/salesboard/internal/db"
	"github.com/alexmendoza/salesboard/internal/repository"
	"github.com/alexmendoza/salesboard/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer database.Close()

	// Local repositories: ordering, offline caches and preferences.
	uow := db.NewSQLiteUnitOfWork(database)
	orders := repository.NewSQLiteOrderRepo(database, uow)
	taskCache := repository.NewSQLiteTaskCacheRepo(database)
	weekCache := repository.NewSQLiteWeekCacheRepo(database)
	prefs := repository.NewSQLitePrefsRepo(database)

	client := backend.NewHTTPClient(
		cfg.Backend.URL,
		cfg.User.Username,
		time.Duration(cfg.Backend.TimeoutMs)*time.Millisecond,
	)

	var observers []service.UseCaseObserver
	if cfg.Verbose {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Status:          service.NewStatusService(client, client, orders, cfg.User.Username, observers...),
		Schedule:        service.NewScheduleService(client, orders, taskCache, weekCache, observers...),
		Tasks:           service.NewTaskService(client, orders, taskCache, observers...),
		Filters:         service.NewFilterService(prefs),
		Proposals:       client,
		Username:        cfg.User.Username,
		Roles:           cfg.Roles(),
		IncludeWeekends: cfg.Schedule.IncludeWeekends,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
