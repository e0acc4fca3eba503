package cli

import (
	"context"
	"fmt"

	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage custom scheduled tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskEditCmd(app),
		newTaskRemoveCmd(app),
		newTaskDupCmd(app),
		newTaskResyncCmd(app),
	)
	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		title, priority, category, desc, clock string
		day, offset                            int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom task to the schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			task := domain.CustomTask{
				Title:       title,
				Description: desc,
				Time:        clock,
				Priority:    domain.TaskPriority(priority),
				Category:    category,
			}
			created, err := app.Tasks.Create(ctx, task, weekFor(offset), day)
			if warned := warnDegraded(cmd, err); warned != nil {
				return warned
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n",
				formatter.Bold(created.Title), formatter.PriorityPill(created.Priority))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().IntVar(&day, "day", 1, "Day index (0=Sunday .. 6=Saturday)")
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset from the current week")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: low, medium or high")
	cmd.Flags().StringVar(&category, "category", "", "Free-form category label")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&clock, "time", "", "Clock time, e.g. 14:30")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskEditCmd(app *App) *cobra.Command {
	var (
		title, priority, category, desc string
		offset                          int
	)
	cmd := &cobra.Command{
		Use:   "edit TASK",
		Short: "Edit a scheduled task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			view, err := app.Schedule.LoadWeek(ctx, weekFor(offset), nil)
			if err != nil {
				return err
			}
			placement, err := findPlacement(view, args[0])
			if err != nil {
				return err
			}
			task, ok := view.TaskByID[placement.ItemID]
			if !ok {
				return fmt.Errorf("%q is a proposal placement; only custom tasks can be edited here", args[0])
			}

			if cmd.Flags().Changed("title") {
				task.Title = title
			}
			if cmd.Flags().Changed("priority") {
				task.Priority = domain.TaskPriority(priority)
			}
			if cmd.Flags().Changed("category") {
				task.Category = category
			}
			if cmd.Flags().Changed("desc") {
				task.Description = desc
			}

			if warned := warnDegraded(cmd, app.Tasks.Update(ctx, task)); warned != nil {
				return warned
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.Bold(task.Title))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&desc, "desc", "", "New description")
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset from the current week")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "rm TASK",
		Short: "Delete a scheduled task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			view, err := app.Schedule.LoadWeek(ctx, weekFor(offset), nil)
			if err != nil {
				return err
			}
			placement, err := findPlacement(view, args[0])
			if err != nil {
				return err
			}
			task, ok := view.TaskByID[placement.ItemID]
			if !ok {
				return fmt.Errorf("%q is a proposal placement; unschedule it instead", args[0])
			}

			if err := app.Tasks.Delete(ctx, task.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Bold(task.Title))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset from the current week")
	return cmd
}

func newTaskDupCmd(app *App) *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "dup ITEM",
		Short: "Duplicate a scheduled item to the next day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			view, err := app.Schedule.LoadWeek(ctx, weekFor(offset), nil)
			if err != nil {
				return err
			}
			placement, err := findPlacement(view, args[0])
			if err != nil {
				return err
			}

			dup, err := app.Schedule.Duplicate(ctx, view, *placement, app.IncludeWeekends)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Duplicated to %s\n", calendar.DayLabel(dup.DayIndex))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset from the current week")
	return cmd
}

func newTaskResyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Push locally saved tasks to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			synced, err := app.Tasks.ResyncPending(context.Background())
			if warned := warnDegraded(cmd, err); warned != nil {
				return warned
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d task(s)\n", synced)
			return nil
		},
	}
}
