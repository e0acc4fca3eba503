package cli

import (
	"context"
	"fmt"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	var (
		offset, toWeek, day, index int
	)
	cmd := &cobra.Command{
		Use:   "move ITEM",
		Short: "Move a scheduled item to another day or position",
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

			// A position change within the same slot is a pure reorder.
			sameDay := !cmd.Flags().Changed("day") || day == placement.DayIndex
			if sameDay && toWeek == offset && cmd.Flags().Changed("index") {
				if err := app.Schedule.MoveWithinDay(ctx, *placement, index); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved to position %d on %s\n",
					index, calendar.DayLabel(placement.DayIndex))
				return nil
			}

			targetDay := placement.DayIndex
			if cmd.Flags().Changed("day") {
				targetDay = day
			}
			reloaded, err := app.Schedule.MoveAcrossDays(ctx, *placement, weekFor(toWeek), targetDay)
			if err != nil {
				var desync *backend.DesyncWarning
				if asDesync(err, &desync) {
					fmt.Fprintln(cmd.OutOrStdout(), warningLine(desync.Detail))
					return nil
				}
				// The move failed; show the authoritative week so the user
				// sees where the item really is.
				if reloaded != nil {
					fmt.Fprint(cmd.OutOrStdout(),
						formatter.FormatWeek(reloaded, app.IncludeWeekends, proposalNamer(ctx, app)))
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s\n", calendar.DayLabel(targetDay))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset the item is currently in")
	cmd.Flags().IntVar(&toWeek, "to-week", 0, "Target week offset")
	cmd.Flags().IntVar(&day, "day", 0, "Target day index (0=Sunday .. 6=Saturday)")
	cmd.Flags().IntVar(&index, "index", 0, "Target position within the day")
	return cmd
}

func newCompleteCmd(app *App) *cobra.Command {
	var (
		offset int
		undo   bool
	)
	cmd := &cobra.Command{
		Use:   "complete ITEM",
		Short: "Mark a scheduled item complete (or undo it)",
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

			if err := app.Schedule.ToggleCompletion(ctx, placement, !undo); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				formatter.CompletionMark(placement.Completed), placement.ItemID)
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset from the current week")
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the item incomplete instead")
	return cmd
}
