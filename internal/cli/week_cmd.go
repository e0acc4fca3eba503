package cli

import (
	"context"
	"fmt"

	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newWeekCmd(app *App) *cobra.Command {
	var (
		offset   int
		weekends bool
	)
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the weekly schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			filter, err := app.sessionFilter(ctx)
			if err != nil {
				return err
			}
			view, err := app.Schedule.LoadWeek(ctx, weekFor(offset), &filter)
			if err != nil {
				return err
			}

			show := weekends || app.IncludeWeekends
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeek(view, show, proposalNamer(ctx, app)))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset from the current week (negative is past)")
	cmd.Flags().BoolVar(&weekends, "weekends", false, "Include Saturday and Sunday")
	return cmd
}

func newScheduleCmd(app *App) *cobra.Command {
	var (
		offset int
		day    int
	)
	cmd := &cobra.Command{
		Use:   "schedule PROPOSAL",
		Short: "Place a proposal onto a day of the week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			p, err := resolveProposal(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Schedule.PlaceProposal(ctx, p.ID, weekFor(offset), day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s on %s\n",
				formatter.Bold(p.Client), calendar.DayLabel(day))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset from the current week")
	cmd.Flags().IntVar(&day, "day", 1, "Day index (0=Sunday .. 6=Saturday)")
	return cmd
}

func newSummaryCmd(app *App) *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the weekly workload summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			view, err := app.Schedule.LoadWeek(ctx, weekFor(offset), nil)
			if err != nil {
				return err
			}
			if view.Notice != "" {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Notice(view.Notice))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(app.Schedule.Summary(view)))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "week", 0, "Week offset from the current week")
	return cmd
}
