package cli

import (
	"context"
	"fmt"

	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/spf13/cobra"
)

func newFilterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage the board and schedule filter",
	}
	cmd.AddCommand(newFilterShowCmd(app), newFilterSetCmd(app), newFilterClearCmd(app))
	return cmd
}

func newFilterShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := app.sessionFilter(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFilter(filter))
			return nil
		},
	}
}

func newFilterSetCmd(app *App) *cobra.Command {
	var search, client, am, solution, pic string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set and persist the filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.FilterState{
				SearchText:     search,
				Client:         client,
				AccountManager: am,
				Solution:       solution,
				PIC:            pic,
			}
			if err := app.Filters.SaveFilter(context.Background(), app.Username, filter, app.IncludeWeekends); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFilter(filter))
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Free-text search over all proposal fields")
	cmd.Flags().StringVar(&client, "client", "", "Exact client match")
	cmd.Flags().StringVar(&am, "am", "", "Exact account manager match")
	cmd.Flags().StringVar(&solution, "solution", "", "Exact solution match")
	cmd.Flags().StringVar(&pic, "pic", "", "Exact PIC match")
	return cmd
}

func newFilterClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the persisted filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Filters.SaveFilter(context.Background(), app.Username, domain.FilterState{}, app.IncludeWeekends); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Filter cleared."))
			return nil
		},
	}
}

func newUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users whose schedules you can view",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Schedule.ListScheduleUsers(context.Background())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Schedule browsing is not available for your account."))
				return nil
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.Username, fmt.Sprintf("%d", u.ItemCount)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"USER", "ITEMS"}, rows))
			return nil
		},
	}
}
