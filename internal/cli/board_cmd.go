package cli

import (
	"context"
	"fmt"

	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the proposal status board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			filter := domain.FilterState{}
			if !all {
				var err error
				if filter, err = app.sessionFilter(ctx); err != nil {
					return err
				}
			}

			columns, err := app.Status.Columns(ctx, filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(columns))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Ignore the active filter")
	return cmd
}
