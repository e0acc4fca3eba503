package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/service"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage proposal statuses",
	}
	cmd.AddCommand(newStatusSetCmd(app), newStatusShowCmd(app))
	return cmd
}

func newStatusSetCmd(app *App) *cobra.Command {
	var (
		reason string
		date   string
	)
	cmd := &cobra.Command{
		Use:   "set PROPOSAL STATUS",
		Short: "Move a proposal to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			p, err := resolveProposal(ctx, app, args[0])
			if err != nil {
				return err
			}
			target, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}

			// Entering Submitted records a submission date; today unless
			// one was given or already set.
			if service.SubmittedNeedsDate(p, target) {
				when := time.Now()
				if date != "" {
					if when, err = time.Parse(calendar.DateLayout, date); err != nil {
						return fmt.Errorf("parsing --date: %w", err)
					}
				}
				p.SubmissionDate = &when
			}

			if err := app.Status.Transition(ctx, p, target, reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", p.Client, formatter.StatusPill(p.Status))
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the status history")
	cmd.Flags().StringVar(&date, "date", "", "Submission date (YYYY-MM-DD, default today)")
	return cmd
}

func newStatusShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROPOSAL",
		Short: "Show proposal details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProposal(ctx, app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProposal(p))
			return nil
		},
	}
}
