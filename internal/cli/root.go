package cli

import (
	"context"
	"fmt"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Status    service.StatusService
	Schedule  service.ScheduleService
	Tasks     service.TaskService
	Filters   service.FilterService
	Proposals backend.ProposalAPI

	Username        string
	Roles           []domain.Role
	IncludeWeekends bool

	// IsInteractive reports whether stdin is a terminal; bare invocation
	// launches the TUI only when it is.
	IsInteractive func() bool
}

// sessionFilter resolves the effective filter: stored preference first,
// then the role-derived default.
func (a *App) sessionFilter(ctx context.Context) (domain.FilterState, error) {
	proposals, err := a.Proposals.ListProposals(ctx)
	if err != nil {
		return domain.FilterState{}, fmt.Errorf("listing proposals: %w", err)
	}
	return a.Filters.SessionFilter(ctx, a.Username, a.Roles, proposals)
}

// NewRootCmd creates the top-level "salesboard" command and registers all
// subcommands against the provided App. Bare invocation on a terminal
// starts the interactive board.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "salesboard",
		Short: "Proposal status board and weekly scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newBoardCmd(app),
		newWeekCmd(app),
		newScheduleCmd(app),
		newStatusCmd(app),
		newTaskCmd(app),
		newMoveCmd(app),
		newCompleteCmd(app),
		newSummaryCmd(app),
		newFilterCmd(app),
		newUsersCmd(app),
	)

	return root
}

// warnDegraded prints desync and persistence warnings without failing the
// command; hard errors pass through.
func warnDegraded(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	var desync *backend.DesyncWarning
	if asDesync(err, &desync) {
		fmt.Fprintln(cmd.OutOrStdout(), warningLine(desync.Detail))
		return nil
	}
	return err
}
