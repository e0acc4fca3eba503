package service

import (
	"context"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/domain"
)

// BoardColumn is one rendered kanban column: a status plus its proposals in
// display order.
type BoardColumn struct {
	Status    domain.ProposalStatus
	Proposals []*domain.Proposal
}

// StatusService is the proposal status state machine plus the board-side
// drag commit. Transitions are permissive (any status to any other); the
// machine's job is validation, optimistic update with rollback, and the
// history side effect.
type StatusService interface {
	// Transition moves a proposal to target. The in-memory status is
	// updated optimistically and rolled back if the backend update fails.
	// A history entry is recorded on success; history failures are logged
	// and swallowed.
	Transition(ctx context.Context, p *domain.Proposal, target domain.ProposalStatus, reason string) error

	// ReturnToNoDecision quarantines a proposal. The confirmation step is
	// the caller's responsibility.
	ReturnToNoDecision(ctx context.Context, p *domain.Proposal) error

	// MoveCard commits a board drag: status transition plus the cross-column
	// order move, with rollback-by-reload when the order move fails.
	MoveCard(ctx context.Context, p *domain.Proposal, target domain.ProposalStatus, targetIndex int) error

	// ReconcileColumn emits the proposals of one column in persisted order,
	// filtered to the live set, with unknown live items appended, and
	// repairs the persisted order to match.
	ReconcileColumn(ctx context.Context, status domain.ProposalStatus, live []*domain.Proposal) ([]*domain.Proposal, error)

	// Columns renders the whole board for the given filter.
	Columns(ctx context.Context, filter domain.FilterState) ([]BoardColumn, error)
}

// WeekView is one week of the schedule in display form: placements per day
// in persisted order, task bodies, and degradation flags for the two
// fallback read paths.
type WeekView struct {
	WeekStart time.Time
	Days      [7][]domain.Placement
	TaskByID  map[string]domain.CustomTask

	// Notice is a human-readable degradation message, empty on the happy path.
	Notice string
	// ReadOnly is set when the backend denied the read.
	ReadOnly bool
	// NonAuthoritative is set when the view came from the local cache.
	NonAuthoritative bool
}

// WeekSummary aggregates one week's placements.
type WeekSummary struct {
	TotalItems     int
	ProposalCount  int
	CustomTasks    int
	PriorityCounts map[domain.TaskPriority]int
	CompletedCount int
	// BusiestDay is the day index with the most placements, ties broken
	// by lowest index; -1 for an empty week.
	BusiestDay int
}

// ScheduleService places proposals and custom tasks onto (week, day) slots
// and keeps per-day display orders.
type ScheduleService interface {
	// LoadWeek loads one week. Permission denials degrade to an empty
	// read-only view with a notice; other failures fall back to the local
	// cache, flagged non-authoritative.
	LoadWeek(ctx context.Context, weekStart time.Time, filter *domain.FilterState) (*WeekView, error)

	// PlaceProposal schedules a proposal into a slot and appends it to the
	// day's order.
	PlaceProposal(ctx context.Context, proposalID string, weekStart time.Time, dayIndex int) error

	// MoveWithinDay reorders one placement inside its day.
	MoveWithinDay(ctx context.Context, p domain.Placement, newIndex int) error

	// MoveAcrossDays moves a placement to another (week, day) slot. On
	// backend failure the week is reloaded from the backend and returned
	// alongside the error, so the caller renders last-known-good state
	// instead of the optimistic position.
	MoveAcrossDays(ctx context.Context, p domain.Placement, targetWeek time.Time, targetDay int) (*WeekView, error)

	// Duplicate copies a placement to the next displayed day of the same
	// week: custom tasks are copied with a "(Copy)" title, proposals are
	// re-placed under a second placement of the same proposal ID.
	Duplicate(ctx context.Context, view *WeekView, p domain.Placement, includeWeekends bool) (*domain.Placement, error)

	// ToggleCompletion flips one placement's completed flag optimistically
	// and reverts it if the backend call fails.
	ToggleCompletion(ctx context.Context, p *domain.Placement, completed bool) error

	// Summary folds one week's placements into aggregate counts.
	Summary(view *WeekView) WeekSummary

	// ListScheduleUsers lists users whose schedules may be viewed.
	// Permission denials yield an empty list, not an error.
	ListScheduleUsers(ctx context.Context) ([]backend.ScheduleUser, error)
}

// TaskService owns custom tasks: creation, edits, deletion and the offline
// fallback with explicit unsynced state.
type TaskService interface {
	// Create saves a new task into a (week, day) slot. If the backend is
	// unreachable the task is kept in the local store with Synced=false
	// and a DesyncWarning is returned alongside the task.
	Create(ctx context.Context, task domain.CustomTask, weekStart time.Time, dayIndex int) (*domain.CustomTask, error)

	// Update saves edited task fields, falling back to the local store on
	// backend failure.
	Update(ctx context.Context, task domain.CustomTask) error

	// Delete removes a task and its placement everywhere.
	Delete(ctx context.Context, taskID string) error

	// ResyncPending pushes every unsynced local task to the backend.
	// It returns the number of tasks successfully synced. Tasks that
	// still fail stay unsynced; nothing is merged silently.
	ResyncPending(ctx context.Context) (int, error)
}

// FilterService matches proposals against filter predicates and manages
// the per-user preference snapshot.
type FilterService interface {
	// Matches reports whether a proposal passes every non-empty predicate.
	Matches(p *domain.Proposal, filter domain.FilterState) bool

	// Apply filters a proposal list.
	Apply(proposals []*domain.Proposal, filter domain.FilterState) []*domain.Proposal

	// DeriveRoleDefault computes the role-based default filter for a user
	// with no stored preference. Sales and Admin get no default.
	DeriveRoleDefault(roles []domain.Role, proposals []*domain.Proposal, username string) domain.FilterState

	// SessionFilter resolves the filter to apply at session start: the
	// stored preference when present, otherwise the role-derived default.
	SessionFilter(ctx context.Context, username string, roles []domain.Role, proposals []*domain.Proposal) (domain.FilterState, error)

	// SaveFilter persists the user's filter as their preference snapshot.
	SaveFilter(ctx context.Context, username string, filter domain.FilterState, includeWeekends bool) error
}
