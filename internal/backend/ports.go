package backend

import (
	"context"
	"time"

	"github.com/alexmendoza/salesboard/internal/domain"
)

// HistoryEntry is one row of the external status-history log.
type HistoryEntry struct {
	ProposalID string
	NewStatus  domain.ProposalStatus
	Actor      string
	Reason     string
	At         time.Time
}

// WeekSchedule is the backend's view of one week: placements grouped by day
// index, plus the bodies of the custom tasks referenced by them.
type WeekSchedule struct {
	Proposals map[int][]domain.Placement
	Tasks     map[int][]domain.Placement
	TaskByID  map[string]domain.CustomTask
}

// NewWeekSchedule returns an empty schedule with all maps allocated.
func NewWeekSchedule() *WeekSchedule {
	return &WeekSchedule{
		Proposals: make(map[int][]domain.Placement),
		Tasks:     make(map[int][]domain.Placement),
		TaskByID:  make(map[string]domain.CustomTask),
	}
}

// ScheduleUser is a user whose schedule is visible to the caller, with the
// number of items currently placed on it.
type ScheduleUser struct {
	Username  string
	ItemCount int
}

// StatusAPI is the backend contract for proposal status changes.
type StatusAPI interface {
	// UpdateStatus persists a status change and returns the updated
	// proposal. On error the caller rolls back its in-memory status.
	UpdateStatus(ctx context.Context, proposalID string, status domain.ProposalStatus) (*domain.Proposal, error)

	// RecordHistory appends to the status-history log. Failures are
	// non-fatal: callers log and continue.
	RecordHistory(ctx context.Context, entry HistoryEntry) error
}

// ScheduleAPI is the backend contract for the weekly schedule.
type ScheduleAPI interface {
	// LoadWeek returns the placements for one week, optionally restricted
	// by a user filter. Denied reads return a PermissionError.
	LoadWeek(ctx context.Context, weekStart time.Time, filter *domain.FilterState) (*WeekSchedule, error)

	// PlaceProposal schedules a proposal into a (week, day) slot.
	PlaceProposal(ctx context.Context, proposalID string, weekStart time.Time, dayIndex int) error

	// MoveProposal moves an existing proposal placement to a new slot.
	// On error the caller reloads the week.
	MoveProposal(ctx context.Context, proposalID string, weekStart time.Time, dayIndex int) error

	// AddTask creates a custom task placed into a (week, day) slot and
	// returns its backend-acknowledged form.
	AddTask(ctx context.Context, task domain.CustomTask, weekStart time.Time, dayIndex int) (*domain.CustomTask, error)

	// UpdateTask saves edited task fields.
	UpdateTask(ctx context.Context, task domain.CustomTask) error

	// MoveTask moves a task placement to a new slot.
	MoveTask(ctx context.Context, taskID string, weekStart time.Time, dayIndex int) error

	// DeleteTask removes a task and its placement.
	DeleteTask(ctx context.Context, taskID string) error

	// ToggleCompletion sets the completed flag of one placement.
	ToggleCompletion(ctx context.Context, itemID string, itemType domain.PlacementType, weekStart time.Time, dayIndex int, completed bool) error

	// ListScheduleUsers lists users whose schedules the caller may view.
	// Non-fatal when forbidden.
	ListScheduleUsers(ctx context.Context) ([]ScheduleUser, error)
}

// ProposalAPI is the backend contract for reading the proposal set.
type ProposalAPI interface {
	// ListProposals returns every proposal visible to the caller.
	ListProposals(ctx context.Context) ([]*domain.Proposal, error)
}
