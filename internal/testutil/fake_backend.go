package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/domain"
)

// FakeBackend is an in-memory implementation of the backend ports with
// per-operation error injection. It records every call so tests can assert
// on the exact sequence of backend interactions.
type FakeBackend struct {
	Proposals map[string]*domain.Proposal
	Weeks     map[string]*backend.WeekSchedule
	History   []backend.HistoryEntry
	Users     []backend.ScheduleUser

	// Injected errors, returned by the corresponding operation when set.
	UpdateStatusErr error
	HistoryErr      error
	LoadWeekErr     error
	PlaceErr        error
	MoveProposalErr error
	AddTaskErr      error
	UpdateTaskErr   error
	MoveTaskErr     error
	DeleteTaskErr   error
	ToggleErr       error
	ListUsersErr    error

	// Calls records operation names in invocation order.
	Calls []string
}

// NewFakeBackend returns an empty fake.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Proposals: make(map[string]*domain.Proposal),
		Weeks:     make(map[string]*backend.WeekSchedule),
	}
}

func (f *FakeBackend) record(op string) {
	f.Calls = append(f.Calls, op)
}

func (f *FakeBackend) week(weekStart time.Time) *backend.WeekSchedule {
	key := calendar.FormatWeekStart(weekStart)
	if f.Weeks[key] == nil {
		f.Weeks[key] = backend.NewWeekSchedule()
	}
	return f.Weeks[key]
}

// AddProposal seeds a proposal into the fake.
func (f *FakeBackend) AddProposal(p *domain.Proposal) {
	cp := *p
	f.Proposals[p.ID] = &cp
}

// SeedProposalPlacement seeds an existing proposal placement into a week.
func (f *FakeBackend) SeedProposalPlacement(p domain.Placement) {
	w := f.week(p.WeekStart)
	w.Proposals[p.DayIndex] = append(w.Proposals[p.DayIndex], p)
}

// SeedTaskPlacement seeds a custom task and its placement into a week.
func (f *FakeBackend) SeedTaskPlacement(task domain.CustomTask, p domain.Placement) {
	w := f.week(p.WeekStart)
	w.TaskByID[task.ID] = task
	w.Tasks[p.DayIndex] = append(w.Tasks[p.DayIndex], p)
}

// ── StatusAPI ────────────────────────────────────────────────────────────────

func (f *FakeBackend) UpdateStatus(_ context.Context, proposalID string, status domain.ProposalStatus) (*domain.Proposal, error) {
	f.record("UpdateStatus")
	if f.UpdateStatusErr != nil {
		return nil, f.UpdateStatusErr
	}
	p, ok := f.Proposals[proposalID]
	if !ok {
		return nil, &backend.PersistenceError{Op: "update status", Err: fmt.Errorf("proposal %s not found", proposalID)}
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (f *FakeBackend) RecordHistory(_ context.Context, entry backend.HistoryEntry) error {
	f.record("RecordHistory")
	if f.HistoryErr != nil {
		return f.HistoryErr
	}
	f.History = append(f.History, entry)
	return nil
}

// ── ProposalAPI ──────────────────────────────────────────────────────────────

func (f *FakeBackend) ListProposals(_ context.Context) ([]*domain.Proposal, error) {
	f.record("ListProposals")
	out := make([]*domain.Proposal, 0, len(f.Proposals))
	for _, p := range f.Proposals {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// ── ScheduleAPI ──────────────────────────────────────────────────────────────

func (f *FakeBackend) LoadWeek(_ context.Context, weekStart time.Time, _ *domain.FilterState) (*backend.WeekSchedule, error) {
	f.record("LoadWeek")
	if f.LoadWeekErr != nil {
		return nil, f.LoadWeekErr
	}
	return copyWeek(f.week(weekStart)), nil
}

func (f *FakeBackend) PlaceProposal(_ context.Context, proposalID string, weekStart time.Time, dayIndex int) error {
	f.record("PlaceProposal")
	if f.PlaceErr != nil {
		return f.PlaceErr
	}
	w := f.week(weekStart)
	w.Proposals[dayIndex] = append(w.Proposals[dayIndex], domain.Placement{
		ID:        fmt.Sprintf("pl-%s-%d", proposalID, len(w.Proposals[dayIndex])),
		ItemID:    proposalID,
		Type:      domain.PlacementProposal,
		WeekStart: weekStart,
		DayIndex:  dayIndex,
	})
	return nil
}

func (f *FakeBackend) MoveProposal(_ context.Context, proposalID string, weekStart time.Time, dayIndex int) error {
	f.record("MoveProposal")
	if f.MoveProposalErr != nil {
		return f.MoveProposalErr
	}
	w := f.week(weekStart)
	moved := removePlacement(w.Proposals, proposalID)
	if moved == nil {
		return f.PlaceProposal(context.Background(), proposalID, weekStart, dayIndex)
	}
	moved.DayIndex = dayIndex
	w.Proposals[dayIndex] = append(w.Proposals[dayIndex], *moved)
	return nil
}

func (f *FakeBackend) AddTask(_ context.Context, task domain.CustomTask, weekStart time.Time, dayIndex int) (*domain.CustomTask, error) {
	f.record("AddTask")
	if f.AddTaskErr != nil {
		return nil, f.AddTaskErr
	}
	task.Synced = true
	w := f.week(weekStart)
	w.TaskByID[task.ID] = task
	w.Tasks[dayIndex] = append(w.Tasks[dayIndex], domain.Placement{
		ID:        fmt.Sprintf("pl-%s", task.ID),
		ItemID:    task.ID,
		Type:      domain.PlacementTask,
		WeekStart: weekStart,
		DayIndex:  dayIndex,
	})
	return &task, nil
}

func (f *FakeBackend) UpdateTask(_ context.Context, task domain.CustomTask) error {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	for _, w := range f.Weeks {
		if _, ok := w.TaskByID[task.ID]; ok {
			w.TaskByID[task.ID] = task
			return nil
		}
	}
	return &backend.PersistenceError{Op: "update task", Err: fmt.Errorf("task %s not found", task.ID)}
}

func (f *FakeBackend) MoveTask(_ context.Context, taskID string, weekStart time.Time, dayIndex int) error {
	f.record("MoveTask")
	if f.MoveTaskErr != nil {
		return f.MoveTaskErr
	}
	w := f.week(weekStart)
	moved := removePlacement(w.Tasks, taskID)
	if moved == nil {
		return &backend.PersistenceError{Op: "move task", Err: fmt.Errorf("task %s not placed", taskID)}
	}
	moved.DayIndex = dayIndex
	w.Tasks[dayIndex] = append(w.Tasks[dayIndex], *moved)
	return nil
}

func (f *FakeBackend) DeleteTask(_ context.Context, taskID string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for _, w := range f.Weeks {
		if _, ok := w.TaskByID[taskID]; ok {
			delete(w.TaskByID, taskID)
			removePlacement(w.Tasks, taskID)
			return nil
		}
	}
	return nil
}

func (f *FakeBackend) ToggleCompletion(_ context.Context, itemID string, itemType domain.PlacementType, weekStart time.Time, dayIndex int, completed bool) error {
	f.record("ToggleCompletion")
	if f.ToggleErr != nil {
		return f.ToggleErr
	}
	w := f.week(weekStart)
	byDay := w.Proposals
	if itemType == domain.PlacementTask {
		byDay = w.Tasks
	}
	for i := range byDay[dayIndex] {
		if byDay[dayIndex][i].ItemID == itemID {
			byDay[dayIndex][i].Completed = completed
			return nil
		}
	}
	return &backend.PersistenceError{Op: "toggle completion", Err: fmt.Errorf("placement for %s not found", itemID)}
}

func (f *FakeBackend) ListScheduleUsers(_ context.Context) ([]backend.ScheduleUser, error) {
	f.record("ListScheduleUsers")
	if f.ListUsersErr != nil {
		return nil, f.ListUsersErr
	}
	return f.Users, nil
}

func removePlacement(byDay map[int][]domain.Placement, itemID string) *domain.Placement {
	for day, placements := range byDay {
		for i, p := range placements {
			if p.ItemID == itemID {
				byDay[day] = append(placements[:i:i], placements[i+1:]...)
				cp := p
				return &cp
			}
		}
	}
	return nil
}

func copyWeek(w *backend.WeekSchedule) *backend.WeekSchedule {
	out := backend.NewWeekSchedule()
	for day, placements := range w.Proposals {
		out.Proposals[day] = append([]domain.Placement{}, placements...)
	}
	for day, placements := range w.Tasks {
		out.Tasks[day] = append([]domain.Placement{}, placements...)
	}
	for id, task := range w.TaskByID {
		out.TaskByID[id] = task
	}
	return out
}
