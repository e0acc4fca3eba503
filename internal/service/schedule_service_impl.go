package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/ordering"
	"github.com/alexmendoza/salesboard/internal/repository"
	"github.com/google/uuid"
)

type scheduleService struct {
	api       backend.ScheduleAPI
	orders    ordering.OrderStore
	taskCache repository.TaskCacheRepo
	weekCache repository.WeekCacheRepo
	observer  UseCaseObserver
}

// NewScheduleService creates the schedule placement service.
func NewScheduleService(
	api backend.ScheduleAPI,
	orders ordering.OrderStore,
	taskCache repository.TaskCacheRepo,
	weekCache repository.WeekCacheRepo,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		api:       api,
		orders:    orders,
		taskCache: taskCache,
		weekCache: weekCache,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) LoadWeek(ctx context.Context, weekStart time.Time, filter *domain.FilterState) (*WeekView, error) {
	started := time.Now()

	schedule, err := s.api.LoadWeek(ctx, weekStart, filter)
	switch {
	case err == nil:
		// Refresh the last-known-good snapshot. Best effort: a cache
		// write failure never degrades a successful load.
		_ = s.weekCache.Put(ctx, repository.CachedWeek{
			WeekStart: weekStart,
			Schedule:  schedule,
			CachedAt:  time.Now().UTC(),
		})

	case backend.IsPermission(err):
		s.observe(ctx, "schedule.load_week", started, err, weekStart)
		return &WeekView{
			WeekStart: weekStart,
			TaskByID:  map[string]domain.CustomTask{},
			Notice:    "You do not have permission to view this schedule.",
			ReadOnly:  true,
		}, nil

	default:
		cached, cacheErr := s.weekCache.Get(ctx, weekStart)
		if cacheErr != nil {
			s.observe(ctx, "schedule.load_week", started, err, weekStart)
			return &WeekView{
				WeekStart:        weekStart,
				TaskByID:         map[string]domain.CustomTask{},
				Notice:           "Schedule could not be loaded and no local copy exists.",
				NonAuthoritative: true,
			}, nil
		}
		schedule = cached.Schedule
		view, buildErr := s.buildView(ctx, weekStart, schedule)
		if buildErr != nil {
			return nil, buildErr
		}
		view.NonAuthoritative = true
		view.Notice = fmt.Sprintf("Showing local copy from %s; changes may be missing.",
			cached.CachedAt.Format("2006-01-02 15:04"))
		s.observe(ctx, "schedule.load_week", started, err, weekStart)
		return view, nil
	}

	view, err := s.buildView(ctx, weekStart, schedule)
	if err != nil {
		return nil, err
	}
	s.observe(ctx, "schedule.load_week", started, nil, weekStart)
	return view, nil
}

// buildView merges local unsynced tasks into the backend schedule and
// applies each day's persisted order, repairing orders that drifted.
func (s *scheduleService) buildView(ctx context.Context, weekStart time.Time, schedule *backend.WeekSchedule) (*WeekView, error) {
	view := &WeekView{
		WeekStart: weekStart,
		TaskByID:  make(map[string]domain.CustomTask, len(schedule.TaskByID)),
	}
	for id, task := range schedule.TaskByID {
		view.TaskByID[id] = task
	}

	byDay := make(map[int]map[string]domain.Placement)
	liveByDay := make(map[int][]string)
	appendDay := func(placements []domain.Placement) {
		for _, p := range placements {
			if !calendar.ValidDayIndex(p.DayIndex) {
				continue
			}
			if byDay[p.DayIndex] == nil {
				byDay[p.DayIndex] = make(map[string]domain.Placement)
			}
			if _, dup := byDay[p.DayIndex][p.ItemID]; dup {
				continue
			}
			byDay[p.DayIndex][p.ItemID] = p
			liveByDay[p.DayIndex] = append(liveByDay[p.DayIndex], p.ItemID)
		}
	}
	for day := 0; day <= 6; day++ {
		appendDay(schedule.Proposals[day])
		appendDay(schedule.Tasks[day])
	}

	// Local-only tasks surface in their slot, flagged unsynced, so a save
	// that fell back to the local store stays visible.
	local, err := s.taskCache.ListByWeek(ctx, weekStart)
	if err != nil {
		return nil, fmt.Errorf("listing local tasks: %w", err)
	}
	for _, cached := range local {
		if cached.Task.Synced {
			continue
		}
		if _, known := view.TaskByID[cached.Task.ID]; known {
			continue
		}
		view.TaskByID[cached.Task.ID] = cached.Task
		appendDay([]domain.Placement{{
			ID:        "local-" + cached.Task.ID,
			ItemID:    cached.Task.ID,
			Type:      domain.PlacementTask,
			WeekStart: weekStart,
			DayIndex:  cached.DayIndex,
		}})
	}

	for day := 0; day <= 6; day++ {
		live := liveByDay[day]
		if len(live) == 0 {
			continue
		}
		container := ordering.DayContainer(weekStart, day)
		order, err := s.orders.Load(ctx, container)
		if err != nil {
			return nil, fmt.Errorf("loading day order: %w", err)
		}
		reconciled := ordering.Reconcile(order, live)
		if !equalIDs(order, reconciled) {
			if err := s.orders.Persist(ctx, container, reconciled); err != nil {
				return nil, fmt.Errorf("repairing day order: %w", err)
			}
		}
		for _, id := range reconciled {
			view.Days[day] = append(view.Days[day], byDay[day][id])
		}
	}
	return view, nil
}

func (s *scheduleService) PlaceProposal(ctx context.Context, proposalID string, weekStart time.Time, dayIndex int) error {
	if !calendar.ValidDayIndex(dayIndex) {
		return &domain.ValidationError{Field: "dayIndex", Value: fmt.Sprint(dayIndex), Reason: "must be 0..6"}
	}
	if err := s.api.PlaceProposal(ctx, proposalID, weekStart, dayIndex); err != nil {
		return &backend.PersistenceError{Op: "placing proposal", Err: err}
	}
	return s.appendToDayOrder(ctx, weekStart, dayIndex, proposalID)
}

func (s *scheduleService) MoveWithinDay(ctx context.Context, p domain.Placement, newIndex int) error {
	container := ordering.DayContainer(p.WeekStart, p.DayIndex)
	if err := s.orders.Move(ctx, container, container, p.ItemID, newIndex); err != nil {
		return fmt.Errorf("reordering within day: %w", err)
	}
	return nil
}

func (s *scheduleService) MoveAcrossDays(ctx context.Context, p domain.Placement, targetWeek time.Time, targetDay int) (*WeekView, error) {
	if !calendar.ValidDayIndex(targetDay) {
		return nil, &domain.ValidationError{Field: "dayIndex", Value: fmt.Sprint(targetDay), Reason: "must be 0..6"}
	}

	var err error
	switch p.Type {
	case domain.PlacementProposal:
		err = s.api.MoveProposal(ctx, p.ItemID, targetWeek, targetDay)
	case domain.PlacementTask:
		err = s.api.MoveTask(ctx, p.ItemID, targetWeek, targetDay)
	default:
		return nil, &domain.ValidationError{Field: "type", Value: string(p.Type), Reason: "unknown placement type"}
	}
	if err != nil {
		// The optimistic UI move is now suspect. Reload from the backend
		// so the view shows last-known-good state, not the local patch.
		view, loadErr := s.LoadWeek(ctx, p.WeekStart, nil)
		if loadErr != nil {
			return nil, loadErr
		}
		return view, &backend.PersistenceError{Op: "moving placement", Err: err}
	}

	if err := s.orders.Move(ctx,
		ordering.DayContainer(p.WeekStart, p.DayIndex),
		ordering.DayContainer(targetWeek, targetDay),
		p.ItemID, orderEnd); err != nil {
		view, loadErr := s.LoadWeek(ctx, p.WeekStart, nil)
		if loadErr != nil {
			return nil, loadErr
		}
		return view, &backend.DesyncWarning{Detail: "day order was rebuilt after a failed reorder"}
	}

	if p.Type == domain.PlacementTask {
		s.moveCachedTask(ctx, p.ItemID, targetWeek, targetDay)
	}
	return nil, nil
}

// orderEnd appends to the target container; indices past the end clamp.
const orderEnd = 1 << 30

func (s *scheduleService) moveCachedTask(ctx context.Context, taskID string, targetWeek time.Time, targetDay int) {
	cached, err := s.taskCache.GetByID(ctx, taskID)
	if err != nil {
		return
	}
	cached.WeekStart = targetWeek
	cached.DayIndex = targetDay
	_ = s.taskCache.Upsert(ctx, *cached)
}

func (s *scheduleService) Duplicate(ctx context.Context, view *WeekView, p domain.Placement, includeWeekends bool) (*domain.Placement, error) {
	targetDay := calendar.NextDayIndex(p.DayIndex, includeWeekends)

	switch p.Type {
	case domain.PlacementTask:
		body, ok := view.TaskByID[p.ItemID]
		if !ok {
			return nil, &domain.ValidationError{Field: "placement", Value: p.ItemID, Reason: "task body not loaded"}
		}
		now := time.Now().UTC()
		dup := body
		dup.ID = uuid.New().String()
		dup.Title = body.CopyTitle()
		dup.CreatedAt = now
		dup.UpdatedAt = now

		created, err := s.api.AddTask(ctx, dup, p.WeekStart, targetDay)
		if err != nil {
			return nil, &backend.PersistenceError{Op: "duplicating task", Err: err}
		}
		_ = s.taskCache.Upsert(ctx, repository.CachedTask{
			Task:      *created,
			WeekStart: p.WeekStart,
			DayIndex:  targetDay,
		})
		if err := s.appendToDayOrder(ctx, p.WeekStart, targetDay, created.ID); err != nil {
			return nil, err
		}
		return &domain.Placement{
			ID:        uuid.New().String(),
			ItemID:    created.ID,
			Type:      domain.PlacementTask,
			WeekStart: p.WeekStart,
			DayIndex:  targetDay,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil

	case domain.PlacementProposal:
		// Duplicating a proposal re-places the same proposal ID under a
		// second placement; the proposal itself is not copied.
		if err := s.api.PlaceProposal(ctx, p.ItemID, p.WeekStart, targetDay); err != nil {
			return nil, &backend.PersistenceError{Op: "duplicating proposal placement", Err: err}
		}
		if err := s.appendToDayOrder(ctx, p.WeekStart, targetDay, p.ItemID); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		return &domain.Placement{
			ID:        uuid.New().String(),
			ItemID:    p.ItemID,
			Type:      domain.PlacementProposal,
			WeekStart: p.WeekStart,
			DayIndex:  targetDay,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil

	default:
		return nil, &domain.ValidationError{Field: "type", Value: string(p.Type), Reason: "unknown placement type"}
	}
}

func (s *scheduleService) ToggleCompletion(ctx context.Context, p *domain.Placement, completed bool) error {
	prev := p.Completed
	p.Completed = completed

	err := s.api.ToggleCompletion(ctx, p.ItemID, p.Type, p.WeekStart, p.DayIndex, completed)
	if err != nil {
		p.Completed = prev
		return &backend.PersistenceError{Op: "toggling completion", Err: err}
	}
	return nil
}

func (s *scheduleService) Summary(view *WeekView) WeekSummary {
	summary := WeekSummary{
		PriorityCounts: make(map[domain.TaskPriority]int),
		BusiestDay:     -1,
	}
	busiest := 0
	for day := 0; day <= 6; day++ {
		placements := view.Days[day]
		for _, p := range placements {
			summary.TotalItems++
			if p.Completed {
				summary.CompletedCount++
			}
			switch p.Type {
			case domain.PlacementProposal:
				summary.ProposalCount++
			case domain.PlacementTask:
				summary.CustomTasks++
				if task, ok := view.TaskByID[p.ItemID]; ok {
					summary.PriorityCounts[task.Priority]++
				}
			}
		}
		// Strict greater keeps the lowest day index on ties.
		if len(placements) > busiest {
			busiest = len(placements)
			summary.BusiestDay = day
		}
	}
	return summary
}

func (s *scheduleService) ListScheduleUsers(ctx context.Context) ([]backend.ScheduleUser, error) {
	users, err := s.api.ListScheduleUsers(ctx)
	if err != nil {
		if backend.IsPermission(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing schedule users: %w", err)
	}
	return users, nil
}

func (s *scheduleService) appendToDayOrder(ctx context.Context, weekStart time.Time, dayIndex int, itemID string) error {
	container := ordering.DayContainer(weekStart, dayIndex)
	order, err := s.orders.Load(ctx, container)
	if err != nil {
		return fmt.Errorf("loading day order: %w", err)
	}
	if err := s.orders.Persist(ctx, container, ordering.InsertAt(order, itemID, len(order))); err != nil {
		return fmt.Errorf("appending to day order: %w", err)
	}
	return nil
}

func (s *scheduleService) observe(ctx context.Context, name string, started time.Time, err error, weekStart time.Time) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"week": calendar.FormatWeekStart(weekStart)},
		StartedAt: started,
	})
}
