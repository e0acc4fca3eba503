package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/ordering"
	"github.com/alexmendoza/salesboard/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	api       backend.ScheduleAPI
	orders    ordering.OrderStore
	taskCache repository.TaskCacheRepo
	observer  UseCaseObserver
}

// NewTaskService creates the custom task service.
func NewTaskService(
	api backend.ScheduleAPI,
	orders ordering.OrderStore,
	taskCache repository.TaskCacheRepo,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		api:       api,
		orders:    orders,
		taskCache: taskCache,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, task domain.CustomTask, weekStart time.Time, dayIndex int) (*domain.CustomTask, error) {
	started := time.Now()

	if task.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Value: "", Reason: "must not be empty"}
	}
	if !calendar.ValidDayIndex(dayIndex) {
		return nil, &domain.ValidationError{Field: "dayIndex", Value: fmt.Sprint(dayIndex), Reason: "must be 0..6"}
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	} else if !domain.ValidPriorities[task.Priority] {
		return nil, &domain.ValidationError{Field: "priority", Value: string(task.Priority), Reason: "unknown priority"}
	}

	now := time.Now().UTC()
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.CreatedAt = now
	task.UpdatedAt = now

	created, err := s.api.AddTask(ctx, task, weekStart, dayIndex)
	if err != nil {
		// Offline fallback: keep the task locally with an explicit
		// unsynced flag so the reconciliation pass can push it later.
		// The task stays visible but is never merged silently.
		task.Synced = false
		if cacheErr := s.taskCache.Upsert(ctx, repository.CachedTask{
			Task:      task,
			WeekStart: weekStart,
			DayIndex:  dayIndex,
		}); cacheErr != nil {
			return nil, fmt.Errorf("saving task locally after backend failure: %w", cacheErr)
		}
		if orderErr := s.appendToDayOrder(ctx, weekStart, dayIndex, task.ID); orderErr != nil {
			return nil, orderErr
		}
		s.observe(ctx, "task.create", started, err, task.ID)
		return &task, &backend.DesyncWarning{Detail: "task saved locally, not yet synced"}
	}

	created.Synced = true
	if err := s.taskCache.Upsert(ctx, repository.CachedTask{
		Task:      *created,
		WeekStart: weekStart,
		DayIndex:  dayIndex,
	}); err != nil {
		return nil, fmt.Errorf("caching created task: %w", err)
	}
	if err := s.appendToDayOrder(ctx, weekStart, dayIndex, created.ID); err != nil {
		return nil, err
	}
	s.observe(ctx, "task.create", started, nil, created.ID)
	return created, nil
}

func (s *taskService) Update(ctx context.Context, task domain.CustomTask) error {
	started := time.Now()

	if task.Title == "" {
		return &domain.ValidationError{Field: "title", Value: "", Reason: "must not be empty"}
	}
	if !domain.ValidPriorities[task.Priority] {
		return &domain.ValidationError{Field: "priority", Value: string(task.Priority), Reason: "unknown priority"}
	}

	cached, err := s.taskCache.GetByID(ctx, task.ID)
	if err != nil {
		return fmt.Errorf("looking up task: %w", err)
	}
	task.UpdatedAt = time.Now().UTC()

	apiErr := s.api.UpdateTask(ctx, task)
	if apiErr != nil {
		task.Synced = false
		if cacheErr := s.taskCache.Upsert(ctx, repository.CachedTask{
			Task:      task,
			WeekStart: cached.WeekStart,
			DayIndex:  cached.DayIndex,
		}); cacheErr != nil {
			return fmt.Errorf("saving edit locally after backend failure: %w", cacheErr)
		}
		s.observe(ctx, "task.update", started, apiErr, task.ID)
		return &backend.DesyncWarning{Detail: "edit saved locally, not yet synced"}
	}

	task.Synced = true
	if err := s.taskCache.Upsert(ctx, repository.CachedTask{
		Task:      task,
		WeekStart: cached.WeekStart,
		DayIndex:  cached.DayIndex,
	}); err != nil {
		return fmt.Errorf("caching updated task: %w", err)
	}
	s.observe(ctx, "task.update", started, nil, task.ID)
	return nil
}

func (s *taskService) Delete(ctx context.Context, taskID string) error {
	started := time.Now()

	cached, err := s.taskCache.GetByID(ctx, taskID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("looking up task: %w", err)
	}

	if apiErr := s.api.DeleteTask(ctx, taskID); apiErr != nil {
		s.observe(ctx, "task.delete", started, apiErr, taskID)
		return &backend.PersistenceError{Op: "deleting task", Err: apiErr}
	}

	if err := s.taskCache.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("deleting cached task: %w", err)
	}
	if cached != nil {
		container := ordering.DayContainer(cached.WeekStart, cached.DayIndex)
		order, err := s.orders.Load(ctx, container)
		if err != nil {
			return fmt.Errorf("loading day order: %w", err)
		}
		if err := s.orders.Persist(ctx, container, ordering.Remove(order, taskID)); err != nil {
			return fmt.Errorf("removing task from day order: %w", err)
		}
	}
	s.observe(ctx, "task.delete", started, nil, taskID)
	return nil
}

func (s *taskService) ResyncPending(ctx context.Context) (int, error) {
	started := time.Now()

	pending, err := s.taskCache.ListUnsynced(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing unsynced tasks: %w", err)
	}

	synced := 0
	var firstErr error
	for _, cached := range pending {
		if _, err := s.api.AddTask(ctx, cached.Task, cached.WeekStart, cached.DayIndex); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.taskCache.MarkSynced(ctx, cached.Task.ID); err != nil {
			return synced, fmt.Errorf("marking task synced: %w", err)
		}
		synced++
	}

	s.observe(ctx, "task.resync", started, firstErr, fmt.Sprintf("%d/%d", synced, len(pending)))
	if firstErr != nil {
		return synced, &backend.DesyncWarning{
			Detail: fmt.Sprintf("%d of %d tasks still unsynced", len(pending)-synced, len(pending)),
		}
	}
	return synced, nil
}

func (s *taskService) appendToDayOrder(ctx context.Context, weekStart time.Time, dayIndex int, itemID string) error {
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

func (s *taskService) observe(ctx context.Context, name string, started time.Time, err error, detail string) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    map[string]any{"task": detail},
		StartedAt: started,
	})
}
