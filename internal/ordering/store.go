package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/domain"
)

// OrderStore persists explicit ID orderings keyed by container identity.
// One container per kanban status column, one per (week, day) calendar slot.
type OrderStore interface {
	// Persist stores the full ordered ID list for a container. Persisting
	// an identical list is a no-op change.
	Persist(ctx context.Context, containerID string, ids []string) error

	// Load returns the persisted order, or an empty slice if the container
	// was never persisted.
	Load(ctx context.Context, containerID string) ([]string, error)

	// Move removes id from the source container's order and inserts it at
	// toIndex in the target container's order as one atomic operation:
	// on failure neither order is left partially applied.
	Move(ctx context.Context, fromContainer, toContainer, id string, toIndex int) error
}

// ColumnContainer returns the container ID for a kanban status column.
func ColumnContainer(status domain.ProposalStatus) string {
	return fmt.Sprintf("column:%s", status)
}

// DayContainer returns the container ID for one calendar day slot.
func DayContainer(weekStart time.Time, dayIndex int) string {
	return fmt.Sprintf("day:%s:%d", calendar.FormatWeekStart(weekStart), dayIndex)
}
