package domain

import "time"

// CustomTask is an ad-hoc scheduling item not tied to a proposal. Unlike
// proposals, custom tasks are owned entirely by this application: created,
// edited, duplicated and deleted here.
type CustomTask struct {
	ID          string
	Title       string
	Description string
	Time        string // optional clock time, e.g. "14:30"
	Priority    TaskPriority
	Category    string
	Comment     string

	// Synced is false while the task exists only in the local fallback
	// store and has not been acknowledged by the backend.
	Synced bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CopyTitle returns the title used for a duplicated task.
func (t *CustomTask) CopyTitle() string {
	return t.Title + " (Copy)"
}
