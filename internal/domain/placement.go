package domain

import "time"

// Placement assigns a schedulable item (proposal or custom task) to a
// (weekStart, dayIndex) slot. An item occupies at most one placement per
// week it is scheduled into; moving mutates the slot rather than creating
// a second placement. Completion is tracked per placement, not per item,
// so the same proposal rescheduled across weeks completes independently.
type Placement struct {
	ID        string
	ItemID    string
	Type      PlacementType
	WeekStart time.Time // midnight Sunday
	DayIndex  int       // 0..6, Sunday..Saturday
	Completed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FilterState is the multi-predicate filter over the proposal set. Every
// field is independently optional; an empty field matches all proposals.
type FilterState struct {
	SearchText     string
	Client         string
	AccountManager string
	Solution       string
	PIC            string
}

// IsZero reports whether no predicate is set.
func (f FilterState) IsZero() bool {
	return f == FilterState{}
}
