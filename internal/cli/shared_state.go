package cli

import "github.com/alexmendoza/salesboard/internal/domain"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Effective filter for the session. Loaded once at startup; edited
	// filters are written back through the filter service.
	Filter domain.FilterState

	// Scheduler navigation state.
	WeekOffset      int
	IncludeWeekends bool

	// Terminal dimensions.
	Width  int
	Height int
}
