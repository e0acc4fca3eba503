package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/service"
)

// resolveProposal finds a proposal by full ID, ID prefix or case-insensitive
// client substring. Ambiguous references are an error rather than a guess.
func resolveProposal(ctx context.Context, app *App, ref string) (*domain.Proposal, error) {
	proposals, err := app.Proposals.ListProposals(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}

	for _, p := range proposals {
		if p.ID == ref {
			return p, nil
		}
	}

	var matches []*domain.Proposal
	needle := strings.ToLower(ref)
	for _, p := range proposals {
		if strings.HasPrefix(p.ID, ref) || strings.Contains(strings.ToLower(p.Client), needle) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no proposal matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		var names []string
		for _, p := range matches {
			names = append(names, fmt.Sprintf("%s (%s)", p.Client, shortID(p.ID)))
		}
		return nil, fmt.Errorf("%q is ambiguous: %s", ref, strings.Join(names, ", "))
	}
}

// findPlacement locates a scheduled item in a week view by item ID, ID
// prefix, or for tasks a case-insensitive title substring.
func findPlacement(view *service.WeekView, ref string) (*domain.Placement, error) {
	var matches []domain.Placement
	needle := strings.ToLower(ref)
	for day := 0; day <= 6; day++ {
		for _, p := range view.Days[day] {
			if p.ItemID == ref {
				found := p
				return &found, nil
			}
			if strings.HasPrefix(p.ItemID, ref) {
				matches = append(matches, p)
				continue
			}
			if task, ok := view.TaskByID[p.ItemID]; ok &&
				strings.Contains(strings.ToLower(task.Title), needle) {
				matches = append(matches, p)
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("nothing scheduled matches %q", ref)
	case 1:
		found := matches[0]
		return &found, nil
	default:
		return nil, fmt.Errorf("%q matches %d scheduled items; use more of the ID", ref, len(matches))
	}
}

// shortID abbreviates an ID for display. IDs are opaque backend values and
// may be arbitrarily short.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// weekFor resolves a week offset flag to a week start.
func weekFor(offset int) time.Time {
	return calendar.WeekStart(time.Now(), offset)
}

// proposalNamer returns a lookup from proposal ID to client name, for
// rendering proposal placements.
func proposalNamer(ctx context.Context, app *App) func(string) string {
	proposals, err := app.Proposals.ListProposals(ctx)
	if err != nil {
		return nil
	}
	byID := make(map[string]string, len(proposals))
	for _, p := range proposals {
		byID[p.ID] = p.Client
	}
	return func(id string) string { return byID[id] }
}

func asDesync(err error, target **backend.DesyncWarning) bool {
	return errors.As(err, target)
}

func warningLine(detail string) string {
	return formatter.Notice(detail)
}
