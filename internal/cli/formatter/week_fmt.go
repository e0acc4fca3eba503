package formatter

import (
	"fmt"
	"strings"

	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/service"
)

// FormatWeek renders the week grid, one section per visible day. Degraded
// state notices render above the grid.
func FormatWeek(view *service.WeekView, includeWeekends bool, proposalName func(string) string) string {
	var b strings.Builder
	if view.Notice != "" {
		b.WriteString(Notice(view.Notice) + "\n\n")
	}
	if view.ReadOnly {
		return b.String()
	}

	b.WriteString(Header("Week of "+HumanDate(view.WeekStart)) + "\n\n")
	for _, day := range calendar.VisibleDays(includeWeekends) {
		b.WriteString(formatDay(view, day, proposalName))
	}
	return b.String()
}

func formatDay(view *service.WeekView, day int, proposalName func(string) string) string {
	var b strings.Builder
	date := calendar.DayDate(view.WeekStart, day)
	b.WriteString(StyleHeader.Render(calendar.DayLabel(day)) + "  " + Dim(date.Format("Jan 2")) + "\n")

	placements := view.Days[day]
	if len(placements) == 0 {
		b.WriteString(Dim("  (empty)") + "\n\n")
		return b.String()
	}
	for _, p := range placements {
		b.WriteString("  " + FormatPlacement(view, p, proposalName) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// FormatPlacement renders one scheduled item line: completion mark, title,
// and for tasks the priority and sync state.
func FormatPlacement(view *service.WeekView, p domain.Placement, proposalName func(string) string) string {
	line := CompletionMark(p.Completed) + " "
	switch p.Type {
	case domain.PlacementTask:
		task, ok := view.TaskByID[p.ItemID]
		if !ok {
			return line + Dim(p.ItemID)
		}
		line += Bold(Truncate(task.Title, 40)) + "  " + PriorityPill(task.Priority)
		if task.Category != "" {
			line += "  " + StylePurple.Render(task.Category)
		}
		if !task.Synced {
			line += "  " + UnsyncedBadge()
		}
	case domain.PlacementProposal:
		name := p.ItemID
		if proposalName != nil {
			if n := proposalName(p.ItemID); n != "" {
				name = n
			}
		}
		line += StyleBlue.Render("◆") + " " + Bold(Truncate(name, 40)) + "  " + TruncID(p.ItemID)
	}
	return line
}

// FormatSummary renders the weekly workload summary block.
func FormatSummary(summary service.WeekSummary) string {
	var b strings.Builder
	b.WriteString(Header("Week Summary") + "\n")
	b.WriteString(fmt.Sprintf("  %s  %d\n", Dim("ITEMS    "), summary.TotalItems))
	b.WriteString(fmt.Sprintf("  %s  %d\n", Dim("PROPOSALS"), summary.ProposalCount))
	b.WriteString(fmt.Sprintf("  %s  %d\n", Dim("TASKS    "), summary.CustomTasks))
	b.WriteString(fmt.Sprintf("  %s  %d/%d\n", Dim("DONE     "), summary.CompletedCount, summary.TotalItems))

	if summary.CustomTasks > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s %d  %s %d  %s %d\n", Dim("PRIORITY "),
			StyleRed.Render("high"), summary.PriorityCounts[domain.PriorityHigh],
			StyleYellow.Render("med"), summary.PriorityCounts[domain.PriorityMedium],
			StyleGreen.Render("low"), summary.PriorityCounts[domain.PriorityLow]))
	}
	if summary.BusiestDay >= 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("BUSIEST  "), calendar.DayLabel(summary.BusiestDay)))
	}
	return b.String()
}
