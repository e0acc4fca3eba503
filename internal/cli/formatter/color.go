package formatter

import (
	"fmt"
	"strings"

	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the lipgloss style for a proposal status.
func StatusStyle(status domain.ProposalStatus) lipgloss.Style {
	switch status {
	case domain.StatusNotStarted:
		return StyleDim
	case domain.StatusOngoing:
		return StyleBlue
	case domain.StatusForRevision:
		return StyleYellow
	case domain.StatusForApproval:
		return StylePurple
	case domain.StatusSubmitted:
		return StyleGreen
	case domain.StatusNoDecisionYet:
		return StyleRed
	default:
		return StyleDim
	}
}

// StatusPill returns a colored status indicator such as "● Ongoing".
func StatusPill(status domain.ProposalStatus) string {
	switch status {
	case domain.StatusNotStarted:
		return StyleDim.Render("○ Not Started")
	case domain.StatusOngoing:
		return StyleBlue.Render("● Ongoing")
	case domain.StatusForRevision:
		return StyleYellow.Render("● For Revision")
	case domain.StatusForApproval:
		return StylePurple.Render("● For Approval")
	case domain.StatusSubmitted:
		return StyleGreen.Render("✔ Submitted")
	case domain.StatusNoDecisionYet:
		return StyleRed.Render("◌ No Decision Yet")
	default:
		return StyleDim.Render(status.Label())
	}
}

// PriorityPill returns a colored priority indicator for a custom task.
func PriorityPill(p domain.TaskPriority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ high")
	case domain.PriorityMedium:
		return StyleYellow.Render("■ med")
	case domain.PriorityLow:
		return StyleGreen.Render("▼ low")
	default:
		return StyleDim.Render(string(p))
	}
}

// CompletionMark returns the checkbox shown next to a scheduled item.
func CompletionMark(completed bool) string {
	if completed {
		return StyleGreen.Render("[x]")
	}
	return StyleDim.Render("[ ]")
}

// UnsyncedBadge marks an item that exists only in the local store.
func UnsyncedBadge() string {
	return StyleYellow.Render("⇅ unsynced")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Notice renders a degraded-state banner (offline fallback, permission
// denial) in yellow so it stands out above the week grid.
func Notice(text string) string {
	if text == "" {
		return ""
	}
	return StyleYellow.Render("⚠ " + text)
}
