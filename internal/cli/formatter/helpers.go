package formatter

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		return StyleDim.Render(id[:8])
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to at most width visible characters, adding an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:1])
	}
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}

// HumanDate renders a date as "Mon, Jan 2".
func HumanDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// PadVisible right-pads s with spaces to the given visible width,
// accounting for ANSI escape sequences.
func PadVisible(s string, width int) string {
	pad := width - lipgloss.Width(s)
	for pad > 0 {
		s += " "
		pad--
	}
	return s
}
