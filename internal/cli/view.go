package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewBoard ViewID = iota
	ViewWeek
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // header segment for this view
}

// Navigation messages between views and the root model.
type (
	pushViewMsg    struct{ view View }
	popViewMsg     struct{}
	refreshViewMsg struct{}
	noticeMsg      struct{ text string }
)

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Msg { return popViewMsg{} }

func refreshViews() tea.Msg { return refreshViewMsg{} }

func notify(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}
