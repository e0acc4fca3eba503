package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel is the root bubbletea Model for the TUI. It manages a view
// stack whose base alternates between the board and the week views.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool
}

func newAppModel(app *App) appModel {
	state := &SharedState{
		App:             app,
		IncludeWeekends: app.IncludeWeekends,
	}
	// A failed preference load falls back to an empty filter; the TUI
	// must come up even when the local store is unhappy.
	if filter, err := app.sessionFilter(context.Background()); err == nil {
		state.Filter = filter
	}

	m := appModel{state: state}
	m.viewStack = []View{newBoardView(state)}
	return m
}

func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case refreshViewMsg:
		// Broadcast so a base view redraws after a form above it mutated
		// data.
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "q":
			// Forms and search fields consume plain keys themselves.
			if v := m.activeView(); v != nil && v.ID() != ViewForm && !viewCapturesText(v) {
				m.quitting = true
				return m, tea.Quit
			}
		case "tab":
			if v := m.activeView(); v != nil && v.ID() != ViewForm && !viewCapturesText(v) {
				return m.toggleBase()
			}
		}
		return m.forward(msg)

	default:
		return m.forward(msg)
	}
}

// viewCapturesText reports whether the active view is in a text-entry
// mode, so global single-key shortcuts must not fire.
func viewCapturesText(v View) bool {
	if bv, ok := v.(*boardView); ok {
		return bv.searching
	}
	return false
}

func (m appModel) toggleBase() (tea.Model, tea.Cmd) {
	if len(m.viewStack) != 1 {
		return m, nil
	}
	var next View
	if m.viewStack[0].ID() == ViewBoard {
		next = newWeekView(m.state)
	} else {
		next = newBoardView(m.state)
	}
	m.viewStack[0] = next
	return m, next.Init()
}

func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := m.activeView()
	if v == nil {
		return m, nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return m, cmd
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	v := m.activeView()
	if v == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.Header(v.Title()) + "\n\n")
	b.WriteString(v.View())
	b.WriteString("\n" + renderShortHelp(v))
	return b.String()
}

func renderShortHelp(v View) string {
	parts := make([]string, 0, 8)
	for _, binding := range v.ShortHelp() {
		h := binding.Help()
		parts = append(parts, fmt.Sprintf("%s %s",
			formatter.StyleFg.Render(h.Key), formatter.Dim(h.Desc)))
	}
	parts = append(parts, formatter.StyleFg.Render("q")+" "+formatter.Dim("quit"))
	return formatter.Dim(strings.Join(parts, "  ·  "))
}

// runTUI starts the interactive board in the alternate screen.
func runTUI(app *App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
