package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexmendoza/salesboard/internal/backend"
	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/alexmendoza/salesboard/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// boardLoadedMsg carries a finished column load. Token-stale responses are
// dropped so an old load can never overwrite a newer one.
type boardLoadedMsg struct {
	token   int
	columns []service.BoardColumn
	err     error
}

// searchFireMsg is the trailing edge of the search debounce.
type searchFireMsg struct{ token int }

// boardView shows the six status columns with a movable cursor.
type boardView struct {
	state   *SharedState
	columns []service.BoardColumn
	colIdx  int
	rowIdx  int
	loading bool
	err     error
	notice  string

	search    textinput.Model
	searching bool
	deb       debouncer
	guard     loadGuard
}

func newBoardView(state *SharedState) *boardView {
	ti := textinput.New()
	ti.Placeholder = "search all fields"
	ti.Prompt = "/ "
	ti.CharLimit = 80
	return &boardView{state: state, search: ti, loading: true}
}

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "Board" }

func (v *boardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "column")),
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "card")),
		key.NewBinding(key.WithKeys("H", "L"), key.WithHelp("H/L", "move card")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no decision")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "week")),
	}
}

func (v *boardView) Init() tea.Cmd {
	return v.load()
}

func (v *boardView) load() tea.Cmd {
	token := v.guard.Next()
	app := v.state.App
	filter := v.state.Filter
	return func() tea.Msg {
		columns, err := app.Status.Columns(context.Background(), filter)
		return boardLoadedMsg{token: token, columns: columns, err: err}
	}
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		if v.guard.Stale(msg.token) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.columns = msg.columns
			v.clampCursor()
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case searchFireMsg:
		if v.deb.Stale(msg.token) {
			return v, nil
		}
		v.state.Filter.SearchText = v.search.Value()
		return v, v.load()

	case noticeMsg:
		v.notice = msg.text
		return v, nil

	case tea.KeyMsg:
		if v.searching {
			return v.updateSearch(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

// updateSearch feeds keys to the search input and arms the debounce; the
// load fires only after typing pauses, and a stale fire is discarded.
func (v *boardView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.searching = false
		v.search.Blur()
		v.search.SetValue("")
		v.state.Filter.SearchText = ""
		return v, v.load()
	case tea.KeyEnter:
		v.searching = false
		v.search.Blur()
		v.state.Filter.SearchText = v.search.Value()
		return v, v.load()
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	token := v.deb.Arm()
	return v, tea.Batch(cmd, fireAfter(searchDebounce, searchFireMsg{token: token}))
}

func (v *boardView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		v.searching = true
		v.search.SetValue(v.state.Filter.SearchText)
		return v, v.search.Focus()

	case "h", "left":
		if v.colIdx > 0 {
			v.colIdx--
			v.clampCursor()
		}
	case "l", "right":
		if v.colIdx < len(v.columns)-1 {
			v.colIdx++
			v.clampCursor()
		}
	case "k", "up":
		if v.rowIdx > 0 {
			v.rowIdx--
		}
	case "j", "down":
		if col := v.currentColumn(); col != nil && v.rowIdx < len(col.Proposals)-1 {
			v.rowIdx++
		}

	case "H":
		return v, v.moveCard(-1)
	case "L":
		return v, v.moveCard(+1)

	case "n":
		p := v.currentProposal()
		if p == nil {
			return v, nil
		}
		return v, v.confirmNoDecision(p)

	case "enter":
		if p := v.currentProposal(); p != nil {
			v.notice = formatter.FormatProposal(p)
		}

	case "r":
		v.loading = true
		return v, v.load()
	}
	return v, nil
}

// moveCard shifts the selected card one column left or right and commits
// the transition. Entering Submitted without a recorded date detours
// through the date form first.
func (v *boardView) moveCard(direction int) tea.Cmd {
	p := v.currentProposal()
	if p == nil {
		return nil
	}
	targetIdx := v.colIdx + direction
	if targetIdx < 0 || targetIdx >= len(v.columns) {
		return nil
	}
	target := v.columns[targetIdx].Status
	index := len(v.columns[targetIdx].Proposals)

	if service.SubmittedNeedsDate(p, target) {
		return v.submitWithDate(p, target, index)
	}
	return v.commitMove(p, target, index)
}

func (v *boardView) commitMove(p *domain.Proposal, target domain.ProposalStatus, index int) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		err := app.Status.MoveCard(context.Background(), p, target, index)
		if err != nil {
			var desync *backend.DesyncWarning
			if asDesync(err, &desync) {
				return tea.BatchMsg{notify(warningLine(desync.Detail)), refreshViews}
			}
			return noticeMsg{text: formatter.StyleRed.Render(err.Error())}
		}
		return refreshViewMsg{}
	}
}

func (v *boardView) submitWithDate(p *domain.Proposal, target domain.ProposalStatus, index int) tea.Cmd {
	var date string
	form := submissionDateForm(&date)
	done := func() tea.Cmd {
		when, err := parseSubmissionDate(date)
		if err != nil {
			return notify(formatter.StyleRed.Render(err.Error()))
		}
		p.SubmissionDate = &when
		return v.commitMove(p, target, index)
	}
	return pushView(newFormView(v.state, "Submission Date", form, done))
}

func (v *boardView) confirmNoDecision(p *domain.Proposal) tea.Cmd {
	app := v.state.App
	var ok bool
	form := confirmNoDecisionForm(p.Client, &ok)
	done := func() tea.Cmd {
		if !ok {
			return notify(formatter.Dim("Cancelled."))
		}
		return func() tea.Msg {
			if err := app.Status.ReturnToNoDecision(context.Background(), p); err != nil {
				return noticeMsg{text: formatter.StyleRed.Render(err.Error())}
			}
			return refreshViewMsg{}
		}
	}
	return pushView(newFormView(v.state, "No Decision Yet", form, done))
}

func (v *boardView) currentColumn() *service.BoardColumn {
	if v.colIdx < 0 || v.colIdx >= len(v.columns) {
		return nil
	}
	return &v.columns[v.colIdx]
}

func (v *boardView) currentProposal() *domain.Proposal {
	col := v.currentColumn()
	if col == nil || v.rowIdx < 0 || v.rowIdx >= len(col.Proposals) {
		return nil
	}
	return col.Proposals[v.rowIdx]
}

func (v *boardView) clampCursor() {
	if col := v.currentColumn(); col != nil && v.rowIdx >= len(col.Proposals) {
		v.rowIdx = len(col.Proposals) - 1
	}
	if v.rowIdx < 0 {
		v.rowIdx = 0
	}
}

func (v *boardView) View() string {
	var b strings.Builder

	if v.searching || v.search.Value() != "" {
		b.WriteString(v.search.View() + "\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(formatter.Dim("Loading board…"))
	case v.err != nil:
		b.WriteString(formatter.StyleRed.Render(v.err.Error()))
	default:
		b.WriteString(v.renderColumns())
	}

	if v.notice != "" {
		b.WriteString("\n\n" + v.notice)
	}
	return b.String()
}

func (v *boardView) renderColumns() string {
	var b strings.Builder
	for i, col := range v.columns {
		marker := "  "
		if i == v.colIdx {
			marker = formatter.StyleHeader.Render("▸ ")
		}
		label := fmt.Sprintf("%s (%d)", strings.ToUpper(col.Status.Label()), len(col.Proposals))
		b.WriteString(marker + formatter.StatusStyle(col.Status).Bold(true).Render(label) + "\n")

		for j, p := range col.Proposals {
			cursor := "    "
			line := formatter.Truncate(p.Client, 40)
			if i == v.colIdx && j == v.rowIdx {
				cursor = formatter.StyleHeader.Render("  > ")
				line = formatter.Bold(line)
			}
			b.WriteString(cursor + line + "  " + formatter.TruncID(p.ID) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func parseSubmissionDate(s string) (time.Time, error) {
	return time.Parse(calendar.DateLayout, s)
}
