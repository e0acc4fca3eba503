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
	"github.com/alexmendoza/salesboard/internal/ordering"
	"github.com/alexmendoza/salesboard/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// weekLoadedMsg carries a finished week load, token-guarded against
// out-of-order responses when the user navigates quickly between weeks.
type weekLoadedMsg struct {
	token int
	view  *service.WeekView
	names func(string) string
	err   error
}

// weekView shows one week of the schedule with a movable cursor and a
// keyboard grab gesture for reordering and rescheduling items.
type weekView struct {
	state   *SharedState
	week    *service.WeekView
	names   func(string) string
	dayPos  int // position within visibleDays
	rowIdx  int
	loading bool
	err     error
	notice  string

	drag      ordering.DragSession
	targetDay int
	targetIdx int

	guard loadGuard
}

func newWeekView(state *SharedState) *weekView {
	return &weekView{state: state, loading: true}
}

func (v *weekView) ID() ViewID { return ViewWeek }

func (v *weekView) Title() string {
	if v.week == nil {
		return "Week"
	}
	return "Week of " + formatter.HumanDate(v.week.WeekStart)
}

func (v *weekView) ShortHelp() []key.Binding {
	if v.drag.Active() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "target day")),
			key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "target slot")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "day")),
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "item")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab")),
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "complete")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete task")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "week")),
		key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "weekends")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "summary")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "board")),
	}
}

func (v *weekView) Init() tea.Cmd {
	return v.load()
}

func (v *weekView) load() tea.Cmd {
	token := v.guard.Next()
	app := v.state.App
	filter := v.state.Filter
	offset := v.state.WeekOffset
	return func() tea.Msg {
		ctx := context.Background()
		view, err := app.Schedule.LoadWeek(ctx, calendar.WeekStart(time.Now(), offset), &filter)
		return weekLoadedMsg{token: token, view: view, names: proposalNamer(ctx, app), err: err}
	}
}

func (v *weekView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case weekLoadedMsg:
		if v.guard.Stale(msg.token) {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.week = msg.view
			v.names = msg.names
			v.notice = ""
			v.clampCursor()
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case noticeMsg:
		v.notice = msg.text
		return v, nil

	case tea.KeyMsg:
		if v.drag.Active() {
			return v.handleGrabKey(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *weekView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	days := v.visibleDays()
	switch msg.String() {
	case "h", "left":
		if v.dayPos > 0 {
			v.dayPos--
			v.clampCursor()
		}
	case "l", "right":
		if v.dayPos < len(days)-1 {
			v.dayPos++
			v.clampCursor()
		}
	case "k", "up":
		if v.rowIdx > 0 {
			v.rowIdx--
		}
	case "j", "down":
		if v.rowIdx < len(v.dayItems(v.currentDay()))-1 {
			v.rowIdx++
		}

	case "g":
		p := v.currentPlacement()
		if p == nil {
			return v, nil
		}
		container := ordering.DayContainer(v.week.WeekStart, p.DayIndex)
		v.drag.Begin(p.ItemID, container, v.rowIdx)
		v.targetDay = v.dayPos
		v.targetIdx = v.rowIdx

	case " ":
		p := v.currentPlacement()
		if p == nil {
			return v, nil
		}
		return v, v.toggle(p)

	case "d":
		p := v.currentPlacement()
		if p == nil {
			return v, nil
		}
		return v, v.duplicate(p)

	case "a":
		return v, v.addTask()

	case "x":
		p := v.currentPlacement()
		if p == nil || p.Type != domain.PlacementTask {
			return v, nil
		}
		return v, v.deleteTask(p.ItemID)

	case "[":
		v.state.WeekOffset--
		v.loading = true
		return v, v.load()
	case "]":
		v.state.WeekOffset++
		v.loading = true
		return v, v.load()

	case "w":
		v.state.IncludeWeekends = !v.state.IncludeWeekends
		v.dayPos = 0
		v.clampCursor()

	case "s":
		if v.week != nil {
			v.notice = formatter.FormatSummary(v.state.App.Schedule.Summary(v.week))
		}

	case "r":
		v.loading = true
		return v, v.load()
	}
	return v, nil
}

// handleGrabKey moves the drop target while an item is grabbed; the order
// and backend are only touched when the item is dropped.
func (v *weekView) handleGrabKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	days := v.visibleDays()
	switch msg.String() {
	case "h", "left":
		if v.targetDay > 0 {
			v.targetDay--
			v.targetIdx = len(v.dayItems(days[v.targetDay]))
		}
	case "l", "right":
		if v.targetDay < len(days)-1 {
			v.targetDay++
			v.targetIdx = len(v.dayItems(days[v.targetDay]))
		}
	case "k", "up":
		if v.targetIdx > 0 {
			v.targetIdx--
		}
	case "j", "down":
		if v.targetIdx < len(v.dayItems(days[v.targetDay])) {
			v.targetIdx++
		}

	case "enter":
		day := days[v.targetDay]
		v.drag.SetTarget(ordering.DayContainer(v.week.WeekStart, day), v.targetIdx)
		return v, v.drop(day)

	case "esc":
		v.drag.Cancel()
	}
	return v, nil
}

func (v *weekView) drop(targetDay int) tea.Cmd {
	itemID := v.drag.ItemID()
	source := v.drag.Source()
	target, err := v.drag.Commit()
	if err != nil {
		return nil
	}
	p := v.placementByID(itemID)
	if p == nil {
		p = v.placementAt(source)
	}
	if p == nil {
		return v.load()
	}

	app := v.state.App
	if target.ContainerID == source.ContainerID {
		index := target.Index
		placement := *p
		return func() tea.Msg {
			if err := app.Schedule.MoveWithinDay(context.Background(), placement, index); err != nil {
				return noticeMsg{text: formatter.StyleRed.Render(err.Error())}
			}
			return refreshViewMsg{}
		}
	}

	placement := *p
	week := v.week.WeekStart
	return func() tea.Msg {
		_, err := app.Schedule.MoveAcrossDays(context.Background(), placement, week, targetDay)
		if err != nil {
			var desync *backend.DesyncWarning
			if asDesync(err, &desync) {
				return tea.BatchMsg{notify(warningLine(desync.Detail)), refreshViews}
			}
			// The service reloaded last-known-good state; refresh so the
			// view drops the optimistic move.
			return tea.BatchMsg{
				notify(formatter.StyleRed.Render(err.Error())),
				refreshViews,
			}
		}
		return refreshViewMsg{}
	}
}

func (v *weekView) toggle(p *domain.Placement) tea.Cmd {
	app := v.state.App
	placement := *p
	completed := !placement.Completed
	return func() tea.Msg {
		if err := app.Schedule.ToggleCompletion(context.Background(), &placement, completed); err != nil {
			return noticeMsg{text: formatter.StyleRed.Render(err.Error())}
		}
		return refreshViewMsg{}
	}
}

func (v *weekView) duplicate(p *domain.Placement) tea.Cmd {
	app := v.state.App
	week := v.week
	placement := *p
	includeWeekends := v.state.IncludeWeekends
	return func() tea.Msg {
		dup, err := app.Schedule.Duplicate(context.Background(), week, placement, includeWeekends)
		if err != nil {
			return noticeMsg{text: formatter.StyleRed.Render(err.Error())}
		}
		return tea.BatchMsg{
			notify(formatter.Dim("Duplicated to " + calendar.DayLabel(dup.DayIndex))),
			refreshViews,
		}
	}
}

func (v *weekView) addTask() tea.Cmd {
	app := v.state.App
	day := v.currentDay()
	week := calendar.WeekStart(time.Now(), v.state.WeekOffset)

	var title, category string
	priority := string(domain.PriorityMedium)
	form := taskForm(&title, &priority, &category)
	done := func() tea.Cmd {
		return func() tea.Msg {
			task := domain.CustomTask{
				Title:    title,
				Priority: domain.TaskPriority(priority),
				Category: category,
			}
			_, err := app.Tasks.Create(context.Background(), task, week, day)
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
	return pushView(newFormView(v.state, "Add Task", form, done))
}

func (v *weekView) deleteTask(taskID string) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		if err := app.Tasks.Delete(context.Background(), taskID); err != nil {
			return noticeMsg{text: formatter.StyleRed.Render(err.Error())}
		}
		return refreshViewMsg{}
	}
}

// ── cursor helpers ───────────────────────────────────────────────────────────

func (v *weekView) visibleDays() []int {
	return calendar.VisibleDays(v.state.IncludeWeekends)
}

func (v *weekView) currentDay() int {
	days := v.visibleDays()
	if v.dayPos < 0 || v.dayPos >= len(days) {
		return days[0]
	}
	return days[v.dayPos]
}

func (v *weekView) dayItems(day int) []domain.Placement {
	if v.week == nil {
		return nil
	}
	return v.week.Days[day]
}

func (v *weekView) currentPlacement() *domain.Placement {
	items := v.dayItems(v.currentDay())
	if v.rowIdx < 0 || v.rowIdx >= len(items) {
		return nil
	}
	p := items[v.rowIdx]
	return &p
}

func (v *weekView) placementByID(itemID string) *domain.Placement {
	if v.week == nil || itemID == "" {
		return nil
	}
	for day := 0; day <= 6; day++ {
		for _, p := range v.week.Days[day] {
			if p.ItemID == itemID {
				found := p
				return &found
			}
		}
	}
	return nil
}

func (v *weekView) placementAt(slot ordering.DragTarget) *domain.Placement {
	for day := 0; day <= 6; day++ {
		if ordering.DayContainer(v.week.WeekStart, day) != slot.ContainerID {
			continue
		}
		items := v.week.Days[day]
		if slot.Index >= 0 && slot.Index < len(items) {
			p := items[slot.Index]
			return &p
		}
	}
	return nil
}

func (v *weekView) clampCursor() {
	if items := v.dayItems(v.currentDay()); v.rowIdx >= len(items) {
		v.rowIdx = len(items) - 1
	}
	if v.rowIdx < 0 {
		v.rowIdx = 0
	}
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *weekView) View() string {
	var b strings.Builder

	switch {
	case v.loading:
		b.WriteString(formatter.Dim("Loading week…"))
	case v.err != nil:
		b.WriteString(formatter.StyleRed.Render(v.err.Error()))
	case v.week == nil:
		b.WriteString(formatter.Dim("No schedule loaded."))
	default:
		b.WriteString(v.renderWeek())
	}

	if v.notice != "" {
		b.WriteString("\n\n" + v.notice)
	}
	return b.String()
}

func (v *weekView) renderWeek() string {
	var b strings.Builder
	if v.week.Notice != "" {
		b.WriteString(formatter.Notice(v.week.Notice) + "\n\n")
	}
	if v.week.ReadOnly {
		return b.String()
	}

	days := v.visibleDays()
	for pos, day := range days {
		marker := "  "
		if pos == v.dayPos {
			marker = formatter.StyleHeader.Render("▸ ")
		}
		date := calendar.DayDate(v.week.WeekStart, day)
		b.WriteString(marker + formatter.StyleHeader.Render(calendar.DayLabel(day)) +
			"  " + formatter.Dim(date.Format("Jan 2")) + "\n")

		items := v.week.Days[day]
		for row, p := range items {
			cursor := "    "
			if pos == v.dayPos && row == v.rowIdx && !v.drag.Active() {
				cursor = formatter.StyleHeader.Render("  > ")
			}
			if v.drag.Active() && p.ItemID == v.drag.ItemID() {
				cursor = formatter.StyleYellow.Render("  ✥ ")
			}
			b.WriteString(cursor + formatter.FormatPlacement(v.week, p, v.names) + "\n")
		}
		if v.drag.Active() && pos == v.targetDay {
			b.WriteString(formatter.StyleYellow.Render(fmt.Sprintf("    ↳ drop at %d\n", v.targetIdx)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
