package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// searchDebounce is how long typing must pause before a search fires.
const searchDebounce = 300 * time.Millisecond

// debouncer coalesces bursts of input into one trailing-edge event. Every
// Arm invalidates all earlier pending fires; a fire whose token is stale
// must be dropped by the caller.
type debouncer struct {
	seq int
}

// Arm registers a new pending fire and returns its token.
func (d *debouncer) Arm() int {
	d.seq++
	return d.seq
}

// Stale reports whether a fired token has been superseded.
func (d *debouncer) Stale(token int) bool {
	return token != d.seq
}

// fireAfter schedules a message after the debounce interval.
func fireAfter(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// loadGuard drops responses from superseded asynchronous loads, so a slow
// response for week N cannot overwrite the view after the user navigated
// to week N+1.
type loadGuard struct {
	seq int
}

// Next starts a new load and returns its token.
func (g *loadGuard) Next() int {
	g.seq++
	return g.seq
}

// Stale reports whether a completed load has been superseded.
func (g *loadGuard) Stale(token int) bool {
	return token != g.seq
}
