// Package calendar provides the week/day arithmetic behind the weekly
// scheduler: week-start computation, day indexing, navigation and the
// weekend display toggle. Everything here is pure date math.
package calendar

import "time"

// DateLayout is the canonical storage format for week-start dates.
const DateLayout = "2006-01-02"

// Day indices run 0..6, Sunday..Saturday. The includeWeekends flag only
// changes which columns are displayed; it never renumbers days, so stored
// placements stay valid when the flag is toggled.
const (
	Sunday    = 0
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
)

var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// WeekStart returns the Sunday on or before now+7*offsetWeeks days,
// normalized to midnight in now's location. offsetWeeks 0 is the current
// week; negative and positive offsets navigate backward and forward.
// Calling it on a Sunday returns that same Sunday.
func WeekStart(now time.Time, offsetWeeks int) time.Time {
	shifted := now.AddDate(0, 0, 7*offsetWeeks)
	start := shifted.AddDate(0, 0, -int(shifted.Weekday()))
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}

// DayDate returns the calendar date of the given day index within a week.
func DayDate(weekStart time.Time, dayIndex int) time.Time {
	return weekStart.AddDate(0, 0, dayIndex)
}

// DayLabel returns the English weekday name for a day index.
func DayLabel(dayIndex int) string {
	if dayIndex < 0 || dayIndex > 6 {
		return ""
	}
	return dayNames[dayIndex]
}

// VisibleDays returns the day indices to display: Sunday..Saturday when
// weekends are shown, Monday..Friday otherwise.
func VisibleDays(includeWeekends bool) []int {
	if includeWeekends {
		return []int{0, 1, 2, 3, 4, 5, 6}
	}
	return []int{1, 2, 3, 4, 5}
}

// ValidDayIndex reports whether dayIndex addresses a real day.
func ValidDayIndex(dayIndex int) bool {
	return dayIndex >= 0 && dayIndex <= 6
}

// NextDayIndex returns the day index used by "duplicate to next day".
// The increment wraps within the same displayed week: Saturday overflows
// to Sunday (weekends shown) or Monday (weekends hidden), and a weekend
// landing with weekends hidden is coerced to Monday. Wrapping stays inside
// the current week rather than rolling into the next calendar week; the
// board has always behaved this way and stored placements depend on it.
func NextDayIndex(current int, includeWeekends bool) int {
	next := current + 1
	if next > Saturday {
		if includeWeekends {
			return Sunday
		}
		return Monday
	}
	if !includeWeekends && (next == Saturday || next == Sunday) {
		return Monday
	}
	return next
}

// ParseWeekStart parses a stored week-start date.
func ParseWeekStart(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatWeekStart formats a week-start date for storage and display.
func FormatWeekStart(t time.Time) string {
	return t.Format(DateLayout)
}
