package cli

import (
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/calendar"
	"github.com/alexmendoza/salesboard/internal/cli/formatter"
	"github.com/alexmendoza/salesboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func boardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent.
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed.
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateDate(s string) error {
	if s == "" {
		return fmt.Errorf("enter a date")
	}
	if _, err := time.Parse(calendar.DateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

// submissionDateForm collects a submission date, defaulting to today.
func submissionDateForm(value *string) *huh.Form {
	if *value == "" {
		*value = time.Now().Format(calendar.DateLayout)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Submission Date").
				Description("Recorded when a proposal enters Submitted").
				Value(value).
				Validate(validateDate),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
}

// confirmNoDecisionForm asks before parking a proposal in No Decision Yet.
func confirmNoDecisionForm(client string, ok *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Move %q to No Decision Yet?", client)).
				Description("The proposal leaves the working columns until a decision is made.").
				Affirmative("Move").
				Negative("Cancel").
				Value(ok),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
}

// taskForm collects the fields for a new or edited custom task.
func taskForm(title, priority, category *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", string(domain.PriorityLow)),
					huh.NewOption("Medium", string(domain.PriorityMedium)),
					huh.NewOption("High", string(domain.PriorityHigh)),
				).
				Value(priority),
			huh.NewInput().
				Title("Category (optional)").
				Value(category),
		),
	).WithTheme(boardHuhTheme()).WithShowHelp(false)
}
