package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/theme"
	"github.com/nhle/todo-manager/internal/view"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	TabsHeight      int
	InputHeight     int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// The header, tab row, add bar and status bar take one line each.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		TabsHeight:      1,
		InputHeight:     1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the task list.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.TabsHeight - l.InputHeight - l.StatusBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// RenderHeader renders the top header bar with a title and a right-aligned
// summary.
func (l Layout) RenderHeader(title string, summary string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	summaryRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(summary)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(summaryRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		summaryRendered,
	)
}

// RenderTabs renders the filter tabs with their counters, the sort mode
// and the selection size.
func (l Layout) RenderTabs(active model.FilterMode, counts view.Counts, sort model.SortMode, selected int) string {
	tabs := make([]string, 0, len(model.FilterModes))
	for _, f := range model.FilterModes {
		label := fmt.Sprintf("%s (%d)", f, counts.Of(f))
		if f == active {
			tabs = append(tabs, theme.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, theme.TabStyle.Render(label))
		}
	}

	right := "sort: " + string(sort)
	if selected > 0 {
		right = fmt.Sprintf("%d selected · %s", selected, right)
	}

	left := " " + strings.Join(tabs, "  ")
	rightRendered := theme.HelpStyle.Render(right + " ")
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(rightRendered)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + rightRendered
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the given rows.
func (l Layout) RenderWithFrame(rows ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
