package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task     model.Task
	Selected bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Text }

// Title returns the task text for the list.
func (i TaskItem) Title() string { return i.Task.Text }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return fmt.Sprintf("%s | %s | %s", i.Task.Priority, i.Task.Status(), relativeTime(i.Task.Created(), time.Now()))
}

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct {
	// movingID points at the list model's move source so the delegate
	// sees updates without being rebuilt.
	movingID *string
}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderRow(ti, index == m.Index(), d.movingID != nil && *d.movingID == ti.Task.ID, time.Now()))
}

func renderRow(ti TaskItem, isCursor, isMoving bool, now time.Time) string {
	t := ti.Task

	mark := " "
	if ti.Selected {
		mark = "●"
	}

	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	box = theme.CheckboxStyle(t.Completed).Render(box)

	pri := theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))

	text := t.Text
	if t.Completed {
		text = theme.DoneTextStyle.Render(text)
	}

	age := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(t.Created(), now))

	line := fmt.Sprintf("%s %s %s %s  %s", mark, box, pri, text, age)

	switch {
	case isMoving:
		return theme.MovingItemStyle.Render(line)
	case isCursor:
		return theme.SelectedItemStyle.Render(line)
	default:
		return theme.ListItemStyle.Render(line)
	}
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// priorityLabel returns a fixed-width label for the priority.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "HIGH"
	case model.PriorityMedium:
		return "MED "
	case model.PriorityLow:
		return "LOW "
	default:
		return "??? "
	}
}
