package tasklist

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/theme"
)

// Model is the main task list view component. It renders whatever
// projection it is given; the root model owns the session.
type Model struct {
	list     list.Model
	movingID *string
	filter   model.FilterMode
	total    int
	width    int
	height   int
}

// New creates a new task list model.
func New(width, height int) Model {
	moving := new(string)
	delegate := TaskDelegate{movingID: moving}
	l := list.New([]list.Item{}, delegate, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:     l,
		movingID: moving,
		filter:   model.FilterAll,
		width:    width,
		height:   height,
	}
}

// SetTasks replaces the rows, keeping the cursor on the same task id
// when it is still visible. total is the size of the whole collection
// and only drives the empty-state text.
func (m *Model) SetTasks(tasks []model.Task, isSelected func(id string) bool, filter model.FilterMode, total int) {
	current, hadCurrent := m.Current()

	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t, Selected: isSelected(t.ID)}
	}
	m.list.SetItems(items)
	m.filter = filter
	m.total = total

	if hadCurrent {
		m.SelectID(current.ID)
	}
	if m.list.Index() >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

// Current returns the task under the cursor.
func (m Model) Current() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// VisibleIDs returns the ids of the rendered rows in order.
func (m Model) VisibleIDs() []string {
	items := m.list.Items()
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if ti, ok := it.(TaskItem); ok {
			ids = append(ids, ti.Task.ID)
		}
	}
	return ids
}

// SelectID moves the cursor to id, reporting whether it was found.
func (m *Model) SelectID(id string) bool {
	for i, it := range m.list.Items() {
		if ti, ok := it.(TaskItem); ok && ti.Task.ID == id {
			m.list.Select(i)
			return true
		}
	}
	return false
}

// StartMove marks the current task as the move source.
func (m *Model) StartMove() (string, bool) {
	t, ok := m.Current()
	if !ok {
		return "", false
	}
	*m.movingID = t.ID
	return t.ID, true
}

// MovingID returns the move source, or "" outside move mode.
func (m Model) MovingID() string {
	return *m.movingID
}

// CancelMove leaves move mode.
func (m *Model) CancelMove() {
	*m.movingID = ""
}

// Update handles navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the task list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.total > 0 {
		return style.Render("No " + string(m.filter) + " tasks.\nPress f to change the filter.")
	}
	return style.Render("No tasks yet.\n\nPress a to add one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
