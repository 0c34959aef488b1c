// Package addbar is the single-line input used to add tasks.
package addbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/theme"
)

// SubmitMsg is emitted when the user presses enter with the bar focused.
type SubmitMsg struct {
	Text     string
	Priority model.Priority
}

// CloseMsg is emitted when the user leaves the bar with esc. The typed
// text is kept as a draft.
type CloseMsg struct{}

// Model is the add-task input plus its priority picker.
type Model struct {
	input    textinput.Model
	priority model.Priority
	width    int
}

// New creates an add bar.
func New(width int) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = "+ "
	ti.CharLimit = 500
	ti.Width = width - 16

	return Model{
		input:    ti,
		priority: model.PriorityMedium,
		width:    width,
	}
}

// Focus gives keyboard focus to the input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the bar has focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Value returns the typed text.
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue restores text, e.g. a saved draft.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
}

// Priority returns the priority new tasks get.
func (m Model) Priority() model.Priority {
	return m.priority
}

// Reset clears the text after a successful add.
func (m *Model) Reset() {
	m.input.Reset()
}

// Update handles keys while focused. Tab cycles priority.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			submit := SubmitMsg{Text: strings.TrimSpace(m.input.Value()), Priority: m.priority}
			return m, func() tea.Msg { return submit }
		case "esc":
			return m, func() tea.Msg { return CloseMsg{} }
		case "tab":
			m.priority = m.priority.Next()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the bar.
func (m Model) View() string {
	pri := theme.PriorityStyle(m.priority).Render("[" + string(m.priority) + "]")
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(m.input.View() + "  " + pri)
}

// SetWidth updates the bar width.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.input.Width = width - 16
}
