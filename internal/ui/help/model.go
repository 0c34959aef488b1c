package help

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-manager/internal/keys"
	"github.com/nhle/todo-manager/internal/theme"
	"github.com/nhle/todo-manager/internal/view"
)

// Model is the help overlay view. Besides the key map it shows the
// productivity summary of the whole collection.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	stats  view.Stats
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// SetStats updates the summary shown under the shortcuts.
func (m *Model) SetStats(s view.Stats) {
	m.stats = s
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	moveHint := theme.HelpStyle.Render(
		"Move mode: press m on a task, navigate to the target, enter to drop, esc to cancel.",
	)

	summary := lipgloss.NewStyle().
		MarginTop(1).
		Render(fmt.Sprintf(
			"%d tasks · %d done · %d pending · %d%% productivity",
			m.stats.Total, m.stats.Completed, m.stats.Pending, m.stats.ProductivityPercent,
		))

	content := lipgloss.JoinVertical(lipgloss.Left, title, helpText, "", moveHint, summary)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
