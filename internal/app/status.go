package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-manager/internal/theme"
)

// statusTTL is how long a status message stays in the status bar.
const statusTTL = 4 * time.Second

// statusLine is a transient message shown instead of the key hints.
type statusLine struct {
	text  string
	isErr bool
	seq   int
}

// statusExpiredMsg clears the status line if it is still the one shown.
type statusExpiredMsg struct {
	seq int
}

func (s statusLine) render() string {
	if s.isErr {
		return theme.ErrorStyle.Render(s.text)
	}
	return theme.SuccessStyle.Render(s.text)
}

func (s statusLine) expireCmd() tea.Cmd {
	seq := s.seq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// setStatus shows text and schedules its expiry.
func (m *Model) setStatus(text string) tea.Cmd {
	m.status = statusLine{text: text, seq: m.status.seq + 1}
	return m.status.expireCmd()
}

// setError shows err as an error message.
func (m *Model) setError(err error) tea.Cmd {
	m.status = statusLine{text: err.Error(), isErr: true, seq: m.status.seq + 1}
	return m.status.expireCmd()
}
