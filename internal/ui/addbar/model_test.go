package addbar

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-manager/internal/model"
)

func TestModel_Submit(t *testing.T) {
	m := New(60)
	m.Focus()
	m.SetValue("  buy milk ")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.PriorityHigh, m.Priority())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Text: "buy milk", Priority: model.PriorityHigh}, cmd())
}

func TestModel_TypingAndClose(t *testing.T) {
	m := New(60)
	m.Focus()
	for _, r := range "hi" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "hi", m.Value())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
	assert.Equal(t, "hi", m.Value(), "draft survives closing")

	m.Reset()
	assert.Empty(t, m.Value())
}
