package detail

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-manager/internal/keys"
	"github.com/nhle/todo-manager/internal/model"
)

func newDetail() Model {
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.now = func() time.Time { return time.UnixMilli(3_600_000) }
	return m
}

func TestView_Empty(t *testing.T) {
	m := newDetail()
	assert.Contains(t, m.View(), "No task selected")
}

func TestView_ShowsTimestamps(t *testing.T) {
	m := newDetail()
	done := int64(1_800_000)
	m.SetTask(model.Task{
		ID: "abc", Text: "file taxes", Priority: model.PriorityHigh,
		Completed: true, CreatedAt: 0, CompletedAt: &done,
	})

	out := m.View()
	assert.Contains(t, out, "file taxes")
	assert.Contains(t, out, "HIGH priority")
	assert.Contains(t, out, "[x] completed")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "Completed:")
	assert.Contains(t, out, "1 hour ago")
}

func TestUpdate_Actions(t *testing.T) {
	m := newDetail()
	m.SetTask(model.Task{ID: "abc", Text: "x", Priority: model.PriorityLow})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionToggle, TaskID: "abc"}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionEdit, TaskID: "abc"}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestUpdate_NoTaskNoAction(t *testing.T) {
	m := newDetail()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		_, isAction := cmd().(ActionMsg)
		assert.False(t, isAction)
	}
}
