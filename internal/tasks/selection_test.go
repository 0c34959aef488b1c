package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection(t *testing.T) {
	s := NewSelection()

	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Toggle("a"))
	assert.Zero(t, s.Len())

	s.SelectAll([]string{"a", "b", "c"})
	assert.Equal(t, 3, s.Len())
	s.DeselectAll([]string{"a", "c"})
	assert.Equal(t, []string{"b"}, s.IDs())

	assert.True(t, s.SelectAllVisible([]string{"b", "d"}), "partially selected ids become selected")
	assert.ElementsMatch(t, []string{"b", "d"}, s.IDs())
	assert.False(t, s.SelectAllVisible([]string{"b", "d"}))
	assert.Zero(t, s.Len())

	s.SelectAll([]string{"x", "y"})
	s.SelectOnly("z")
	assert.Equal(t, []string{"z"}, s.IDs())

	s.Remove("z")
	s.Remove("missing")
	assert.Zero(t, s.Len())

	s.SelectAll([]string{"p"})
	s.Clear()
	assert.Empty(t, s.IDs())
}
