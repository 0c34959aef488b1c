package tasks

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-manager/internal/model"
)

// newTestStore returns a store with a deterministic clock (advancing
// 100ms per call) and sequential ids.
func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	clock := time.UnixMilli(0)
	seq := 0
	base := []Option{
		WithClock(func() time.Time {
			clock = clock.Add(100 * time.Millisecond)
			return clock
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("t%d", seq)
		}),
	}
	return NewStore(append(base, opts...)...)
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func mustAdd(t *testing.T, s *Store, text string, p model.Priority) model.Task {
	t.Helper()
	task, err := s.Add(text, p)
	require.NoError(t, err)
	return task
}

func TestStore_Add(t *testing.T) {
	t.Run("appends a pending task", func(t *testing.T) {
		s := newTestStore(t)
		a := mustAdd(t, s, "  Buy milk ", model.PriorityHigh)
		b := mustAdd(t, s, "Walk dog", "")

		assert.Equal(t, "Buy milk", a.Text)
		assert.Equal(t, model.PriorityHigh, a.Priority)
		assert.False(t, a.Completed)
		assert.Nil(t, a.CompletedAt)
		assert.Equal(t, int64(100), a.CreatedAt)
		assert.Equal(t, model.PriorityMedium, b.Priority)
		assert.Equal(t, []string{"t1", "t2"}, ids(s.ListAll()))
	})

	t.Run("rejects empty text without side effects", func(t *testing.T) {
		s := newTestStore(t)
		mustAdd(t, s, "keep", model.PriorityLow)

		_, err := s.Add("   ", model.PriorityMedium)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, 1, s.History().UndoLen())
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Add("x", model.Priority("urgent"))
		assert.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, s.Len())
	})

	t.Run("records an add entry and clears redo", func(t *testing.T) {
		s := newTestStore(t)
		mustAdd(t, s, "a", "")
		_, _, err := s.Undo()
		require.NoError(t, err)
		require.True(t, s.History().CanRedo())

		b := mustAdd(t, s, "b", "")
		top, ok := s.History().Peek()
		require.True(t, ok)
		assert.Equal(t, EntryAdd, top.Kind)
		assert.Equal(t, b.ID, top.TaskID)
		assert.False(t, s.History().CanRedo())
	})
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "a", "")
	b := mustAdd(t, s, "b", "")
	_, err := s.ToggleSelected(a.ID)
	require.NoError(t, err)

	removed, err := s.Remove(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, removed)
	assert.Equal(t, []string{b.ID}, ids(s.ListAll()))
	assert.False(t, s.IsSelected(a.ID))

	top, _ := s.History().Peek()
	assert.Equal(t, EntryRemove, top.Kind)
	assert.Equal(t, a, top.Task)

	_, err = s.Remove(a.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, a.ID, nf.ID)
}

func TestStore_ToggleComplete(t *testing.T) {
	t.Run("round trip restores pending state", func(t *testing.T) {
		s := newTestStore(t)
		a := mustAdd(t, s, "a", "")

		done, err := s.ToggleComplete(a.ID)
		require.NoError(t, err)
		assert.True(t, done.Completed)
		require.NotNil(t, done.CompletedAt)
		assert.Equal(t, int64(200), *done.CompletedAt)

		back, err := s.ToggleComplete(a.ID)
		require.NoError(t, err)
		assert.Equal(t, a, back)
	})

	t.Run("missing id", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.ToggleComplete("nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, s.History().CanUndo())
	})
}

func TestStore_Edit(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "a", model.PriorityLow)
	mustAdd(t, s, "b", "")
	_, err := s.ToggleComplete(a.ID)
	require.NoError(t, err)

	edited, err := s.Edit(a.ID, " alpha ", model.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, a.ID, edited.ID)
	assert.Equal(t, a.CreatedAt, edited.CreatedAt)
	assert.True(t, edited.Completed)
	assert.Equal(t, "alpha", edited.Text)
	assert.Equal(t, model.PriorityHigh, edited.Priority)
	assert.Equal(t, []string{"t1", "t2"}, ids(s.ListAll()), "edit keeps position")

	top, _ := s.History().Peek()
	assert.Equal(t, EntryEdit, top.Kind)
	assert.Equal(t, "a", top.Before.Text)
	assert.Equal(t, "alpha", top.After.Text)

	t.Run("validation", func(t *testing.T) {
		_, err := s.Edit(a.ID, "", model.PriorityHigh)
		assert.ErrorIs(t, err, ErrValidation)
		got, _ := s.Get(a.ID)
		assert.Equal(t, "alpha", got.Text)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Edit("zzz", "x", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_ListAllDoesNotLeak(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "a", "")
	_, err := s.ToggleComplete(a.ID)
	require.NoError(t, err)

	list := s.ListAll()
	list[0].Text = "mutated"
	*list[0].CompletedAt = 42

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Text)
	assert.NotEqual(t, int64(42), *got.CompletedAt)
}

func TestStore_Reorder(t *testing.T) {
	setup := func(t *testing.T) (*Store, []model.Task) {
		s := newTestStore(t)
		var all []model.Task
		for _, text := range []string{"a", "b", "c", "d", "e"} {
			all = append(all, mustAdd(t, s, text, ""))
		}
		return s, all
	}

	t.Run("moves source to target index in full view", func(t *testing.T) {
		s, all := setup(t)
		require.NoError(t, s.Reorder(all[4].ID, all[1].ID, model.FilterAll))
		assert.Equal(t, []string{"t1", "t5", "t2", "t3", "t4"}, ids(s.ListAll()))
	})

	t.Run("moving forward lands after target", func(t *testing.T) {
		s, all := setup(t)
		require.NoError(t, s.Reorder(all[0].ID, all[2].ID, model.FilterAll))
		assert.Equal(t, []string{"t2", "t3", "t1", "t4", "t5"}, ids(s.ListAll()))
	})

	t.Run("hidden tasks keep their slots", func(t *testing.T) {
		s, all := setup(t)
		// complete b and d: pending view is a, c, e
		_, err := s.ToggleComplete(all[1].ID)
		require.NoError(t, err)
		_, err = s.ToggleComplete(all[3].ID)
		require.NoError(t, err)
		undoBefore := s.History().UndoLen()

		require.NoError(t, s.Reorder(all[4].ID, all[0].ID, model.FilterPending))
		assert.Equal(t, []string{"t5", "t2", "t1", "t4", "t3"}, ids(s.ListAll()))
		assert.Equal(t, undoBefore, s.History().UndoLen(), "reorder is not undoable")
	})

	t.Run("errors", func(t *testing.T) {
		s, all := setup(t)
		_, err := s.ToggleComplete(all[1].ID)
		require.NoError(t, err)
		before := ids(s.ListAll())

		assert.ErrorIs(t, s.Reorder(all[0].ID, all[0].ID, model.FilterAll), ErrNotFound)
		assert.ErrorIs(t, s.Reorder("x", all[0].ID, model.FilterAll), ErrNotFound)
		assert.ErrorIs(t, s.Reorder(all[0].ID, "x", model.FilterAll), ErrNotFound)
		assert.ErrorIs(t, s.Reorder(all[1].ID, all[0].ID, model.FilterPending), ErrNotFound,
			"source hidden by filter")
		assert.Equal(t, before, ids(s.ListAll()))
	})
}

func TestStore_MergeAndReplace(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "a", "")
	mustAdd(t, s, "b", "")
	_, err := s.ToggleSelected(a.ID)
	require.NoError(t, err)

	updated := a
	updated.Text = "a2"
	s.Merge([]model.Task{{ID: "x", Text: "x", Priority: model.PriorityLow}, updated})
	assert.Equal(t, []string{"t1", "t2", "x"}, ids(s.ListAll()))
	got, _ := s.Get(a.ID)
	assert.Equal(t, "a2", got.Text)
	assert.True(t, s.IsSelected(a.ID), "merge keeps selection")
	assert.Equal(t, 2, s.History().UndoLen(), "merge is not recorded")

	s.Replace([]model.Task{{ID: "y", Text: "y", Priority: model.PriorityLow}})
	assert.Equal(t, []string{"y"}, ids(s.ListAll()))
	assert.Zero(t, s.SelectionLen())
	assert.False(t, s.History().CanUndo())
}

func TestStore_Bulk(t *testing.T) {
	t.Run("complete selected skips completed tasks", func(t *testing.T) {
		s := newTestStore(t)
		a := mustAdd(t, s, "a", "")
		b := mustAdd(t, s, "b", "")
		c := mustAdd(t, s, "c", "")
		_, err := s.ToggleComplete(b.ID)
		require.NoError(t, err)
		s.SelectAllVisible([]string{a.ID, b.ID})

		n, err := s.CompleteSelected()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		for _, task := range s.ListAll() {
			assert.Equal(t, task.ID != c.ID, task.Completed, task.ID)
		}
		assert.Zero(t, s.SelectionLen())
	})

	t.Run("remove selected", func(t *testing.T) {
		s := newTestStore(t)
		a := mustAdd(t, s, "a", "")
		b := mustAdd(t, s, "b", "")
		c := mustAdd(t, s, "c", "")
		s.SelectAllVisible([]string{c.ID, a.ID})

		removed, err := s.RemoveSelected()
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID, c.ID}, ids(removed))
		assert.Equal(t, []string{b.ID}, ids(s.ListAll()))
		assert.Zero(t, s.SelectionLen())
		assert.Equal(t, 5, s.History().UndoLen())
	})

	t.Run("empty selection", func(t *testing.T) {
		s := newTestStore(t)
		mustAdd(t, s, "a", "")
		_, err := s.CompleteSelected()
		assert.ErrorIs(t, err, ErrValidation)
		_, err = s.RemoveSelected()
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 1, s.Len())
	})
}

func TestStore_Selection(t *testing.T) {
	s := newTestStore(t)
	a := mustAdd(t, s, "a", "")
	b := mustAdd(t, s, "b", "")

	_, err := s.ToggleSelected("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.SelectOnly("ghost"))

	visible := []string{a.ID, b.ID, "ghost"}
	assert.True(t, s.SelectAllVisible(visible))
	assert.Equal(t, []string{a.ID, b.ID}, s.SelectedIDs())
	assert.False(t, s.SelectAllVisible(visible))
	assert.Zero(t, s.SelectionLen(), "select-all twice toggles back to empty")

	require.NoError(t, s.SelectOnly(b.ID))
	assert.Equal(t, []string{b.ID}, s.SelectedIDs())
	s.ClearSelection()
	assert.Zero(t, s.SelectionLen())
}

// TestStore_StaysConsistent drives a fixed pseudo-random op sequence and checks
// that ids stay unique and the selection only references live tasks.
func TestStore_StaysConsistent(t *testing.T) {
	s := newTestStore(t, WithHistoryLimit(0))
	ops := []string{"add", "add", "sel", "add", "toggle", "sel", "remove", "undo", "edit",
		"undo", "redo", "add", "sel", "bulkdel", "undo", "undo", "redo", "remove", "add", "toggle"}

	for step, op := range ops {
		all := s.ListAll()
		pick := func() string {
			if len(all) == 0 {
				return "none"
			}
			return all[step%len(all)].ID
		}
		switch op {
		case "add":
			_, _ = s.Add(fmt.Sprintf("task %d", step), model.Priorities[step%3])
		case "sel":
			_, _ = s.ToggleSelected(pick())
		case "toggle":
			_, _ = s.ToggleComplete(pick())
		case "remove":
			_, _ = s.Remove(pick())
		case "edit":
			_, _ = s.Edit(pick(), "edited", model.PriorityHigh)
		case "undo":
			_, _, err := s.Undo()
			require.NoError(t, err, "step %d", step)
		case "redo":
			_, _, err := s.Redo()
			require.NoError(t, err, "step %d", step)
		case "bulkdel":
			_, _ = s.RemoveSelected()
		}

		seen := map[string]bool{}
		for _, task := range s.ListAll() {
			require.False(t, seen[task.ID], "duplicate id %s at step %d", task.ID, step)
			seen[task.ID] = true
			require.Equal(t, task.Completed, task.CompletedAt != nil)
		}
		for _, id := range s.selection.IDs() {
			require.True(t, seen[id], "selection references dead id %s at step %d", id, step)
		}
	}
}

func TestErrorsUnwrap(t *testing.T) {
	var err error = &NotFoundError{ID: "x"}
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "task not found: x", err.Error())

	err = &ValidationError{Field: "text", Reason: "must not be empty"}
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "invalid text: must not be empty", err.Error())
}
