package tasks

import "github.com/nhle/todo-manager/internal/model"

// EntryKind tags the mutation a history entry reverses.
type EntryKind string

const (
	EntryAdd    EntryKind = "add"
	EntryRemove EntryKind = "remove"
	EntryToggle EntryKind = "toggle"
	EntryEdit   EntryKind = "edit"
)

// Entry is one reversible mutation.
type Entry struct {
	Kind   EntryKind
	TaskID string

	// Task is the full snapshot for add and remove.
	Task model.Task

	// Before and After are the snapshots around a toggle or edit.
	Before model.Task
	After  model.Task
}

// Describe returns a short human-readable label, e.g. `edit "Buy milk"`.
func (e Entry) Describe() string {
	text := e.Task.Text
	if e.Kind == EntryToggle || e.Kind == EntryEdit {
		text = e.After.Text
	}
	return string(e.Kind) + ` "` + text + `"`
}

// History holds the undo and redo stacks (most recent last).
type History struct {
	undo  []Entry
	redo  []Entry
	limit int
}

// NewHistory returns an empty history keeping at most limit undo
// entries; limit <= 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Record pushes e onto the undo stack and clears the redo stack.
func (h *History) Record(e Entry) {
	h.undo = append(h.undo, e)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = append([]Entry(nil), h.undo[len(h.undo)-h.limit:]...)
	}
	h.redo = nil
}

// Peek returns the entry the next Undo would reverse.
func (h *History) Peek() (Entry, bool) {
	if len(h.undo) == 0 {
		return Entry{}, false
	}
	return h.undo[len(h.undo)-1], true
}

// PeekRedo returns the entry the next Redo would reapply.
func (h *History) PeekRedo() (Entry, bool) {
	if len(h.redo) == 0 {
		return Entry{}, false
	}
	return h.redo[len(h.redo)-1], true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
func (h *History) UndoLen() int  { return len(h.undo) }
func (h *History) RedoLen() int  { return len(h.redo) }

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// popUndo moves the top undo entry to the redo stack.
func (h *History) popUndo() {
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
}

// popRedo moves the top redo entry back to the undo stack without
// clearing the remaining redo entries.
func (h *History) popRedo() {
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = append([]Entry(nil), h.undo[len(h.undo)-h.limit:]...)
	}
}
