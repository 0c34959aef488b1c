package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todo-manager/internal/model"
)

// Store owns the ordered task collection together with the selection
// and the undo history that must stay consistent with it. It is not
// safe for concurrent use; one owner drives it.
type Store struct {
	items     []model.Task
	selection *Selection
	history   *History

	now   func() time.Time
	newID func() string
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt/completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new task ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithHistoryLimit caps the undo stack; 0 means unbounded.
func WithHistoryLimit(limit int) Option {
	return func(s *Store) { s.history = NewHistory(limit) }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		selection: NewSelection(),
		history:   NewHistory(0),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History exposes the undo/redo stacks for inspection.
func (s *Store) History() *History {
	return s.history
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.items)
}

// ListAll returns a copy of every task in collection order.
func (s *Store) ListAll() []model.Task {
	out := make([]model.Task, len(s.items))
	for i, t := range s.items {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (model.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, &NotFoundError{ID: id}
	}
	return s.items[i].Clone(), nil
}

// Add appends a new pending task.
func (s *Store) Add(text string, priority model.Priority) (model.Task, error) {
	text, priority, err := validateInput(text, priority)
	if err != nil {
		return model.Task{}, err
	}

	t := model.Task{
		ID:        s.newID(),
		Text:      text,
		Priority:  priority,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.insert(t); err != nil {
		return model.Task{}, err
	}
	s.history.Record(Entry{Kind: EntryAdd, TaskID: t.ID, Task: t.Clone()})
	return t.Clone(), nil
}

// Remove deletes the task and drops it from the selection.
func (s *Store) Remove(id string) (model.Task, error) {
	t, err := s.delete(id)
	if err != nil {
		return model.Task{}, err
	}
	s.history.Record(Entry{Kind: EntryRemove, TaskID: id, Task: t.Clone()})
	return t, nil
}

// ToggleComplete flips completion, setting or clearing CompletedAt.
func (s *Store) ToggleComplete(id string) (model.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, &NotFoundError{ID: id}
	}

	before := s.items[i].Clone()
	after := before.Clone()
	after.Completed = !before.Completed
	if after.Completed {
		at := s.now().UnixMilli()
		after.CompletedAt = &at
	} else {
		after.CompletedAt = nil
	}

	s.items[i] = after
	s.history.Record(Entry{Kind: EntryToggle, TaskID: id, Before: before, After: after.Clone()})
	return after.Clone(), nil
}

// Edit replaces text and priority in place; id, createdAt and
// completion are preserved.
func (s *Store) Edit(id, text string, priority model.Priority) (model.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, &NotFoundError{ID: id}
	}
	text, priority, err := validateInput(text, priority)
	if err != nil {
		return model.Task{}, err
	}

	before := s.items[i].Clone()
	after := before.Clone()
	after.Text = text
	after.Priority = priority

	s.items[i] = after
	s.history.Record(Entry{Kind: EntryEdit, TaskID: id, Before: before, After: after.Clone()})
	return after.Clone(), nil
}

// Reorder moves sourceID to targetID's position within the tasks
// visible under filter (in collection order) and writes that order
// back into the slots those tasks occupy. Tasks hidden by the filter
// keep their positions. Reorders are not recorded in history.
func (s *Store) Reorder(sourceID, targetID string, filter model.FilterMode) error {
	if sourceID == targetID {
		return &NotFoundError{ID: targetID}
	}

	var slots []int
	var view []model.Task
	src, dst := -1, -1
	for i, t := range s.items {
		if !filter.Matches(t) {
			continue
		}
		switch t.ID {
		case sourceID:
			src = len(view)
		case targetID:
			dst = len(view)
		}
		slots = append(slots, i)
		view = append(view, t)
	}
	if src < 0 {
		return &NotFoundError{ID: sourceID}
	}
	if dst < 0 {
		return &NotFoundError{ID: targetID}
	}

	moved := view[src]
	view = append(view[:src], view[src+1:]...)
	view = append(view[:dst], append([]model.Task{moved}, view[dst:]...)...)

	for k, slot := range slots {
		s.items[slot] = view[k]
	}
	return nil
}

// Merge loads tasks by overwrite-on-id: existing ids are replaced in
// place and new ids are appended. History and selection are untouched.
func (s *Store) Merge(tasks []model.Task) {
	for _, t := range tasks {
		if i := s.indexOf(t.ID); i >= 0 {
			s.items[i] = t.Clone()
			continue
		}
		s.items = append(s.items, t.Clone())
	}
}

// Replace swaps the whole collection for tasks. The selection and the
// history are cleared since they describe the discarded collection.
func (s *Store) Replace(tasks []model.Task) {
	s.items = nil
	s.Merge(tasks)
	s.selection.Clear()
	s.history.Clear()
}

// Undo reverses the most recent mutation. It reports false when there
// is nothing to undo. On error nothing changes.
func (s *Store) Undo() (Entry, bool, error) {
	e, ok := s.history.Peek()
	if !ok {
		return Entry{}, false, nil
	}

	var err error
	switch e.Kind {
	case EntryAdd:
		_, err = s.delete(e.Task.ID)
	case EntryRemove:
		err = s.insert(e.Task.Clone())
	case EntryToggle, EntryEdit:
		err = s.replace(e.Before.Clone())
	default:
		err = fmt.Errorf("unknown history entry %q", e.Kind)
	}
	if err != nil {
		return Entry{}, true, fmt.Errorf("undoing %s: %w", e.Kind, err)
	}

	s.history.popUndo()
	return e, true, nil
}

// Redo reapplies the most recently undone mutation.
func (s *Store) Redo() (Entry, bool, error) {
	e, ok := s.history.PeekRedo()
	if !ok {
		return Entry{}, false, nil
	}

	var err error
	switch e.Kind {
	case EntryAdd:
		err = s.insert(e.Task.Clone())
	case EntryRemove:
		_, err = s.delete(e.Task.ID)
	case EntryToggle, EntryEdit:
		err = s.replace(e.After.Clone())
	default:
		err = fmt.Errorf("unknown history entry %q", e.Kind)
	}
	if err != nil {
		return Entry{}, true, fmt.Errorf("redoing %s: %w", e.Kind, err)
	}

	s.history.popRedo()
	return e, true, nil
}

// === Selection ===

// ToggleSelected flips the selection of a live task.
func (s *Store) ToggleSelected(id string) (bool, error) {
	if s.indexOf(id) < 0 {
		return false, &NotFoundError{ID: id}
	}
	return s.selection.Toggle(id), nil
}

// SelectOnly makes id the only selected task.
func (s *Store) SelectOnly(id string) error {
	if s.indexOf(id) < 0 {
		return &NotFoundError{ID: id}
	}
	s.selection.SelectOnly(id)
	return nil
}

// SelectAllVisible toggles the selection over the given ids, ignoring
// ids that are not live.
func (s *Store) SelectAllVisible(ids []string) bool {
	live := make([]string, 0, len(ids))
	for _, id := range ids {
		if s.indexOf(id) >= 0 {
			live = append(live, id)
		}
	}
	return s.selection.SelectAllVisible(live)
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() {
	s.selection.Clear()
}

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id string) bool {
	return s.selection.Contains(id)
}

// SelectionLen returns the number of selected tasks.
func (s *Store) SelectionLen() int {
	return s.selection.Len()
}

// SelectedIDs returns the selected ids in collection order.
func (s *Store) SelectedIDs() []string {
	var ids []string
	for _, t := range s.items {
		if s.selection.Contains(t.ID) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// CompleteSelected marks every pending selected task complete (one
// history entry each) and clears the selection.
func (s *Store) CompleteSelected() (int, error) {
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return 0, &ValidationError{Reason: "no tasks selected"}
	}

	n := 0
	for _, id := range ids {
		t := s.items[s.indexOf(id)]
		if t.Completed {
			continue
		}
		if _, err := s.ToggleComplete(id); err != nil {
			return n, err
		}
		n++
	}
	s.selection.Clear()
	return n, nil
}

// RemoveSelected deletes every selected task (one history entry each)
// and clears the selection.
func (s *Store) RemoveSelected() ([]model.Task, error) {
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return nil, &ValidationError{Reason: "no tasks selected"}
	}

	removed := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Remove(id)
		if err != nil {
			return removed, err
		}
		removed = append(removed, t)
	}
	s.selection.Clear()
	return removed, nil
}

// === Primitives (no history) ===

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) insert(t model.Task) error {
	if s.indexOf(t.ID) >= 0 {
		return &ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %s", t.ID)}
	}
	s.items = append(s.items, t)
	return nil
}

func (s *Store) delete(id string) (model.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, &NotFoundError{ID: id}
	}
	t := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.selection.Remove(id)
	return t, nil
}

func (s *Store) replace(t model.Task) error {
	i := s.indexOf(t.ID)
	if i < 0 {
		return &NotFoundError{ID: t.ID}
	}
	s.items[i] = t
	return nil
}

func validateInput(text string, priority model.Priority) (string, model.Priority, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return "", "", &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", priority)}
	}
	return text, priority, nil
}
