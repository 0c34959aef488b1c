package tasks

// Selection is the set of task ids marked for bulk operations.
// It knows nothing about the collection; Store keeps it consistent.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// SelectAll adds every id.
func (s *Selection) SelectAll(ids []string) {
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// DeselectAll removes every id.
func (s *Selection) DeselectAll(ids []string) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// SelectAllVisible acts as a toggle over ids: when all of them are
// already selected they are all deselected, otherwise all are selected.
// It reports whether the ids ended up selected.
func (s *Selection) SelectAllVisible(ids []string) bool {
	for _, id := range ids {
		if !s.Contains(id) {
			s.SelectAll(ids)
			return true
		}
	}
	s.DeselectAll(ids)
	return false
}

// SelectOnly replaces the selection with the single id.
func (s *Selection) SelectOnly(id string) {
	s.Clear()
	s.ids[id] = struct{}{}
}

// Remove drops id if present.
func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.ids)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in no particular order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}
