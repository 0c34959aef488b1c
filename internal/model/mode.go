package model

import (
	"fmt"
	"strings"
)

// FilterMode selects which tasks are visible.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterPending   FilterMode = "pending"
	FilterCompleted FilterMode = "completed"
)

// FilterModes is the cycling order used by the UI.
var FilterModes = []FilterMode{FilterAll, FilterPending, FilterCompleted}

// ParseFilterMode converts user input into a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	m := FilterMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FilterModes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
}

// Matches reports whether t is visible under the filter.
func (m FilterMode) Matches(t Task) bool {
	switch m {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// SortMode selects the display order of visible tasks.
type SortMode string

const (
	SortNewest       SortMode = "newest"
	SortOldest       SortMode = "oldest"
	SortPriority     SortMode = "priority"
	SortAlphabetical SortMode = "alphabetical"

	// SortManual keeps the stored (user-reordered) order.
	SortManual SortMode = "manual"
)

// SortModes is the cycling order used by the UI.
var SortModes = []SortMode{SortNewest, SortOldest, SortPriority, SortAlphabetical, SortManual}

// ParseSortMode converts user input into a SortMode.
func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortModes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q (want newest, oldest, priority, alphabetical or manual)", s)
}

// NextFilter returns the filter after m in FilterModes.
func NextFilter(m FilterMode) FilterMode {
	for i, known := range FilterModes {
		if known == m {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}

// NextSort returns the sort mode after m in SortModes.
func NextSort(m SortMode) SortMode {
	for i, known := range SortModes {
		if known == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortNewest
}
