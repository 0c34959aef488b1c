// Package view derives the visible projection of a task collection:
// filtering, sorting, counters and productivity statistics. Every
// function is pure and returns fresh slices; inputs are never mutated.
package view

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nhle/todo-manager/internal/model"
)

// Stats summarises a set of tasks.
type Stats struct {
	Total               int `json:"total" yaml:"total"`
	Completed           int `json:"completed" yaml:"completed"`
	Pending             int `json:"pending" yaml:"pending"`
	ProductivityPercent int `json:"productivityPercent" yaml:"productivity_percent"`
}

// Counts are the per-filter counters shown next to the filter tabs.
type Counts struct {
	All       int
	Pending   int
	Completed int
}

// Of returns the counter for a filter mode.
func (c Counts) Of(m model.FilterMode) int {
	switch m {
	case model.FilterPending:
		return c.Pending
	case model.FilterCompleted:
		return c.Completed
	default:
		return c.All
	}
}

// Filter returns the tasks matching mode, in input order.
func Filter(tasks []model.Task, mode model.FilterMode) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if mode.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a stably sorted copy of tasks. Alphabetical order uses a
// case-insensitive collator for locale (a BCP 47 tag; unknown tags fall
// back to the root collation).
func Sort(tasks []model.Task, mode model.SortMode, locale string) []model.Task {
	out := slices.Clone(tasks)
	if out == nil {
		out = []model.Task{}
	}

	switch mode {
	case model.SortNewest:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return cmp.Compare(b.CreatedAt, a.CreatedAt)
		})
	case model.SortOldest:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return cmp.Compare(a.CreatedAt, b.CreatedAt)
		})
	case model.SortPriority:
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		})
	case model.SortAlphabetical:
		c := collate.New(language.Make(locale), collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b model.Task) int {
			return c.CompareString(a.Text, b.Text)
		})
	}
	return out
}

// Visible applies Filter then Sort.
func Visible(tasks []model.Task, filter model.FilterMode, sort model.SortMode, locale string) []model.Task {
	return Sort(Filter(tasks, filter), sort, locale)
}

// ComputeStats counts tasks and returns the completed share as a
// percentage rounded half up; 0 when there are no tasks.
func ComputeStats(tasks []model.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.ProductivityPercent = (s.Completed*200 + s.Total) / (2 * s.Total)
	}
	return s
}

// CountsOf returns the all/pending/completed counters for tasks.
func CountsOf(tasks []model.Task) Counts {
	var c Counts
	for _, t := range tasks {
		c.All++
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}
