package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/todo-manager/internal/model"
)

func task(id string, created int64, p model.Priority, done bool) model.Task {
	t := model.Task{ID: id, Text: id, Priority: p, CreatedAt: created, Completed: done}
	if done {
		at := created + 1
		t.CompletedAt = &at
	}
	return t
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tasks := []model.Task{
		task("a", 1, model.PriorityLow, false),
		task("b", 2, model.PriorityLow, true),
		task("c", 3, model.PriorityLow, false),
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(Filter(tasks, model.FilterAll)))
	assert.Equal(t, []string{"a", "c"}, ids(Filter(tasks, model.FilterPending)))
	assert.Equal(t, []string{"b"}, ids(Filter(tasks, model.FilterCompleted)))
	assert.Empty(t, Filter(nil, model.FilterAll))
}

func TestSort(t *testing.T) {
	byCreated := []model.Task{
		task("mid", 200, model.PriorityMedium, false),
		task("old", 100, model.PriorityMedium, false),
		task("new", 300, model.PriorityMedium, false),
	}

	tests := []struct {
		name  string
		input []model.Task
		mode  model.SortMode
		want  []string
	}{
		{"newest", byCreated, model.SortNewest, []string{"new", "mid", "old"}},
		{"oldest", byCreated, model.SortOldest, []string{"old", "mid", "new"}},
		{"manual keeps order", byCreated, model.SortManual, []string{"mid", "old", "new"}},
		{
			"priority",
			[]model.Task{
				task("low", 1, model.PriorityLow, false),
				task("high", 2, model.PriorityHigh, false),
				task("medium", 3, model.PriorityMedium, false),
			},
			model.SortPriority,
			[]string{"high", "medium", "low"},
		},
		{
			"priority ties keep input order",
			[]model.Task{
				task("h1", 1, model.PriorityHigh, false),
				task("l1", 2, model.PriorityLow, false),
				task("h2", 3, model.PriorityHigh, false),
			},
			model.SortPriority,
			[]string{"h1", "h2", "l1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ids(tt.input)
			assert.Equal(t, tt.want, ids(Sort(tt.input, tt.mode, "en")))
			assert.Equal(t, before, ids(tt.input), "input must not be mutated")
		})
	}
}

func TestSort_Alphabetical(t *testing.T) {
	named := func(text string) model.Task {
		return model.Task{ID: text, Text: text, Priority: model.PriorityMedium}
	}
	tasks := []model.Task{named("banana"), named("Apple"), named("cherry"), named("apple")}

	got := ids(Sort(tasks, model.SortAlphabetical, "en"))
	assert.Equal(t, []string{"Apple", "apple", "banana", "cherry"}, got, "case-insensitive and stable")

	// Swedish collates å after z.
	sv := []model.Task{named("åsa"), named("zebra"), named("anna")}
	assert.Equal(t, []string{"anna", "zebra", "åsa"}, ids(Sort(sv, model.SortAlphabetical, "sv")))
}

func TestVisible(t *testing.T) {
	tasks := []model.Task{
		task("a", 100, model.PriorityLow, true),
		task("b", 200, model.PriorityLow, false),
		task("c", 300, model.PriorityLow, false),
	}
	assert.Equal(t, []string{"c", "b"}, ids(Visible(tasks, model.FilterPending, model.SortNewest, "en")))
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		completed int
		want      Stats
	}{
		{"empty", 0, 0, Stats{}},
		{"one of three", 3, 1, Stats{Total: 3, Completed: 1, Pending: 2, ProductivityPercent: 33}},
		{"two of three", 3, 2, Stats{Total: 3, Completed: 2, Pending: 1, ProductivityPercent: 67}},
		{"half rounds up", 8, 1, Stats{Total: 8, Completed: 1, Pending: 7, ProductivityPercent: 13}},
		{"all", 2, 2, Stats{Total: 2, Completed: 2, ProductivityPercent: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tasks []model.Task
			for i := range tt.total {
				tasks = append(tasks, task(string(rune('a'+i)), int64(i), model.PriorityLow, i < tt.completed))
			}
			assert.Equal(t, tt.want, ComputeStats(tasks))
		})
	}
}

func TestCountsOf(t *testing.T) {
	c := CountsOf([]model.Task{
		task("a", 1, model.PriorityLow, true),
		task("b", 2, model.PriorityLow, false),
		task("c", 3, model.PriorityLow, false),
	})
	assert.Equal(t, Counts{All: 3, Pending: 2, Completed: 1}, c)
	assert.Equal(t, 2, c.Of(model.FilterPending))
	assert.Equal(t, 1, c.Of(model.FilterCompleted))
	assert.Equal(t, 3, c.Of(model.FilterAll))
}
