package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the user-assigned importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from most to least important.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority converts user input into a Priority. An empty string
// resolves to PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q (want low, medium or high)", s)
}

// String returns the priority name.
func (p Priority) String() string {
	return string(p)
}

// Rank orders priorities for sorting (lower rank = more important).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Task is a single to-do item.
//
// Timestamps are Unix milliseconds, matching the snapshot file format.
type Task struct {
	// ID is assigned on creation and never changes.
	ID string `json:"id" yaml:"id"`

	// Text is the display string; never empty after trimming.
	Text string `json:"text" yaml:"text"`

	Priority  Priority `json:"priority" yaml:"priority"`
	Completed bool     `json:"completed" yaml:"completed"`

	// CreatedAt is the creation time in Unix milliseconds.
	CreatedAt int64 `json:"createdAt" yaml:"created_at"`

	// CompletedAt is set iff Completed is true.
	CompletedAt *int64 `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
}

// Created returns CreatedAt as a time.Time.
func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// CompletedTime returns CompletedAt as a time.Time, or the zero time
// for pending tasks.
func (t Task) CompletedTime() time.Time {
	if t.CompletedAt == nil {
		return time.Time{}
	}
	return time.UnixMilli(*t.CompletedAt)
}

// Clone returns a deep copy so callers never share the CompletedAt pointer.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

// Status returns "completed" or "pending".
func (t Task) Status() string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}
