// Package snapshot encodes a task collection to and from the persisted
// JSON shape: an array of [id, task] pairs in collection order.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/todo-manager/internal/model"
)

// ErrSerialization is returned when a snapshot cannot be decoded.
var ErrSerialization = errors.New("malformed snapshot")

// SerializationError wraps ErrSerialization with the failing element.
type SerializationError struct {
	// Index is the array element that failed, or -1 for the document.
	Index  int
	Reason string
}

func (e *SerializationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed snapshot: %s", e.Reason)
	}
	return fmt.Sprintf("malformed snapshot: element %d: %s", e.Index, e.Reason)
}

func (e *SerializationError) Unwrap() error {
	return ErrSerialization
}

// Encode writes tasks as a JSON array of [id, task] pairs.
func Encode(tasks []model.Task) ([]byte, error) {
	pairs := make([][2]any, len(tasks))
	for i, t := range tasks {
		pairs[i] = [2]any{t.ID, t}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. Elements may be [id, task] pairs or bare
// task objects. Every task is validated; on duplicate ids the last value
// wins at the first position. CompletedAt is dropped from pending tasks
// and defaulted to CreatedAt for completed tasks that lack it.
// An empty or whitespace-only document decodes to no tasks.
func Decode(data []byte) ([]model.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SerializationError{Index: -1, Reason: err.Error()}
	}

	out := make([]model.Task, 0, len(raw))
	pos := make(map[string]int, len(raw))
	for i, elem := range raw {
		t, err := decodeElement(elem)
		if err != nil {
			return nil, &SerializationError{Index: i, Reason: err.Error()}
		}
		if j, ok := pos[t.ID]; ok {
			out[j] = t
			continue
		}
		pos[t.ID] = len(out)
		out = append(out, t)
	}
	return out, nil
}

// DecodeImport is Decode for user-supplied files: the document must be a
// JSON array, so an empty file or a bare null is rejected instead of
// decoding to no tasks.
func DecodeImport(data []byte) ([]model.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &SerializationError{Index: -1, Reason: "empty document"}
	}
	if trimmed[0] != '[' {
		return nil, &SerializationError{Index: -1, Reason: "want a JSON array of [id, task] pairs"}
	}
	return Decode(trimmed)
}

func decodeElement(elem json.RawMessage) (model.Task, error) {
	var t model.Task
	trimmed := bytes.TrimSpace(elem)

	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return t, err
		}
		if len(pair) != 2 {
			return t, fmt.Errorf("want [id, task] pair, got %d items", len(pair))
		}
		var key string
		if err := json.Unmarshal(pair[0], &key); err != nil {
			return t, fmt.Errorf("pair key: %w", err)
		}
		if err := json.Unmarshal(pair[1], &t); err != nil {
			return t, fmt.Errorf("pair value: %w", err)
		}
		if t.ID == "" {
			t.ID = key
		}
		if t.ID != key {
			return t, fmt.Errorf("pair key %q does not match task id %q", key, t.ID)
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &t); err != nil {
			return t, err
		}
	default:
		return t, fmt.Errorf("want [id, task] pair or task object")
	}

	return normalize(t)
}

func normalize(t model.Task) (model.Task, error) {
	if t.ID == "" {
		return t, fmt.Errorf("missing id")
	}
	if strings.TrimSpace(t.Text) == "" {
		return t, fmt.Errorf("task %s: empty text", t.ID)
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if !t.Priority.Valid() {
		return t, fmt.Errorf("task %s: unknown priority %q", t.ID, t.Priority)
	}
	switch {
	case !t.Completed:
		t.CompletedAt = nil
	case t.CompletedAt == nil:
		at := t.CreatedAt
		t.CompletedAt = &at
	}
	return t, nil
}
