package store

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeyTasks       = "tasks"
	KeyTheme       = "theme"
	KeyDraft       = "draft"
	KeyTasksBackup = "tasks.bak"
)

// ErrClosed is returned by a gateway used after Close.
var ErrClosed = errors.New("store closed")

// Gateway persists opaque string snapshots under string keys. Each Put
// replaces the previous value for the key in full.
type Gateway interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
