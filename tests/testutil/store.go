package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/nhle/todo-manager/internal/session"
	"github.com/nhle/todo-manager/internal/store"
	"github.com/nhle/todo-manager/internal/tasks"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// Deterministic returns store options with a clock that advances 100ms
// per call (starting at 100) and ids t1, t2, ...
func Deterministic() []tasks.Option {
	clock := time.UnixMilli(0)
	seq := 0
	return []tasks.Option{
		tasks.WithClock(func() time.Time {
			clock = clock.Add(100 * time.Millisecond)
			return clock
		}),
		tasks.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("t%d", seq)
		}),
	}
}

// NewTestSession creates a session over gw (a fresh in-memory SQLite
// store when nil) with deterministic clock and ids.
func NewTestSession(t *testing.T, gw store.Gateway, opts session.Options) *session.Session {
	t.Helper()

	if gw == nil {
		gw = NewTestStore(t)
	}
	opts.StoreOptions = append(Deterministic(), opts.StoreOptions...)
	return session.New(gw, opts)
}
