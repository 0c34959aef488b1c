package autosave

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	saved []string
}

func (r *recorder) save(v string) SaveFunc {
	return func(context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.saved = append(r.saved, v)
		return nil
	}
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saved...)
}

func TestDebouncer_OnlyLastScheduleRuns(t *testing.T) {
	d := New(20 * time.Millisecond)
	r := &recorder{}

	d.Schedule("draft", r.save("h"))
	d.Schedule("draft", r.save("he"))
	d.Schedule("draft", r.save("hello"))
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool { return len(r.values()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hello"}, r.values())
	assert.False(t, d.Pending())

	msg := d.WaitForResult()()
	assert.Equal(t, SavedMsg{Label: "draft"}, msg)
}

func TestDebouncer_Cancel(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls atomic.Int32
	d.Schedule("draft", func(context.Context) error {
		calls.Add(1)
		return nil
	})

	assert.True(t, d.Cancel())
	assert.False(t, d.Cancel())
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDebouncer_Flush(t *testing.T) {
	d := New(time.Hour)
	r := &recorder{}

	require.NoError(t, d.Flush(context.Background()), "nothing pending")

	d.Schedule("draft", r.save("now"))
	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, []string{"now"}, r.values())
	assert.False(t, d.Pending())

	boom := errors.New("disk full")
	d.Schedule("draft", func(context.Context) error { return boom })
	assert.ErrorIs(t, d.Flush(context.Background()), boom)
}

func TestDebouncer_StopFlushesAndRefuses(t *testing.T) {
	d := New(time.Hour)
	r := &recorder{}

	d.Schedule("draft", r.save("last"))
	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, []string{"last"}, r.values())

	d.Schedule("draft", r.save("ignored"))
	assert.False(t, d.Pending())
}

func TestDebouncer_ReportsErrors(t *testing.T) {
	d := New(time.Millisecond)
	boom := errors.New("boom")
	d.Schedule("theme", func(context.Context) error { return boom })

	msg := d.WaitForResult()()
	saved, ok := msg.(SavedMsg)
	require.True(t, ok)
	assert.Equal(t, "theme", saved.Label)
	assert.ErrorIs(t, saved.Err, boom)
}

func TestDebouncer_StopWaitsForRunningSave(t *testing.T) {
	d := New(time.Millisecond)
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	d.Schedule("draft", func(context.Context) error {
		close(started)
		<-release
		finished.Store(true)
		return nil
	})
	<-started

	stopped := make(chan struct{})
	go func() {
		_ = d.Stop(context.Background())
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a save was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the save finished")
	}
	assert.True(t, finished.Load())
}
